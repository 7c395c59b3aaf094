package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"fixed step positive", func(c *Config) {
			c.Step.UseFixed = true
			c.Step.Timestep = 1e-9
		}, false},
		{"fixed step zero", func(c *Config) {
			c.Step.UseFixed = true
			c.Step.Timestep = 0
		}, true},
		{"gyrotime steps zero", func(c *Config) {
			c.Step.StepsPerGyrotime = 0
		}, true},
		{"negative sim time", func(c *Config) {
			c.End.MaxSimTime = -1
		}, true},
		{"empty rho window", func(c *Config) {
			c.End.MinRho = 0.8
			c.End.MaxRho = 0.5
		}, true},
		{"rho window ignored when disabled", func(c *Config) {
			c.End.RhoLim = false
			c.End.MinRho = 0.8
			c.End.MaxRho = 0.5
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RepairsRecordEvery(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecordEvery = 0
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.RecordEvery != DefaultRecordEvery {
		t.Errorf("RecordEvery = %d, want %d", cfg.RecordEvery, DefaultRecordEvery)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Field.Model = "grid"
	cfg.Field.B0 = 2.5
	cfg.Electric.Model = "radial"
	cfg.Electric.RhoMax = 1.2
	cfg.Electric.Er = []float64{0, 1e3, 2e3}
	cfg.Markers = "markers.yaml"
	cfg.End.OrbitLim = true
	cfg.End.MaxPoloidalOrbs = 3

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Field.Model != "grid" || got.Field.B0 != 2.5 {
		t.Errorf("field config lost: %+v", got.Field)
	}
	if got.Electric.Model != "radial" || len(got.Electric.Er) != 3 {
		t.Errorf("electric config lost: %+v", got.Electric)
	}
	if got.Markers != "markers.yaml" {
		t.Errorf("markers path lost: %q", got.Markers)
	}
	if !got.End.OrbitLim || got.End.MaxPoloidalOrbs != 3 {
		t.Errorf("end config lost: %+v", got.End)
	}
}

func TestLoad_FillsDefaults(t *testing.T) {
	// A sparse file only overrides what it names.
	path := filepath.Join(t.TempDir(), "sparse.yaml")
	sparse := "field:\n  b0: 3.3\nstep:\n  steps_per_gyrotime: 5\n"
	if err := writeFile(path, sparse); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Field.B0 != 3.3 {
		t.Errorf("B0 = %g, want 3.3", got.Field.B0)
	}
	if got.Step.StepsPerGyrotime != 5 {
		t.Errorf("StepsPerGyrotime = %d, want 5", got.Step.StepsPerGyrotime)
	}
	if got.Field.Model != "circular" {
		t.Errorf("Field.Model = %q, want default %q", got.Field.Model, "circular")
	}
	if got.End.MaxSimTime != DefaultMaxSimTime {
		t.Errorf("MaxSimTime = %g, want default %g", got.End.MaxSimTime, DefaultMaxSimTime)
	}
}

func writeFile(path, data string) error {
	return os.WriteFile(path, []byte(data), 0644)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	bad := DefaultConfig()
	bad.End.MaxSimTime = -1
	if err := Save(path, bad); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid config should fail to load")
	}
}

func TestPresets(t *testing.T) {
	if len(ListPresets()) == 0 {
		t.Fatal("no presets defined")
	}
	for name, cfg := range Presets {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
	if GetPreset("passing") == nil {
		t.Error("passing preset missing")
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}
}

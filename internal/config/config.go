package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultB0           = 5.0
	DefaultR0           = 1.65
	DefaultMinorRadius  = 0.6
	DefaultSafetyFactor = 1.7
	DefaultTimestep     = 1e-8
	DefaultStepsPerGyro = 20
	DefaultMaxSimTime   = 1e-4
	DefaultMaxRho       = 1.0
	DefaultRecordEvery  = 10
)

type Config struct {
	Field    FieldConfig    `yaml:"field"`
	Electric ElectricConfig `yaml:"electric"`
	Markers  string         `yaml:"markers"`
	Step     StepConfig     `yaml:"step"`
	End      EndConfig      `yaml:"endcond"`

	// RecordEvery is the orbit-history sampling interval in steps.
	RecordEvery int `yaml:"record_every"`
}

type FieldConfig struct {
	Model        string  `yaml:"model"`
	B0           float64 `yaml:"b0"`
	R0           float64 `yaml:"r0"`
	Z0           float64 `yaml:"z0"`
	MinorRadius  float64 `yaml:"minor_radius"`
	SafetyFactor float64 `yaml:"safety_factor"`

	// Grid resolution when model is "grid"; the analytic equilibrium is
	// tabulated at this resolution.
	GridNR int `yaml:"grid_nr"`
	GridNZ int `yaml:"grid_nz"`
}

type ElectricConfig struct {
	Model  string    `yaml:"model"`
	RhoMin float64   `yaml:"rho_min"`
	RhoMax float64   `yaml:"rho_max"`
	Er     []float64 `yaml:"er"`
}

type StepConfig struct {
	// UseFixed selects the user-defined timestep over the gyrotime rule.
	UseFixed bool    `yaml:"use_fixed"`
	Timestep float64 `yaml:"timestep"`

	// StepsPerGyrotime sets h from the local gyration period when UseFixed
	// is false.
	StepsPerGyrotime int `yaml:"steps_per_gyrotime"`
}

type EndConfig struct {
	MaxSimTime float64 `yaml:"max_sim_time"`

	RhoLim bool    `yaml:"rho_lim"`
	MaxRho float64 `yaml:"max_rho"`
	MinRho float64 `yaml:"min_rho"`

	OrbitLim        bool `yaml:"orbit_lim"`
	MaxPoloidalOrbs int  `yaml:"max_poloidal_orbs"`
	MaxToroidalOrbs int  `yaml:"max_toroidal_orbs"`
}

func DefaultConfig() *Config {
	return &Config{
		Field: FieldConfig{
			Model:        "circular",
			B0:           DefaultB0,
			R0:           DefaultR0,
			MinorRadius:  DefaultMinorRadius,
			SafetyFactor: DefaultSafetyFactor,
			GridNR:       120,
			GridNZ:       120,
		},
		Electric: ElectricConfig{Model: "zero"},
		Step: StepConfig{
			UseFixed:         false,
			Timestep:         DefaultTimestep,
			StepsPerGyrotime: DefaultStepsPerGyro,
		},
		End: EndConfig{
			MaxSimTime: DefaultMaxSimTime,
			RhoLim:     true,
			MaxRho:     DefaultMaxRho,
			MinRho:     0,
		},
		RecordEvery: DefaultRecordEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Step.UseFixed && c.Step.Timestep <= 0 {
		return fmt.Errorf("config: fixed timestep must be positive, got %g", c.Step.Timestep)
	}
	if !c.Step.UseFixed && c.Step.StepsPerGyrotime <= 0 {
		return fmt.Errorf("config: steps per gyrotime must be positive, got %d", c.Step.StepsPerGyrotime)
	}
	if c.End.MaxSimTime <= 0 {
		return fmt.Errorf("config: max simulation time must be positive, got %g", c.End.MaxSimTime)
	}
	if c.End.RhoLim && c.End.MaxRho <= c.End.MinRho {
		return fmt.Errorf("config: rho limits [%g, %g] are empty", c.End.MinRho, c.End.MaxRho)
	}
	if c.RecordEvery <= 0 {
		c.RecordEvery = DefaultRecordEvery
	}
	return nil
}

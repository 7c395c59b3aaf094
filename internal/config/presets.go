package config

// Presets are named run configurations, keyed by scenario.
var Presets = map[string]*Config{
	"passing": {
		Field: FieldConfig{
			Model: "circular", B0: 5.0, R0: 1.65,
			MinorRadius: 0.6, SafetyFactor: 1.7,
			GridNR: 120, GridNZ: 120,
		},
		Electric: ElectricConfig{Model: "zero"},
		Step:     StepConfig{StepsPerGyrotime: 20},
		End:      EndConfig{MaxSimTime: 2e-4, RhoLim: true, MaxRho: 1.0},

		RecordEvery: 10,
	},
	"trapped": {
		Field: FieldConfig{
			Model: "circular", B0: 2.5, R0: 1.65,
			MinorRadius: 0.6, SafetyFactor: 2.5,
			GridNR: 120, GridNZ: 120,
		},
		Electric: ElectricConfig{Model: "zero"},
		Step:     StepConfig{StepsPerGyrotime: 30},
		End:      EndConfig{MaxSimTime: 5e-4, RhoLim: true, MaxRho: 1.0},

		RecordEvery: 10,
	},
	"exb": {
		Field: FieldConfig{
			Model: "circular", B0: 5.0, R0: 1.65,
			MinorRadius: 0.6, SafetyFactor: 1.7,
			GridNR: 120, GridNZ: 120,
		},
		Electric: ElectricConfig{
			Model:  "radial",
			RhoMin: 0, RhoMax: 1.2,
			Er: []float64{0, 2e3, 4e3, 6e3, 8e3, 1e4, 1.2e4},
		},
		Step: StepConfig{StepsPerGyrotime: 20},
		End:  EndConfig{MaxSimTime: 2e-4, RhoLim: true, MaxRho: 1.0},

		RecordEvery: 10,
	},
	"grid": {
		Field: FieldConfig{
			Model: "grid", B0: 5.0, R0: 1.65,
			MinorRadius: 0.6, SafetyFactor: 1.7,
			GridNR: 200, GridNZ: 200,
		},
		Electric: ElectricConfig{Model: "zero"},
		Step:     StepConfig{StepsPerGyrotime: 20},
		End:      EndConfig{MaxSimTime: 2e-4, RhoLim: true, MaxRho: 1.0},

		RecordEvery: 10,
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/gyrosim/internal/config"
	"github.com/san-kum/gyrosim/internal/field"
	"github.com/san-kum/gyrosim/internal/motion"
)

// BuildField constructs the configured magnetic field model. The model set
// is closed; unknown names are configuration errors.
func BuildField(fc config.FieldConfig) (field.Evaluator, error) {
	switch fc.Model {
	case "uniform":
		return field.NewUniformToroidal(fc.B0, fc.R0, fc.Z0, fc.MinorRadius), nil
	case "circular":
		return field.NewCircularTokamak(fc.B0, fc.R0, fc.MinorRadius, fc.SafetyFactor), nil
	case "grid":
		analytic := field.NewCircularTokamak(fc.B0, fc.R0, fc.MinorRadius, fc.SafetyFactor)
		// Tabulate an inscribed square so every node is inside the
		// analytic model's circular domain.
		half := fc.MinorRadius / math.Sqrt2 * 0.99
		psiEdge := 0.5 * (fc.B0 / fc.SafetyFactor) * fc.MinorRadius * fc.MinorRadius
		return field.Tabulate(analytic,
			fc.R0-half, fc.R0+half, fc.GridNR,
			-half, half, fc.GridNZ,
			psiEdge)
	default:
		return nil, fmt.Errorf("sim: unknown field model: %s", fc.Model)
	}
}

// BuildElectric constructs the configured electric field model.
func BuildElectric(ec config.ElectricConfig, bf field.Evaluator) (field.Electric, error) {
	switch ec.Model {
	case "", "zero":
		return field.ZeroE{}, nil
	case "radial":
		return field.NewRadialE(bf, ec.RhoMin, ec.RhoMax, ec.Er)
	default:
		return nil, fmt.Errorf("sim: unknown electric model: %s", ec.Model)
	}
}

// BuildMotion returns the configured equation of motion.
func BuildMotion(name string) (motion.Model, error) {
	switch name {
	case "", "gc":
		return motion.NewGuidingCenter(), nil
	default:
		return nil, fmt.Errorf("sim: unknown equation of motion: %s", name)
	}
}

// Package motion defines the equation-of-motion contract consumed by the
// stepper and the reference drift-kinetic guiding-center implementation.
// Models form a closed set chosen once at configuration time.
package motion

import (
	"math"

	"github.com/san-kum/gyrosim/internal/field"
	"github.com/san-kum/gyrosim/internal/orbit"
)

// Model converts a phase-space state plus a field sample into the state
// time derivative. Implementations must be pure: deterministic, no stored
// state, safe for concurrent and redundant invocation across lanes.
type Model interface {
	Derive(y orbit.State, mass, charge float64, b field.Sample, e field.Vec3) orbit.State
}

// Gyroperiod returns the gyration period for a particle in field magnitude
// bnorm. Used to derive a fixed timestep from the local field.
func Gyroperiod(mass, charge, bnorm float64) float64 {
	return orbit.TwoPi * mass / (math.Abs(charge) * bnorm)
}

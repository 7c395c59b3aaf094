package orbit

import "math"

// Physical constants (SI). These are configuration, not derived values.
const (
	// CLight is the speed of light [m/s], used as the kinetic sanity bound.
	CLight = 299792458.0

	// TwoPi is the full angle used for theta wrapping and orbit counting.
	TwoPi = 2 * math.Pi

	// Amu is the atomic mass unit [kg].
	Amu = 1.66053906660e-27

	// ElemCharge is the elementary charge [C].
	ElemCharge = 1.602176634e-19
)

package analysis

import (
	"math"

	"github.com/san-kum/gyrosim/internal/sim"
)

// SectionPoint is one crossing of the Poincaré plane.
type SectionPoint struct {
	R, Z float64
}

// PoincareSection returns the (r, z) points where the recorded orbit
// crosses the toroidal plane phi = plane (mod 2pi), linearly interpolated
// between the samples on either side of each crossing.
func PoincareSection(history []sim.OrbitPoint, plane float64) []SectionPoint {
	if len(history) < 2 {
		return nil
	}

	var pts []SectionPoint
	for k := 1; k < len(history); k++ {
		a := history[k-1]
		b := history[k]

		// Shift so the plane sits at integer multiples of 2pi.
		fa := (a.Phi - plane) / (2 * math.Pi)
		fb := (b.Phi - plane) / (2 * math.Pi)
		if math.Floor(fa) == math.Floor(fb) || fa == fb {
			continue
		}

		// Fractional distance from a to the crossed multiple.
		var boundary float64
		if fb > fa {
			boundary = math.Ceil(fa)
		} else {
			boundary = math.Floor(fa)
		}
		t := (boundary - fa) / (fb - fa)
		if t < 0 || t > 1 {
			continue
		}
		pts = append(pts, SectionPoint{
			R: a.R + t*(b.R-a.R),
			Z: a.Z + t*(b.Z-a.Z),
		})
	}
	return pts
}

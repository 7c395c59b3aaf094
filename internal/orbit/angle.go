package orbit

import "math"

// WrapTheta normalizes an angle into [0, 2pi).
func WrapTheta(x float64) float64 {
	x = math.Mod(x, TwoPi)
	if x < 0 {
		x += TwoPi
	}
	return x
}

// DeltaPol returns the signed angle swept about the axis (axisR, axisZ)
// when moving from (r0, z0) to (r1, z1) in the poloidal plane. Summing the
// increments gives an unwrapped, cumulative poloidal angle that tracks the
// winding number instead of a wrapped coordinate.
func DeltaPol(r0, z0, r1, z1, axisR, axisZ float64) float64 {
	dr0 := r0 - axisR
	dz0 := z0 - axisZ
	dr1 := r1 - axisR
	dz1 := z1 - axisZ
	return math.Atan2(dr0*dz1-dz0*dr1, dr0*dr1+dz0*dz1)
}

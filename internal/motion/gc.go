package motion

import (
	"github.com/san-kum/gyrosim/internal/field"
	"github.com/san-kum/gyrosim/internal/orbit"
)

// GuidingCenter implements the drift-kinetic guiding-center equations of
// motion in cylindrical coordinates. With b = B/|B|,
//
//	B* = B + (m vpar / q) curl(b)
//	E* = E - (mu / q) grad|B|
//	dX/dt    = (vpar B* + E* x b) / (b . B*)
//	dvpar/dt = (q / m) (B* . E*) / (b . B*)
//	dmu/dt   = 0
//	dtheta/dt = q |B| / m
//
// The phi components of dX/dt and of angular gradients carry the 1/r
// metric factor.
type GuidingCenter struct{}

func NewGuidingCenter() *GuidingCenter { return &GuidingCenter{} }

func (GuidingCenter) Derive(y orbit.State, mass, charge float64, s field.Sample, e field.Vec3) orbit.State {
	r := y[0]
	vpar := y[3]
	mu := y[4]

	b := s.B()
	normB := b.Norm()

	// grad|B| = (B . dB) / |B|, with 1/r on the phi derivative.
	gradB := field.Vec3{
		(b[0]*s.BRdR + b[1]*s.BPhidR + b[2]*s.BZdR) / normB,
		(b[0]*s.BRdPhi + b[1]*s.BPhidPhi + b[2]*s.BZdPhi) / (normB * r),
		(b[0]*s.BRdZ + b[1]*s.BPhidZ + b[2]*s.BZdZ) / normB,
	}

	curlB := field.Vec3{
		s.BZdPhi/r - s.BPhidZ,
		s.BRdZ - s.BZdR,
		(b[1]-s.BRdPhi)/r + s.BPhidR,
	}

	gradBcrossB := gradB.Cross(b)

	// B* = B + (m vpar / q) curl(b), curl(b) expanded in curl B and grad|B|.
	mvq := mass * vpar / charge
	var bstar field.Vec3
	for i := 0; i < 3; i++ {
		bstar[i] = b[i] + mvq*(curlB[i]/normB-gradBcrossB[i]/(normB*normB))
	}

	estar := field.Vec3{
		e[0] - mu*gradB[0]/charge,
		e[1] - mu*gradB[1]/charge,
		e[2] - mu*gradB[2]/charge,
	}

	bhat := b.Scale(1 / normB)
	bstarPar := bhat.Dot(bstar)
	ecb := estar.Cross(bhat)

	return orbit.State{
		(vpar*bstar[0] + ecb[0]) / bstarPar,
		(vpar*bstar[1] + ecb[1]) / (bstarPar * r),
		(vpar*bstar[2] + ecb[2]) / bstarPar,
		(charge / mass) * bstar.Dot(estar) / bstarPar,
		0,
		charge * normB / mass,
	}
}

var _ Model = GuidingCenter{}

package field

import (
	"fmt"
	"math"
)

// Vec3 is a vector in cylindrical components (r, phi, z).
type Vec3 [3]float64

func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) Scale(a float64) Vec3 {
	return Vec3{a * v[0], a * v[1], a * v[2]}
}

// Sample holds a magnetic field evaluation at one point: the three
// cylindrical components and their spatial partial derivatives. The phi
// derivatives are plain angular derivatives; metric factors are applied by
// the consumer.
type Sample struct {
	BR, BRdR, BRdPhi, BRdZ         float64
	BPhi, BPhidR, BPhidPhi, BPhidZ float64
	BZ, BZdR, BZdPhi, BZdZ         float64
}

// B returns the field vector without derivatives.
func (s Sample) B() Vec3 { return Vec3{s.BR, s.BPhi, s.BZ} }

// Norm returns the field magnitude.
func (s Sample) Norm() float64 { return s.B().Norm() }

// Evaluator is the magnetic field capability consumed by the stepper. All
// methods are pure and safe for concurrent use.
type Evaluator interface {
	// EvalBdB evaluates the field and its gradient at (r, phi, z).
	EvalBdB(r, phi, z float64) (Sample, error)
	// EvalPsi evaluates the unnormalized poloidal flux at (r, phi, z).
	EvalPsi(r, phi, z float64) (float64, error)
	// EvalRho converts a flux value into the normalized flux label.
	EvalRho(psi float64) (float64, error)
	// Axis returns the (r, z) location of the magnetic axis.
	Axis() (r, z float64)
}

// Electric is the electric field capability. The magnetic sample at the
// query point is passed in so models that depend on it need not re-evaluate.
type Electric interface {
	EvalE(r, phi, z float64, b Sample) (Vec3, error)
}

// DomainError reports a query outside an evaluator's valid domain.
type DomainError struct {
	Model   string
	R, Z    float64
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("field: %s: point (r=%g, z=%g) %s", e.Model, e.R, e.Z, e.Message)
}

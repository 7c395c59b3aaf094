package field

import (
	"fmt"
	"math"
)

// ZeroE is the trivial electric field.
type ZeroE struct{}

func (ZeroE) EvalE(r, phi, z float64, b Sample) (Vec3, error) {
	return Vec3{}, nil
}

// RadialE is a radial electric field: E points along the poloidal unit
// vector from the magnetic axis, with magnitude taken from a tabulated
// Er(rho) profile on a uniform rho grid. The flux label at the query point
// comes from the magnetic evaluator, so the model inherits its domain.
type RadialE struct {
	ev      Evaluator
	rhoMin  float64
	drho    float64
	er      []float64
}

// NewRadialE builds a radial field from profile samples er on the uniform
// rho grid [rhoMin, rhoMax].
func NewRadialE(ev Evaluator, rhoMin, rhoMax float64, er []float64) (*RadialE, error) {
	if len(er) < 2 {
		return nil, fmt.Errorf("field: radial profile needs at least 2 samples, got %d", len(er))
	}
	if rhoMax <= rhoMin {
		return nil, fmt.Errorf("field: radial profile grid [%g, %g] is empty", rhoMin, rhoMax)
	}
	return &RadialE{
		ev:     ev,
		rhoMin: rhoMin,
		drho:   (rhoMax - rhoMin) / float64(len(er)-1),
		er:     er,
	}, nil
}

func (e *RadialE) EvalE(r, phi, z float64, b Sample) (Vec3, error) {
	psi, err := e.ev.EvalPsi(r, phi, z)
	if err != nil {
		return Vec3{}, err
	}
	rho, err := e.ev.EvalRho(psi)
	if err != nil {
		return Vec3{}, err
	}

	f := (rho - e.rhoMin) / e.drho
	if f < 0 || f > float64(len(e.er)-1) {
		return Vec3{}, &DomainError{Model: "radial", R: r, Z: z, Message: "is outside the Er profile"}
	}
	i := int(f)
	if i > len(e.er)-2 {
		i = len(e.er) - 2
	}
	t := f - float64(i)
	mag := e.er[i]*(1-t) + e.er[i+1]*t

	axisR, axisZ := e.ev.Axis()
	dr := r - axisR
	dz := z - axisZ
	d := dr*dr + dz*dz
	if d == 0 {
		return Vec3{}, nil
	}
	d = 1.0 / math.Sqrt(d)
	return Vec3{mag * dr * d, 0, mag * dz * d}, nil
}

package field

import "math"

// Uniform is a field with constant cylindrical components and zero
// gradients everywhere. The flux label is synthesized from the poloidal
// distance to the nominal axis so that rho is still usable as a radial
// coordinate for end conditions and diagnostics.
type Uniform struct {
	br, bphi, bz float64
	axisR, axisZ float64
	psiEdge      float64
}

// NewUniformToroidal creates a purely toroidal field B = (0, b0, 0) with
// the axis at (axisR, axisZ). Lanes at poloidal distance dEdge from the
// axis map to rho = 1.
func NewUniformToroidal(b0, axisR, axisZ, dEdge float64) *Uniform {
	return &Uniform{
		bphi:    b0,
		axisR:   axisR,
		axisZ:   axisZ,
		psiEdge: 0.5 * dEdge * dEdge,
	}
}

// NewUniform creates a uniform field with arbitrary components.
func NewUniform(br, bphi, bz, axisR, axisZ, dEdge float64) *Uniform {
	return &Uniform{
		br: br, bphi: bphi, bz: bz,
		axisR: axisR, axisZ: axisZ,
		psiEdge: 0.5 * dEdge * dEdge,
	}
}

func (u *Uniform) EvalBdB(r, phi, z float64) (Sample, error) {
	return Sample{BR: u.br, BPhi: u.bphi, BZ: u.bz}, nil
}

func (u *Uniform) EvalPsi(r, phi, z float64) (float64, error) {
	dr := r - u.axisR
	dz := z - u.axisZ
	return 0.5 * (dr*dr + dz*dz), nil
}

func (u *Uniform) EvalRho(psi float64) (float64, error) {
	if psi < 0 {
		return 0, &DomainError{Model: "uniform", Message: "has negative flux label"}
	}
	return math.Sqrt(psi / u.psiEdge), nil
}

func (u *Uniform) Axis() (float64, float64) { return u.axisR, u.axisZ }

package field

import "math"

// CircularTokamak is an analytic equilibrium with concentric circular flux
// surfaces centered on the magnetic axis (r0, z0):
//
//	Bphi = b0*r0/r
//	psi  = 0.5*bp*d^2,  d^2 = (r-r0)^2 + (z-z0)^2,  bp = b0/q
//	Br   = -(1/r) dpsi/dz,  Bz = (1/r) dpsi/dr
//
// The model is valid inside minor radius a; queries beyond it fail with a
// DomainError. The constant q sets the poloidal field strength.
type CircularTokamak struct {
	b0, r0, z0 float64
	a          float64
	bp         float64
	psiEdge    float64
}

func NewCircularTokamak(b0, r0, a, q float64) *CircularTokamak {
	bp := b0 / q
	return &CircularTokamak{
		b0: b0, r0: r0, z0: 0,
		a:       a,
		bp:      bp,
		psiEdge: 0.5 * bp * a * a,
	}
}

func (c *CircularTokamak) check(r, z float64) error {
	dr := r - c.r0
	dz := z - c.z0
	if r <= 0 || dr*dr+dz*dz > c.a*c.a {
		return &DomainError{Model: "circular", R: r, Z: z, Message: "is outside the plasma"}
	}
	return nil
}

func (c *CircularTokamak) EvalBdB(r, phi, z float64) (Sample, error) {
	if err := c.check(r, z); err != nil {
		return Sample{}, err
	}
	dr := r - c.r0
	dz := z - c.z0

	var s Sample
	s.BR = -c.bp * dz / r
	s.BRdR = c.bp * dz / (r * r)
	s.BRdZ = -c.bp / r

	s.BPhi = c.b0 * c.r0 / r
	s.BPhidR = -c.b0 * c.r0 / (r * r)

	s.BZ = c.bp * dr / r
	s.BZdR = c.bp * c.r0 / (r * r)
	return s, nil
}

func (c *CircularTokamak) EvalPsi(r, phi, z float64) (float64, error) {
	if err := c.check(r, z); err != nil {
		return 0, err
	}
	dr := r - c.r0
	dz := z - c.z0
	return 0.5 * c.bp * (dr*dr + dz*dz), nil
}

func (c *CircularTokamak) EvalRho(psi float64) (float64, error) {
	if psi < 0 {
		return 0, &DomainError{Model: "circular", Message: "has negative flux label"}
	}
	return math.Sqrt(psi / c.psiEdge), nil
}

func (c *CircularTokamak) Axis() (float64, float64) { return c.r0, c.z0 }

// Package step advances batches of guiding-center lanes through one fixed
// timestep with classical fourth-order Runge-Kutta.
package step

import (
	"math"

	"github.com/san-kum/gyrosim/internal/field"
	"github.com/san-kum/gyrosim/internal/motion"
	"github.com/san-kum/gyrosim/internal/orbit"
)

// Provenance tokens recorded in lane errors.
const (
	whereStage1E  = "stage1-efield"
	whereStage2B  = "stage2-bfield"
	whereStage2E  = "stage2-efield"
	whereStage3B  = "stage3-bfield"
	whereStage3E  = "stage3-efield"
	whereStage4B  = "stage4-bfield"
	whereStage4E  = "stage4-efield"
	whereRadius   = "check-radius"
	whereMuBound  = "check-mu-bound"
	whereMuSign   = "check-mu-sign"
	whereFreshB   = "refresh-bfield"
	whereFreshPsi = "refresh-psi"
	whereFreshRho = "refresh-rho"
)

// GC integrates guiding-center lanes. One value may be shared by multiple
// goroutines: Step carries all per-lane scratch on the stack and the
// referenced evaluators are read-only.
type GC struct {
	eom      motion.Model
	minChunk int
}

// NewGC creates a stepper around the given equation of motion.
func NewGC(eom motion.Model) *GC {
	return &GC{eom: eom, minChunk: 16}
}

// Step advances every running lane of p by its per-lane timestep h[i],
// leaving terminated lanes untouched. Failures are lane-local: the failing
// lane records its error tagged with the orbit-step module and stops
// running, every other lane proceeds exactly as if the failure had not
// happened.
func (s *GC) Step(p *orbit.Batch, h []float64, bf field.Evaluator, ef field.Electric) {
	orbit.ParallelFor(p.N(), s.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			if p.Running[i] {
				s.stepLane(p, i, h[i], bf, ef)
			}
		}
	})
}

// stepLane runs the per-lane RK4 pipeline. Errors do not abort the
// pipeline with control flow; every piece of work is predicated on the
// error flag still being clear, the same shape a masked vector
// implementation would use.
func (s *GC) stepLane(p *orbit.Batch, i int, h float64, bf field.Evaluator, ef field.Electric) {
	var errflag orbit.LaneError

	mass := p.Mass[i]
	charge := p.Charge[i]
	r0 := p.R[i]
	z0 := p.Z[i]

	yprev := p.State(i)

	// Stage 1 reuses the field sample cached at the current position.
	bdb := p.Cache(i)
	var e field.Vec3
	var k1, k2, k3, k4, tempy, y orbit.State

	if errflag.OK() {
		e, errflag = evalE(ef, yprev, bdb, whereStage1E)
	}
	if errflag.OK() {
		k1 = s.eom.Derive(yprev, mass, charge, bdb, e)
	}
	for j := 0; j < 6; j++ {
		tempy[j] = yprev[j] + h/2*k1[j]
	}

	if errflag.OK() {
		bdb, errflag = evalBdB(bf, tempy, whereStage2B)
	}
	if errflag.OK() {
		e, errflag = evalE(ef, tempy, bdb, whereStage2E)
	}
	if errflag.OK() {
		k2 = s.eom.Derive(tempy, mass, charge, bdb, e)
	}
	for j := 0; j < 6; j++ {
		tempy[j] = yprev[j] + h/2*k2[j]
	}

	if errflag.OK() {
		bdb, errflag = evalBdB(bf, tempy, whereStage3B)
	}
	if errflag.OK() {
		e, errflag = evalE(ef, tempy, bdb, whereStage3E)
	}
	if errflag.OK() {
		k3 = s.eom.Derive(tempy, mass, charge, bdb, e)
	}
	for j := 0; j < 6; j++ {
		tempy[j] = yprev[j] + h*k3[j]
	}

	if errflag.OK() {
		bdb, errflag = evalBdB(bf, tempy, whereStage4B)
	}
	if errflag.OK() {
		e, errflag = evalE(ef, tempy, bdb, whereStage4E)
	}
	if errflag.OK() {
		k4 = s.eom.Derive(tempy, mass, charge, bdb, e)
	}
	for j := 0; j < 6; j++ {
		y[j] = yprev[j] + h/6*(k1[j]+2*k2[j]+2*k3[j]+k4[j])
	}

	// Validity checks, in order, first violation wins. The speed-of-light
	// bound on mu is kept from the reference behavior even though mu is
	// not a velocity; see DESIGN.md before changing it.
	if errflag.OK() && y[0] <= 0 {
		errflag = orbit.Raise(orbit.KindUnphysical, whereRadius)
	} else if errflag.OK() && math.Abs(y[4]) >= orbit.CLight {
		errflag = orbit.Raise(orbit.KindUnphysical, whereMuBound)
	} else if errflag.OK() && y[4] < 0 {
		errflag = orbit.Raise(orbit.KindUnphysical, whereMuSign)
	}

	// Commit. Unconditional once validity passed, even if the cache
	// refresh below fails afterwards.
	if errflag.OK() {
		p.R[i] = y[0]
		p.Phi[i] = y[1]
		p.Z[i] = y[2]
		p.Vpar[i] = y[3]
		p.Mu[i] = y[4]
		p.Theta[i] = orbit.WrapTheta(y[5])
	}

	// Refresh the field cache and flux label at the new position. Best
	// effort: a partial refresh stands if a later evaluation fails.
	if errflag.OK() {
		if s2, err := bf.EvalBdB(p.R[i], p.Phi[i], p.Z[i]); err == nil {
			p.SetCache(i, s2)
		} else {
			errflag = orbit.Raise(orbit.KindOutsideDomain, whereFreshB)
		}
	}
	var psi float64
	if errflag.OK() {
		var err error
		if psi, err = bf.EvalPsi(p.R[i], p.Phi[i], p.Z[i]); err != nil {
			errflag = orbit.Raise(orbit.KindOutsideDomain, whereFreshPsi)
		}
	}
	if errflag.OK() {
		if rho, err := bf.EvalRho(psi); err == nil {
			p.Rho[i] = rho

			// Accumulate the poloidal angle so it stays continuous
			// across wraparound.
			axisR, axisZ := bf.Axis()
			p.Pol[i] += orbit.DeltaPol(r0, z0, p.R[i], p.Z[i], axisR, axisZ)
		} else {
			errflag = orbit.Raise(orbit.KindOutsideDomain, whereFreshRho)
		}
	}

	if !errflag.OK() {
		p.Fail(i, errflag.Tag(orbit.ModOrbitStep))
	}
}

func evalBdB(bf field.Evaluator, y orbit.State, where string) (field.Sample, orbit.LaneError) {
	s, err := bf.EvalBdB(y[0], y[1], y[2])
	if err != nil {
		return s, orbit.Raise(orbit.KindOutsideDomain, where)
	}
	return s, orbit.LaneError{}
}

func evalE(ef field.Electric, y orbit.State, b field.Sample, where string) (field.Vec3, orbit.LaneError) {
	e, err := ef.EvalE(y[0], y[1], y[2], b)
	if err != nil {
		return e, orbit.Raise(orbit.KindOutsideDomain, where)
	}
	return e, orbit.LaneError{}
}

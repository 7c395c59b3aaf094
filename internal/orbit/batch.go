package orbit

import (
	"math"

	"github.com/san-kum/gyrosim/internal/field"
)

// State is one lane's phase-space vector in guiding-center coordinates:
// major radius r, toroidal angle phi, height z, parallel velocity vpar,
// magnetic moment mu, gyrophase theta.
type State [6]float64

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Batch holds a fixed-width group of guiding-center lanes in
// structure-of-arrays layout: every per-lane quantity is a contiguous
// slice indexed by lane, so a chunked loop over lanes touches memory
// linearly. Lanes are created by the marker loader and mutated in place by
// the stepper until Running drops.
type Batch struct {
	R, Phi, Z    []float64
	Vpar, Mu     []float64
	Theta        []float64
	Mass, Charge []float64

	// Cached field sample at the current position, one slice per
	// component, refreshed atomically with each position commit.
	BR, BRdR, BRdPhi, BRdZ         []float64
	BPhi, BPhidR, BPhidPhi, BPhidZ []float64
	BZ, BZdR, BZdPhi, BZdZ         []float64

	// Derived diagnostics.
	Rho []float64
	Pol []float64

	ID      []int64
	Weight  []float64
	Time    []float64
	Running []bool
	Err     []LaneError
}

// NewBatch allocates a batch of n lanes, all initially not running.
func NewBatch(n int) *Batch {
	return &Batch{
		R: make([]float64, n), Phi: make([]float64, n), Z: make([]float64, n),
		Vpar: make([]float64, n), Mu: make([]float64, n),
		Theta: make([]float64, n),
		Mass:  make([]float64, n), Charge: make([]float64, n),

		BR: make([]float64, n), BRdR: make([]float64, n),
		BRdPhi: make([]float64, n), BRdZ: make([]float64, n),
		BPhi: make([]float64, n), BPhidR: make([]float64, n),
		BPhidPhi: make([]float64, n), BPhidZ: make([]float64, n),
		BZ: make([]float64, n), BZdR: make([]float64, n),
		BZdPhi: make([]float64, n), BZdZ: make([]float64, n),

		Rho: make([]float64, n),
		Pol: make([]float64, n),

		ID:      make([]int64, n),
		Weight:  make([]float64, n),
		Time:    make([]float64, n),
		Running: make([]bool, n),
		Err:     make([]LaneError, n),
	}
}

// N returns the lane count.
func (b *Batch) N() int { return len(b.R) }

// NumRunning counts lanes that have not terminated.
func (b *Batch) NumRunning() int {
	n := 0
	for _, r := range b.Running {
		if r {
			n++
		}
	}
	return n
}

// State gathers lane i's phase-space vector.
func (b *Batch) State(i int) State {
	return State{b.R[i], b.Phi[i], b.Z[i], b.Vpar[i], b.Mu[i], b.Theta[i]}
}

// Cache gathers lane i's cached field sample.
func (b *Batch) Cache(i int) field.Sample {
	return field.Sample{
		BR: b.BR[i], BRdR: b.BRdR[i], BRdPhi: b.BRdPhi[i], BRdZ: b.BRdZ[i],
		BPhi: b.BPhi[i], BPhidR: b.BPhidR[i], BPhidPhi: b.BPhidPhi[i], BPhidZ: b.BPhidZ[i],
		BZ: b.BZ[i], BZdR: b.BZdR[i], BZdPhi: b.BZdPhi[i], BZdZ: b.BZdZ[i],
	}
}

// SetCache scatters a field sample into lane i's cache slots.
func (b *Batch) SetCache(i int, s field.Sample) {
	b.BR[i], b.BRdR[i], b.BRdPhi[i], b.BRdZ[i] = s.BR, s.BRdR, s.BRdPhi, s.BRdZ
	b.BPhi[i], b.BPhidR[i], b.BPhidPhi[i], b.BPhidZ[i] = s.BPhi, s.BPhidR, s.BPhidPhi, s.BPhidZ
	b.BZ[i], b.BZdR[i], b.BZdPhi[i], b.BZdZ[i] = s.BZ, s.BZdR, s.BZdPhi, s.BZdZ
}

// Fail marks lane i terminal with the given error.
func (b *Batch) Fail(i int, err LaneError) {
	b.Err[i] = err
	b.Running[i] = false
}

// Clone returns a deep copy of the batch.
func (b *Batch) Clone() *Batch {
	c := NewBatch(b.N())
	cp := func(dst, src []float64) { copy(dst, src) }
	cp(c.R, b.R)
	cp(c.Phi, b.Phi)
	cp(c.Z, b.Z)
	cp(c.Vpar, b.Vpar)
	cp(c.Mu, b.Mu)
	cp(c.Theta, b.Theta)
	cp(c.Mass, b.Mass)
	cp(c.Charge, b.Charge)
	cp(c.BR, b.BR)
	cp(c.BRdR, b.BRdR)
	cp(c.BRdPhi, b.BRdPhi)
	cp(c.BRdZ, b.BRdZ)
	cp(c.BPhi, b.BPhi)
	cp(c.BPhidR, b.BPhidR)
	cp(c.BPhidPhi, b.BPhidPhi)
	cp(c.BPhidZ, b.BPhidZ)
	cp(c.BZ, b.BZ)
	cp(c.BZdR, b.BZdR)
	cp(c.BZdPhi, b.BZdPhi)
	cp(c.BZdZ, b.BZdZ)
	cp(c.Rho, b.Rho)
	cp(c.Pol, b.Pol)
	cp(c.Weight, b.Weight)
	cp(c.Time, b.Time)
	copy(c.ID, b.ID)
	copy(c.Running, b.Running)
	copy(c.Err, b.Err)
	return c
}

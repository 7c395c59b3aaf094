// Package metrics provides batch-level diagnostics observed between
// stepper invocations.
package metrics

import (
	"math"

	"github.com/san-kum/gyrosim/internal/orbit"
)

// Metric observes the batch after each sweep and reduces to one number.
type Metric interface {
	Name() string
	Observe(p *orbit.Batch, t float64)
	Value() float64
	Reset()
}

// laneEnergy is the guiding-center kinetic energy using the cached field
// magnitude: E = 0.5 m vpar^2 + mu |B|.
func laneEnergy(p *orbit.Batch, i int) float64 {
	return 0.5*p.Mass[i]*p.Vpar[i]*p.Vpar[i] + p.Mu[i]*p.Cache(i).Norm()
}

// Energy reports the mean guiding-center energy over running lanes,
// averaged across observations.
type Energy struct {
	total   float64
	samples int
}

func NewEnergy() *Energy { return &Energy{} }

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(p *orbit.Batch, t float64) {
	sum := 0.0
	n := 0
	for i := 0; i < p.N(); i++ {
		if p.Running[i] {
			sum += laneEnergy(p, i)
			n++
		}
	}
	if n > 0 {
		e.total += sum / float64(n)
		e.samples++
	}
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift tracks the worst relative energy drift of any lane against
// its first observation. For a conservative field the drift measures pure
// integration error.
type EnergyDrift struct {
	initial  []float64
	maxDrift float64
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(p *orbit.Batch, t float64) {
	if e.initial == nil {
		e.initial = make([]float64, p.N())
		for i := 0; i < p.N(); i++ {
			e.initial[i] = laneEnergy(p, i)
		}
		return
	}
	for i := 0; i < p.N(); i++ {
		if !p.Running[i] || e.initial[i] == 0 {
			continue
		}
		drift := math.Abs(laneEnergy(p, i)-e.initial[i]) / math.Abs(e.initial[i])
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = nil
	e.maxDrift = 0
}

// MuDrift tracks the worst relative drift of the magnetic moment, which
// the equations of motion hold exactly constant; any drift here is
// integration or field-evaluation error.
type MuDrift struct {
	initial  []float64
	maxDrift float64
}

func NewMuDrift() *MuDrift { return &MuDrift{} }

func (m *MuDrift) Name() string { return "mu_drift" }

func (m *MuDrift) Observe(p *orbit.Batch, t float64) {
	if m.initial == nil {
		m.initial = make([]float64, p.N())
		copy(m.initial, p.Mu)
		return
	}
	for i := 0; i < p.N(); i++ {
		if !p.Running[i] || m.initial[i] == 0 {
			continue
		}
		drift := math.Abs(p.Mu[i]-m.initial[i]) / math.Abs(m.initial[i])
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MuDrift) Value() float64 { return m.maxDrift }

func (m *MuDrift) Reset() {
	m.initial = nil
	m.maxDrift = 0
}

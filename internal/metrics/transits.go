package metrics

import (
	"math"

	"github.com/san-kum/gyrosim/internal/orbit"
)

// Transits counts completed orbits from the accumulated angle: poloidal
// transits from the cumulative pol coordinate, toroidal transits from the
// unwrapped phi excursion. Value reports the batch maximum.
type Transits struct {
	poloidal bool
	phi0     []float64
	max      float64
}

func NewPoloidalTransits() *Transits { return &Transits{poloidal: true} }
func NewToroidalTransits() *Transits { return &Transits{} }

func (tr *Transits) Name() string {
	if tr.poloidal {
		return "poloidal_transits"
	}
	return "toroidal_transits"
}

func (tr *Transits) Observe(p *orbit.Batch, t float64) {
	if tr.phi0 == nil {
		tr.phi0 = make([]float64, p.N())
		copy(tr.phi0, p.Phi)
	}
	for i := 0; i < p.N(); i++ {
		var turns float64
		if tr.poloidal {
			turns = math.Abs(p.Pol[i]) / orbit.TwoPi
		} else {
			turns = math.Abs(p.Phi[i]-tr.phi0[i]) / orbit.TwoPi
		}
		tr.max = math.Max(tr.max, turns)
	}
}

func (tr *Transits) Value() float64 { return tr.max }

func (tr *Transits) Reset() {
	tr.phi0 = nil
	tr.max = 0
}

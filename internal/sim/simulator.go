// Package sim drives batches of guiding-center lanes through repeated
// stepper invocations until every lane terminates, applying end conditions
// and recording sampled orbit history.
package sim

import (
	"context"
	"math"

	"github.com/san-kum/gyrosim/internal/config"
	"github.com/san-kum/gyrosim/internal/field"
	"github.com/san-kum/gyrosim/internal/motion"
	"github.com/san-kum/gyrosim/internal/orbit"
	"github.com/san-kum/gyrosim/internal/step"
)

// EndReason records why a lane stopped. Error termination is recorded
// separately from physical end conditions.
type EndReason string

const (
	EndNone         EndReason = ""
	EndSimTime      EndReason = "sim-time"
	EndMaxRho       EndReason = "rho-max"
	EndMinRho       EndReason = "rho-min"
	EndPoloidalOrbs EndReason = "poloidal-orbits"
	EndToroidalOrbs EndReason = "toroidal-orbits"
	EndError        EndReason = "error"
)

// OrbitPoint is one recorded phase-space sample.
type OrbitPoint struct {
	T, R, Phi, Z    float64
	Vpar, Mu, Theta float64
	Rho, Pol        float64
}

// Result collects per-lane orbit history and termination reasons.
type Result struct {
	History [][]OrbitPoint
	End     []EndReason
	Steps   int
}

// Metric is observed on the batch at every recording interval.
type Metric interface {
	Name() string
	Observe(p *orbit.Batch, t float64)
	Value() float64
	Reset()
}

type Simulator struct {
	bf      field.Evaluator
	ef      field.Electric
	stepper *step.GC
	cfg     *config.Config
	metrics []Metric
}

func New(bf field.Evaluator, ef field.Electric, eom motion.Model, cfg *config.Config) *Simulator {
	return &Simulator{
		bf:      bf,
		ef:      ef,
		stepper: step.NewGC(eom),
		cfg:     cfg,
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Metrics returns the final metric values by name.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Timesteps computes the per-lane fixed timestep: either the user-defined
// value or a fraction of the gyration period in the cached initial field.
func (s *Simulator) Timesteps(p *orbit.Batch) []float64 {
	h := make([]float64, p.N())
	for i := range h {
		if s.cfg.Step.UseFixed {
			h[i] = s.cfg.Step.Timestep
			continue
		}
		bnorm := p.Cache(i).Norm()
		if bnorm == 0 || p.Charge[i] == 0 {
			h[i] = s.cfg.Step.Timestep
			continue
		}
		h[i] = motion.Gyroperiod(p.Mass[i], p.Charge[i], bnorm) / float64(s.cfg.Step.StepsPerGyrotime)
	}
	return h
}

// Run advances the batch until all lanes are terminal. The context is
// checked between sweeps; cancellation returns the partial result. Lanes
// that hit an end condition stop without error state, lanes that fail keep
// the error the stepper recorded.
func (s *Simulator) Run(ctx context.Context, p *orbit.Batch) (*Result, error) {
	n := p.N()
	h := s.Timesteps(p)

	res := &Result{
		History: make([][]OrbitPoint, n),
		End:     make([]EndReason, n),
	}

	t0 := make([]float64, n)
	phi0 := make([]float64, n)
	copy(t0, p.Time)
	copy(phi0, p.Phi)

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(p, 0)
	}

	for i := 0; i < n; i++ {
		if p.Running[i] {
			res.History[i] = append(res.History[i], s.sample(p, i))
		}
	}

	for p.NumRunning() > 0 {
		select {
		case <-ctx.Done():
			s.finish(p, res)
			return res, ctx.Err()
		default:
		}

		s.stepper.Step(p, h, s.bf, s.ef)
		res.Steps++

		for i := 0; i < n; i++ {
			if !p.Running[i] {
				continue
			}
			p.Time[i] += h[i]
			if reason := s.endCondition(p, i, t0[i], phi0[i]); reason != EndNone {
				res.End[i] = reason
				p.Running[i] = false
			}
		}

		if res.Steps%s.cfg.RecordEvery == 0 {
			for _, m := range s.metrics {
				m.Observe(p, p.Time[0])
			}
			for i := 0; i < n; i++ {
				if p.Running[i] {
					res.History[i] = append(res.History[i], s.sample(p, i))
				}
			}
		}
	}

	s.finish(p, res)
	return res, nil
}

func (s *Simulator) endCondition(p *orbit.Batch, i int, t0, phi0 float64) EndReason {
	end := s.cfg.End
	if p.Time[i]-t0 >= end.MaxSimTime {
		return EndSimTime
	}
	if end.RhoLim {
		if p.Rho[i] >= end.MaxRho {
			return EndMaxRho
		}
		if end.MinRho > 0 && p.Rho[i] <= end.MinRho {
			return EndMinRho
		}
	}
	if end.OrbitLim {
		if end.MaxPoloidalOrbs > 0 && math.Abs(p.Pol[i]) >= orbit.TwoPi*float64(end.MaxPoloidalOrbs) {
			return EndPoloidalOrbs
		}
		if end.MaxToroidalOrbs > 0 && math.Abs(p.Phi[i]-phi0) >= orbit.TwoPi*float64(end.MaxToroidalOrbs) {
			return EndToroidalOrbs
		}
	}
	return EndNone
}

// finish records a final sample for every lane and fills in error reasons.
func (s *Simulator) finish(p *orbit.Batch, res *Result) {
	for i := 0; i < p.N(); i++ {
		if res.End[i] == EndNone && !p.Err[i].OK() {
			res.End[i] = EndError
		}
		if len(res.History[i]) > 0 {
			last := res.History[i][len(res.History[i])-1]
			if last.T != p.Time[i] {
				res.History[i] = append(res.History[i], s.sample(p, i))
			}
		}
	}
}

func (s *Simulator) sample(p *orbit.Batch, i int) OrbitPoint {
	return OrbitPoint{
		T: p.Time[i], R: p.R[i], Phi: p.Phi[i], Z: p.Z[i],
		Vpar: p.Vpar[i], Mu: p.Mu[i], Theta: p.Theta[i],
		Rho: p.Rho[i], Pol: p.Pol[i],
	}
}

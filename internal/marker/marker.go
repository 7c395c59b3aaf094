// Package marker loads particle marker definitions and converts them into
// initialized guiding-center lanes.
package marker

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gyrosim/internal/field"
	"github.com/san-kum/gyrosim/internal/orbit"
)

// Particle is one marker definition. Mass is in atomic mass units, charge
// in elementary charges, phi in degrees, velocities in m/s; everything
// else is SI.
type Particle struct {
	ID     int64   `yaml:"id"`
	Mass   float64 `yaml:"mass"`
	Charge float64 `yaml:"charge"`
	R      float64 `yaml:"r"`
	Phi    float64 `yaml:"phi"`
	Z      float64 `yaml:"z"`
	VR     float64 `yaml:"vr"`
	VPhi   float64 `yaml:"vphi"`
	VZ     float64 `yaml:"vz"`
	Weight float64 `yaml:"weight"`
	Time   float64 `yaml:"time"`
}

type file struct {
	Markers []Particle `yaml:"markers"`
}

// Load reads marker definitions from a YAML file.
func Load(path string) ([]Particle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("marker: %s: %w", path, err)
	}
	if len(f.Markers) == 0 {
		return nil, fmt.Errorf("marker: %s: no markers defined", path)
	}
	return f.Markers, nil
}

// InitBatch converts markers into a ready-to-step batch: SI units, the
// velocity split into vpar = v.b and mu = m v_perp^2 / 2B, the field cache
// and flux label populated at the initial position. A marker whose
// position the evaluator rejects becomes a terminal lane tagged with the
// marker module; the rest of the batch is unaffected.
func InitBatch(markers []Particle, bf field.Evaluator) *orbit.Batch {
	p := orbit.NewBatch(len(markers))

	for i, m := range markers {
		p.ID[i] = m.ID
		p.Mass[i] = m.Mass * orbit.Amu
		p.Charge[i] = m.Charge * orbit.ElemCharge
		p.R[i] = m.R
		p.Phi[i] = m.Phi * math.Pi / 180
		p.Z[i] = m.Z
		p.Weight[i] = m.Weight
		p.Time[i] = m.Time
		p.Theta[i] = 0
		p.Pol[i] = 0

		s, err := bf.EvalBdB(p.R[i], p.Phi[i], p.Z[i])
		if err != nil {
			p.Fail(i, orbit.Raise(orbit.KindOutsideDomain, "init-bfield").Tag(orbit.ModMarker))
			continue
		}
		p.SetCache(i, s)

		b := s.B()
		normB := b.Norm()
		v := field.Vec3{m.VR, m.VPhi, m.VZ}
		vpar := v.Dot(b) / normB
		vperp2 := v.Dot(v) - vpar*vpar
		if vperp2 < 0 {
			vperp2 = 0
		}
		p.Vpar[i] = vpar
		p.Mu[i] = p.Mass[i] * vperp2 / (2 * normB)

		psi, err := bf.EvalPsi(p.R[i], p.Phi[i], p.Z[i])
		if err != nil {
			p.Fail(i, orbit.Raise(orbit.KindOutsideDomain, "init-psi").Tag(orbit.ModMarker))
			continue
		}
		rho, err := bf.EvalRho(psi)
		if err != nil {
			p.Fail(i, orbit.Raise(orbit.KindOutsideDomain, "init-rho").Tag(orbit.ModMarker))
			continue
		}
		p.Rho[i] = rho
		p.Running[i] = true
	}

	return p
}

// Save writes markers to a YAML file, the inverse of Load.
func Save(path string, markers []Particle) error {
	data, err := yaml.Marshal(file{Markers: markers})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package marker

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gyrosim/internal/field"
	"github.com/san-kum/gyrosim/internal/orbit"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	markers := []Particle{
		{ID: 1, Mass: 4.003, Charge: 2, R: 1.8, Phi: 90, Z: 0.1, VR: 1e5, VPhi: 1.2e6, VZ: -3e4, Weight: 1, Time: 0},
		{ID: 2, Mass: 2.014, Charge: 1, R: 1.5, Phi: -45, Z: -0.2, VPhi: 8e5, Weight: 0.5, Time: 1e-5},
	}

	path := filepath.Join(t.TempDir(), "markers.yaml")
	if err := Save(path, markers); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(markers) {
		t.Fatalf("loaded %d markers, want %d", len(got), len(markers))
	}
	for i := range markers {
		if got[i] != markers[i] {
			t.Errorf("marker %d: got %+v, want %+v", i, got[i], markers[i])
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("markers: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); err == nil {
		t.Error("empty marker list should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("markers: {not a list"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestInitBatch_VelocitySplit(t *testing.T) {
	// Purely toroidal field: vphi is the parallel velocity, vr and vz are
	// perpendicular.
	bf := field.NewUniformToroidal(5.0, 1.65, 0, 0.5)
	m := Particle{ID: 7, Mass: 2.014, Charge: 1, R: 1.8, Phi: 180, Z: 0.05, VR: 3e5, VPhi: 1e6, VZ: 4e5, Weight: 2}

	p := InitBatch([]Particle{m}, bf)

	if !p.Running[0] {
		t.Fatalf("lane not running: %v", p.Err[0])
	}
	if p.ID[0] != 7 || p.Weight[0] != 2 {
		t.Errorf("identity not carried: id=%d weight=%g", p.ID[0], p.Weight[0])
	}

	mass := 2.014 * orbit.Amu
	if math.Abs(p.Mass[0]-mass)/mass > 1e-15 {
		t.Errorf("mass = %g, want %g", p.Mass[0], mass)
	}
	if math.Abs(p.Charge[0]-orbit.ElemCharge)/orbit.ElemCharge > 1e-15 {
		t.Errorf("charge = %g, want %g", p.Charge[0], orbit.ElemCharge)
	}
	if math.Abs(p.Phi[0]-math.Pi) > 1e-12 {
		t.Errorf("phi = %g rad, want pi", p.Phi[0])
	}

	if math.Abs(p.Vpar[0]-1e6)/1e6 > 1e-12 {
		t.Errorf("vpar = %g, want 1e6", p.Vpar[0])
	}
	// v_perp^2 = vr^2 + vz^2 = 2.5e11.
	wantMu := mass * 2.5e11 / (2 * 5.0)
	if math.Abs(p.Mu[0]-wantMu)/wantMu > 1e-12 {
		t.Errorf("mu = %g, want %g", p.Mu[0], wantMu)
	}

	if p.Cache(0).BPhi != 5.0 {
		t.Errorf("cache not primed: %+v", p.Cache(0))
	}
	// Axis distance sqrt(0.15^2 + 0.05^2) against dEdge 0.5.
	wantRho := math.Hypot(0.15, 0.05) / 0.5
	if math.Abs(p.Rho[0]-wantRho) > 1e-12 {
		t.Errorf("rho = %g, want %g", p.Rho[0], wantRho)
	}
}

func TestInitBatch_NegativeChargeFlipsVpar(t *testing.T) {
	bf := field.NewUniformToroidal(5.0, 1.65, 0, 0.5)
	m := Particle{Mass: 5.486e-4, Charge: -1, R: 1.7, VPhi: -2e6, Weight: 1}

	p := InitBatch([]Particle{m}, bf)
	if !p.Running[0] {
		t.Fatalf("lane not running: %v", p.Err[0])
	}
	// vpar is signed along B regardless of the charge sign.
	if math.Abs(p.Vpar[0]+2e6)/2e6 > 1e-12 {
		t.Errorf("vpar = %g, want -2e6", p.Vpar[0])
	}
	if p.Charge[0] >= 0 {
		t.Errorf("charge = %g, want negative", p.Charge[0])
	}
}

func TestInitBatch_OutOfDomainLaneIsIsolated(t *testing.T) {
	bf := field.NewCircularTokamak(5.0, 1.65, 0.6, 1.7)
	markers := []Particle{
		{ID: 1, Mass: 1.007, Charge: 1, R: 1.8, VPhi: 5e5, Weight: 1},
		{ID: 2, Mass: 1.007, Charge: 1, R: 3.5, VPhi: 5e5, Weight: 1}, // outside the plasma
		{ID: 3, Mass: 1.007, Charge: 1, R: 1.5, VPhi: 5e5, Weight: 1},
	}

	p := InitBatch(markers, bf)

	if !p.Running[0] || !p.Running[2] {
		t.Fatalf("healthy lanes not running: %v, %v", p.Err[0], p.Err[2])
	}
	if p.Running[1] {
		t.Fatal("out-of-domain lane is running")
	}
	e := p.Err[1]
	if e.Where != "init-bfield" {
		t.Errorf("Where = %q, want %q", e.Where, "init-bfield")
	}
	if e.Module != orbit.ModMarker {
		t.Errorf("Module = %v, want marker", e.Module)
	}
	if e.Kind != orbit.KindOutsideDomain {
		t.Errorf("Kind = %v, want outside domain", e.Kind)
	}
	if p.NumRunning() != 2 {
		t.Errorf("NumRunning = %d, want 2", p.NumRunning())
	}
}

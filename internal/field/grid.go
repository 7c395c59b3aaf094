package field

import (
	"fmt"
	"math"
)

// Grid is an axisymmetric field tabulated on a uniform (r, z) grid. Values
// are interpolated bilinearly and the derivatives returned by EvalBdB are
// the analytic derivatives of the interpolant, so the sample is internally
// consistent cell by cell. All phi derivatives are zero.
type Grid struct {
	rMin, zMin float64
	dr, dz     float64
	nr, nz     int

	br, bphi, bz, psi []float64

	axisR, axisZ     float64
	psiAxis, psiEdge float64
}

// NewGrid builds a tabulated field. Each value slice has nr*nz entries in
// row-major order with the r index varying fastest.
func NewGrid(rMin, rMax float64, nr int, zMin, zMax float64, nz int,
	br, bphi, bz, psi []float64,
	axisR, axisZ, psiAxis, psiEdge float64) (*Grid, error) {

	if nr < 2 || nz < 2 {
		return nil, fmt.Errorf("field: grid needs at least 2 points per axis, got %dx%d", nr, nz)
	}
	for _, v := range [][]float64{br, bphi, bz, psi} {
		if len(v) != nr*nz {
			return nil, fmt.Errorf("field: grid data length %d does not match %dx%d", len(v), nr, nz)
		}
	}
	if psiEdge == psiAxis {
		return nil, fmt.Errorf("field: grid psi axis and edge values coincide")
	}
	return &Grid{
		rMin: rMin, zMin: zMin,
		dr: (rMax - rMin) / float64(nr-1),
		dz: (zMax - zMin) / float64(nz-1),
		nr: nr, nz: nz,
		br: br, bphi: bphi, bz: bz, psi: psi,
		axisR: axisR, axisZ: axisZ,
		psiAxis: psiAxis, psiEdge: psiEdge,
	}, nil
}

// Tabulate samples another evaluator onto a grid. Useful for exercising the
// interpolated path against an analytic model.
func Tabulate(ev Evaluator, rMin, rMax float64, nr int, zMin, zMax float64, nz int, psiEdge float64) (*Grid, error) {
	br := make([]float64, nr*nz)
	bphi := make([]float64, nr*nz)
	bz := make([]float64, nr*nz)
	psi := make([]float64, nr*nz)

	for iz := 0; iz < nz; iz++ {
		z := zMin + float64(iz)*(zMax-zMin)/float64(nz-1)
		for ir := 0; ir < nr; ir++ {
			r := rMin + float64(ir)*(rMax-rMin)/float64(nr-1)
			s, err := ev.EvalBdB(r, 0, z)
			if err != nil {
				return nil, err
			}
			p, err := ev.EvalPsi(r, 0, z)
			if err != nil {
				return nil, err
			}
			k := iz*nr + ir
			br[k] = s.BR
			bphi[k] = s.BPhi
			bz[k] = s.BZ
			psi[k] = p
		}
	}
	axisR, axisZ := ev.Axis()
	return NewGrid(rMin, rMax, nr, zMin, zMax, nz, br, bphi, bz, psi, axisR, axisZ, 0, psiEdge)
}

// cell locates the interpolation cell and local coordinates for (r, z).
func (g *Grid) cell(r, z float64) (ir, iz int, tr, tz float64, err error) {
	fr := (r - g.rMin) / g.dr
	fz := (z - g.zMin) / g.dz
	if fr < 0 || fr > float64(g.nr-1) || fz < 0 || fz > float64(g.nz-1) {
		return 0, 0, 0, 0, &DomainError{Model: "grid", R: r, Z: z, Message: "is outside the tabulated region"}
	}
	ir = int(fr)
	iz = int(fz)
	if ir > g.nr-2 {
		ir = g.nr - 2
	}
	if iz > g.nz-2 {
		iz = g.nz - 2
	}
	return ir, iz, fr - float64(ir), fz - float64(iz), nil
}

// lerp2 returns the bilinear value and its r/z derivatives in one cell.
func (g *Grid) lerp2(v []float64, ir, iz int, tr, tz float64) (val, ddr, ddz float64) {
	v00 := v[iz*g.nr+ir]
	v10 := v[iz*g.nr+ir+1]
	v01 := v[(iz+1)*g.nr+ir]
	v11 := v[(iz+1)*g.nr+ir+1]

	val = v00*(1-tr)*(1-tz) + v10*tr*(1-tz) + v01*(1-tr)*tz + v11*tr*tz
	ddr = ((v10-v00)*(1-tz) + (v11-v01)*tz) / g.dr
	ddz = ((v01-v00)*(1-tr) + (v11-v10)*tr) / g.dz
	return val, ddr, ddz
}

func (g *Grid) EvalBdB(r, phi, z float64) (Sample, error) {
	ir, iz, tr, tz, err := g.cell(r, z)
	if err != nil {
		return Sample{}, err
	}
	var s Sample
	s.BR, s.BRdR, s.BRdZ = g.lerp2(g.br, ir, iz, tr, tz)
	s.BPhi, s.BPhidR, s.BPhidZ = g.lerp2(g.bphi, ir, iz, tr, tz)
	s.BZ, s.BZdR, s.BZdZ = g.lerp2(g.bz, ir, iz, tr, tz)
	return s, nil
}

func (g *Grid) EvalPsi(r, phi, z float64) (float64, error) {
	ir, iz, tr, tz, err := g.cell(r, z)
	if err != nil {
		return 0, err
	}
	psi, _, _ := g.lerp2(g.psi, ir, iz, tr, tz)
	return psi, nil
}

func (g *Grid) EvalRho(psi float64) (float64, error) {
	t := (psi - g.psiAxis) / (g.psiEdge - g.psiAxis)
	if t < 0 {
		return 0, &DomainError{Model: "grid", Message: "has flux label below the axis value"}
	}
	return math.Sqrt(t), nil
}

func (g *Grid) Axis() (float64, float64) { return g.axisR, g.axisZ }

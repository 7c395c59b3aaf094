package viz

import (
	"github.com/san-kum/gyrosim/internal/sim"
)

// CrossSection maps poloidal-plane coordinates onto a canvas and draws
// orbit traces, the magnetic axis and the domain boundary.
type CrossSection struct {
	canvas       *Canvas
	rMin, rMax   float64
	zMin, zMax   float64
	axisR, axisZ float64
	bound        float64
}

// NewCrossSection covers the square window of half-width bound*1.1 around
// the axis.
func NewCrossSection(w, h int, axisR, axisZ, bound float64) *CrossSection {
	pad := bound * 1.1
	return &CrossSection{
		canvas: NewCanvas(w, h),
		rMin:   axisR - pad, rMax: axisR + pad,
		zMin: axisZ - pad, zMax: axisZ + pad,
		axisR: axisR, axisZ: axisZ,
		bound: bound,
	}
}

func (cs *CrossSection) project(r, z float64) (int, int) {
	x := (r - cs.rMin) / (cs.rMax - cs.rMin) * float64(cs.canvas.Width*2-1)
	// z grows upward, canvas rows grow downward
	y := (cs.zMax - z) / (cs.zMax - cs.zMin) * float64(cs.canvas.Height*4-1)
	return int(x), int(y)
}

// AddOrbit draws one lane's recorded trace.
func (cs *CrossSection) AddOrbit(history []sim.OrbitPoint) {
	for k := 1; k < len(history); k++ {
		x0, y0 := cs.project(history[k-1].R, history[k-1].Z)
		x1, y1 := cs.project(history[k].R, history[k].Z)
		cs.canvas.DrawLine(x0, y0, x1, y1)
	}
}

// AddPoints draws isolated points, e.g. a Poincaré section.
func (cs *CrossSection) AddPoints(r, z []float64) {
	for i := range r {
		x, y := cs.project(r[i], z[i])
		cs.canvas.Set(x, y)
	}
}

// Frame draws the axis marker and domain boundary circle.
func (cs *CrossSection) Frame() {
	ax, ay := cs.project(cs.axisR, cs.axisZ)
	cs.canvas.Set(ax, ay)
	cs.canvas.Set(ax-1, ay)
	cs.canvas.Set(ax+1, ay)
	cs.canvas.Set(ax, ay-1)
	cs.canvas.Set(ax, ay+1)

	bx, _ := cs.project(cs.axisR+cs.bound, cs.axisZ)
	cs.canvas.DrawCircle(ax, ay, bx-ax)
}

func (cs *CrossSection) Clear() { cs.canvas.Clear() }

func (cs *CrossSection) String() string { return cs.canvas.String() }

package field_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gyrosim/internal/field"
)

var _ = Describe("Uniform", func() {
	var u *field.Uniform

	BeforeEach(func() {
		u = field.NewUniformToroidal(5.0, 1.65, 0, 0.5)
	})

	It("returns the same sample everywhere with zero gradients", func() {
		a, err := u.EvalBdB(1.0, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		b, err := u.EvalBdB(2.3, 1.7, -0.4)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
		Expect(a.BPhi).To(Equal(5.0))
		Expect(a.BR).To(BeZero())
		Expect(a.BPhidR).To(BeZero())
		Expect(a.BZdZ).To(BeZero())
	})

	It("maps the edge distance to rho = 1", func() {
		psi, err := u.EvalPsi(1.65+0.5, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		rho, err := u.EvalRho(psi)
		Expect(err).NotTo(HaveOccurred())
		Expect(rho).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("grows rho linearly with axis distance", func() {
		psi, err := u.EvalPsi(1.65, 0, 0.25)
		Expect(err).NotTo(HaveOccurred())
		rho, err := u.EvalRho(psi)
		Expect(err).NotTo(HaveOccurred())
		Expect(rho).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("rejects a negative flux label", func() {
		_, err := u.EvalRho(-1e-9)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("CircularTokamak", func() {
	const (
		b0 = 5.0
		r0 = 1.65
		a  = 0.6
		q  = 1.7
	)
	var tok *field.CircularTokamak

	BeforeEach(func() {
		tok = field.NewCircularTokamak(b0, r0, a, q)
	})

	It("carries a 1/r toroidal field", func() {
		s, err := tok.EvalBdB(1.9, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.BPhi).To(BeNumerically("~", b0*r0/1.9, 1e-12))

		s2, err := tok.EvalBdB(1.4, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.BPhi * 1.9).To(BeNumerically("~", s2.BPhi*1.4, 1e-12))
	})

	It("has a purely toroidal field on the axis", func() {
		s, err := tok.EvalBdB(r0, 0.3, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.BR).To(BeZero())
		Expect(s.BZ).To(BeZero())
		Expect(s.BPhi).To(BeNumerically("~", b0, 1e-12))
	})

	It("reports derivatives consistent with finite differences", func() {
		r, z := 1.85, 0.12
		s, err := tok.EvalBdB(r, 0, z)
		Expect(err).NotTo(HaveOccurred())

		eps := 1e-6
		sp, err := tok.EvalBdB(r+eps, 0, z)
		Expect(err).NotTo(HaveOccurred())
		sm, err := tok.EvalBdB(r-eps, 0, z)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.BRdR).To(BeNumerically("~", (sp.BR-sm.BR)/(2*eps), 1e-4))
		Expect(s.BPhidR).To(BeNumerically("~", (sp.BPhi-sm.BPhi)/(2*eps), 1e-4))
		Expect(s.BZdR).To(BeNumerically("~", (sp.BZ-sm.BZ)/(2*eps), 1e-4))

		sp, err = tok.EvalBdB(r, 0, z+eps)
		Expect(err).NotTo(HaveOccurred())
		sm, err = tok.EvalBdB(r, 0, z-eps)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.BRdZ).To(BeNumerically("~", (sp.BR-sm.BR)/(2*eps), 1e-4))
		Expect(s.BZdZ).To(BeNumerically("~", (sp.BZ-sm.BZ)/(2*eps), 1e-4))
	})

	It("is axisymmetric", func() {
		s1, err := tok.EvalBdB(1.8, 0, 0.1)
		Expect(err).NotTo(HaveOccurred())
		s2, err := tok.EvalBdB(1.8, 2.9, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(s1).To(Equal(s2))
	})

	It("normalizes rho to 1 at the plasma edge", func() {
		psi, err := tok.EvalPsi(r0+a, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		rho, err := tok.EvalRho(psi)
		Expect(err).NotTo(HaveOccurred())
		Expect(rho).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("rejects points outside the minor radius", func() {
		_, err := tok.EvalBdB(r0+a+0.01, 0, 0)
		Expect(err).To(HaveOccurred())
		var derr *field.DomainError
		Expect(err).To(BeAssignableToTypeOf(derr))

		_, err = tok.EvalPsi(r0, 0, a+0.01)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Grid", func() {
	const (
		b0 = 5.0
		r0 = 1.65
		a  = 0.6
		q  = 1.7
	)
	var (
		ana *field.CircularTokamak
		grd *field.Grid
	)

	BeforeEach(func() {
		ana = field.NewCircularTokamak(b0, r0, a, q)
		psiEdge := 0.5 * (b0 / q) * a * a
		var err error
		grd, err = field.Tabulate(ana, r0-0.4, r0+0.4, 161, -0.4, 0.4, 161, psiEdge)
		Expect(err).NotTo(HaveOccurred())
	})

	It("agrees with the analytic model away from the nodes", func() {
		for _, pt := range [][2]float64{{1.731, 0.053}, {1.402, -0.211}, {1.977, 0.138}} {
			want, err := ana.EvalBdB(pt[0], 0, pt[1])
			Expect(err).NotTo(HaveOccurred())
			got, err := grd.EvalBdB(pt[0], 0, pt[1])
			Expect(err).NotTo(HaveOccurred())

			Expect(got.BR).To(BeNumerically("~", want.BR, 1e-3))
			Expect(got.BPhi).To(BeNumerically("~", want.BPhi, 1e-3))
			Expect(got.BZ).To(BeNumerically("~", want.BZ, 1e-3))
		}
	})

	It("tracks the analytic flux label", func() {
		wantPsi, err := ana.EvalPsi(1.85, 0, 0.1)
		Expect(err).NotTo(HaveOccurred())
		gotPsi, err := grd.EvalPsi(1.85, 0, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotPsi).To(BeNumerically("~", wantPsi, 1e-4))

		wantRho, err := ana.EvalRho(wantPsi)
		Expect(err).NotTo(HaveOccurred())
		gotRho, err := grd.EvalRho(gotPsi)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotRho).To(BeNumerically("~", wantRho, 1e-3))
	})

	It("rejects queries outside the tabulated region", func() {
		_, err := grd.EvalBdB(r0+0.41, 0, 0)
		Expect(err).To(HaveOccurred())
		_, err = grd.EvalPsi(r0, 0, 0.41)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a flux label below the axis value", func() {
		_, err := grd.EvalRho(-1e-6)
		Expect(err).To(HaveOccurred())
	})

	It("refuses malformed construction", func() {
		_, err := field.NewGrid(1, 2, 1, -1, 1, 8, nil, nil, nil, nil, 1.5, 0, 0, 1)
		Expect(err).To(HaveOccurred())

		short := make([]float64, 3)
		_, err = field.NewGrid(1, 2, 4, -1, 1, 4, short, short, short, short, 1.5, 0, 0, 1)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("RadialE", func() {
	var (
		bf *field.Uniform
		ef *field.RadialE
	)

	BeforeEach(func() {
		bf = field.NewUniformToroidal(1.0, 1.0, 0, 0.2)
		var err error
		// Er(rho) rises linearly from 0 to 1000 over rho in [0, 1].
		ef, err = field.NewRadialE(bf, 0, 1, []float64{0, 500, 1000})
		Expect(err).NotTo(HaveOccurred())
	})

	It("points along the poloidal unit vector from the axis", func() {
		b, err := bf.EvalBdB(1.1, 0, 0)
		Expect(err).NotTo(HaveOccurred())

		// rho = 0.5 on the outboard midplane: E is purely radial.
		e, err := ef.EvalE(1.1, 0, 0, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(e[0]).To(BeNumerically("~", 500, 1e-9))
		Expect(e[1]).To(BeZero())
		Expect(e[2]).To(BeNumerically("~", 0, 1e-9))

		// Directly above the axis it is purely vertical.
		e, err = ef.EvalE(1.0, 0, 0.1, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(e[0]).To(BeNumerically("~", 0, 1e-9))
		Expect(e[2]).To(BeNumerically("~", 500, 1e-9))
	})

	It("interpolates the profile between samples", func() {
		b, err := bf.EvalBdB(1.15, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		e, err := ef.EvalE(1.15, 0, 0, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(e[0]).To(BeNumerically("~", 750, 1e-9))
	})

	It("vanishes on the axis", func() {
		b, err := bf.EvalBdB(1.0, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		e, err := ef.EvalE(1.0, 0, 0, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(e).To(Equal(field.Vec3{}))
	})

	It("rejects points outside the profile", func() {
		b, err := bf.EvalBdB(1.25, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		_, err = ef.EvalE(1.25, 0, 0, b)
		Expect(err).To(HaveOccurred())
	})

	It("refuses degenerate profiles", func() {
		_, err := field.NewRadialE(bf, 0, 1, []float64{42})
		Expect(err).To(HaveOccurred())
		_, err = field.NewRadialE(bf, 1, 1, []float64{0, 1})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ZeroE", func() {
	It("returns the zero vector", func() {
		e, err := field.ZeroE{}.EvalE(1.5, 2.0, -0.3, field.Sample{BPhi: 5})
		Expect(err).NotTo(HaveOccurred())
		Expect(e).To(Equal(field.Vec3{}))
	})
})

var _ = Describe("Vec3", func() {
	It("computes cross products right-handed", func() {
		r := field.Vec3{1, 0, 0}
		phi := field.Vec3{0, 1, 0}
		z := field.Vec3{0, 0, 1}
		Expect(r.Cross(phi)).To(Equal(z))
		Expect(phi.Cross(z)).To(Equal(r))
		Expect(z.Cross(r)).To(Equal(phi))
	})

	It("computes norms", func() {
		Expect(field.Vec3{3, 0, 4}.Norm()).To(BeNumerically("~", 5, 1e-12))
	})

	It("is orthogonal to its cross product", func() {
		a := field.Vec3{1.2, -0.7, 3.3}
		b := field.Vec3{0.4, 2.1, -1.0}
		c := a.Cross(b)
		Expect(a.Dot(c)).To(BeNumerically("~", 0, 1e-12))
		Expect(b.Dot(c)).To(BeNumerically("~", 0, 1e-12))
	})
})

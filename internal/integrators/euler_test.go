package integrators

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/nbody"
)

func newBody(mass float64, pos, vel mgl64.Vec3) nbody.Body {
	b, err := nbody.NewBody(10, mass, pos, vel, nbody.Red)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func newEnsemble(bodies ...nbody.Body) *nbody.Ensemble {
	ens, err := nbody.NewEnsemble(bodies, nbody.DefaultMaxBodies)
	Expect(err).NotTo(HaveOccurred())
	return ens
}

func twoBody() *nbody.Ensemble {
	return newEnsemble(
		newBody(10, mgl64.Vec3{500, 400, 0}, mgl64.Vec3{2, -0.75, 0}),
		newBody(10, mgl64.Vec3{1000, 400, 0}, mgl64.Vec3{-2, 0.75, 0}),
	)
}

func threeBody() *nbody.Ensemble {
	return newEnsemble(
		newBody(5, mgl64.Vec3{750, 300, 250}, mgl64.Vec3{2, -0.75, 0}),
		newBody(7, mgl64.Vec3{900, 600, 0}, mgl64.Vec3{-2, 0.75, 0}),
		newBody(3, mgl64.Vec3{600, 600, -500}, mgl64.Vec3{-2, 0.75, 0.1}),
	)
}

func expectVecClose(got, want mgl64.Vec3, tol float64) {
	for i := range got {
		ExpectWithOffset(1, got[i]).To(BeNumerically("~", want[i], tol), "component %d of %v vs %v", i, got, want)
	}
}

var _ = Describe("Euler", func() {
	var (
		integ *Euler
		zero  mgl64.Vec3
	)

	BeforeEach(func() {
		integ = NewEuler()
	})

	Context("two equal masses 500 apart", func() {
		It("pulls the bodies together along x by G*m/d per tick", func() {
			ens := twoBody()
			const g, m, d = 1.0, 10.0, 500.0

			sep := ens.At(1).Position().Sub(ens.At(0).Position())
			Expect(sep.Len()).To(Equal(d))

			integ.Step(ens, zero, g, 1)

			attraction := g * m * m / (d * d)
			dv := attraction * d / m

			a, b := ens.At(0), ens.At(1)
			expectVecClose(a.Velocity(), mgl64.Vec3{2 + dv, -0.75, 0}, 1e-12)
			expectVecClose(b.Velocity(), mgl64.Vec3{-2 - dv, 0.75, 0}, 1e-12)
			Expect(a.Velocity().X() - 2).To(BeNumerically(">", 0))
			Expect(b.Velocity().X() + 2).To(BeNumerically("<", 0))
			Expect(dv).To(BeNumerically("~", 0.02, 1e-15))

			expectVecClose(a.Position(), mgl64.Vec3{502 + dv, 399.25, 0}, 1e-9)
			expectVecClose(b.Position(), mgl64.Vec3{998 - dv, 400.75, 0}, 1e-9)
		})

		It("keeps the bodies mirrored about the centre of mass", func() {
			ens := twoBody()
			for i := 0; i < 100; i++ {
				integ.Step(ens, zero, 1, 1)

				com := ens.CenterOfMass()
				ra := ens.At(0).Position().Sub(com)
				rb := ens.At(1).Position().Sub(com)
				expectVecClose(ra, rb.Mul(-1), 1e-6)
			}
		})
	})

	It("conserves total momentum without a global force", func() {
		ens := threeBody()
		p0 := ens.TotalMomentum()

		for i := 0; i < 100; i++ {
			integ.Step(ens, zero, 1, 1)
		}

		Expect(ens.IsFinite()).To(BeTrue())
		expectVecClose(ens.TotalMomentum(), p0, 1e-9)
	})

	It("adds the global force to every body", func() {
		ens := threeBody()
		p0 := ens.TotalMomentum()
		push := mgl64.Vec3{0, 0.5, 0}

		const ticks = 10
		for i := 0; i < ticks; i++ {
			integ.Step(ens, push, 1, 1)
		}

		want := p0.Add(push.Mul(float64(ticks * ens.Len())))
		expectVecClose(ens.TotalMomentum(), want, 1e-9)
	})

	Context("single body", func() {
		It("feels no force from itself", func() {
			ens := newEnsemble(newBody(4, mgl64.Vec3{10, 20, 30}, mgl64.Vec3{1, 0, 0}))

			Expect(NetForce(ens.Bodies(), 0, zero, 1)).To(Equal(zero))

			integ.Step(ens, zero, 1, 1)
			Expect(ens.At(0).Velocity()).To(Equal(mgl64.Vec3{1, 0, 0}))
			Expect(ens.At(0).Position()).To(Equal(mgl64.Vec3{11, 20, 30}))
		})

		It("still feels the global force", func() {
			ens := newEnsemble(newBody(2, mgl64.Vec3{}, mgl64.Vec3{}))

			acc := Accelerations(ens, mgl64.Vec3{0, 1, 0}, 1)
			Expect(acc).To(HaveLen(1))
			Expect(acc[0]).To(Equal(mgl64.Vec3{0, 0.5, 0}))
		})
	})

	It("gives the same result for any traversal order", func() {
		orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}}
		base := threeBody()

		var results []*nbody.Ensemble
		for _, order := range orders {
			ens := base.Clone()
			e := NewEuler()
			e.ensureScratch(ens.Len())
			for i := 0; i < 25; i++ {
				e.step(ens, order, zero, 1, 1)
			}
			results = append(results, ens)
		}

		for _, ens := range results[1:] {
			for i := 0; i < ens.Len(); i++ {
				Expect(ens.At(i).Position()).To(Equal(results[0].At(i).Position()))
				Expect(ens.At(i).Velocity()).To(Equal(results[0].At(i).Velocity()))
			}
		}
	})

	It("reads positions from the start of the tick", func() {
		ens := threeBody()
		want := Accelerations(ens, zero, 1)
		before := ens.Clone()

		integ.Step(ens, zero, 1, 1)

		for i := 0; i < ens.Len(); i++ {
			dv := ens.At(i).Velocity().Sub(before.At(i).Velocity())
			expectVecClose(dv, want[i], 1e-14)
		}
	})

	It("does not mutate bodies when only computing accelerations", func() {
		ens := threeBody()
		before := ens.Clone()

		_ = Accelerations(ens, zero, 1)

		for i := 0; i < ens.Len(); i++ {
			Expect(ens.At(i).Physical()).To(Equal(before.At(i).Physical()))
		}
	})

	It("lets coincident bodies go non-finite without panicking", func() {
		ens := newEnsemble(
			newBody(1, mgl64.Vec3{5, 5, 5}, mgl64.Vec3{}),
			newBody(1, mgl64.Vec3{5, 5, 5}, mgl64.Vec3{}),
		)

		Expect(func() { integ.Step(ens, zero, 1, 1) }).NotTo(Panic())
		Expect(ens.IsFinite()).To(BeFalse())
		Expect(math.IsNaN(ens.At(0).Velocity().X())).To(BeTrue())
	})
})

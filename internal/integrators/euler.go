package integrators

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// Euler advances an ensemble under mutual gravity with semi-implicit Euler.
//
// Each Step runs three phases: every acceleration is computed from the same
// position snapshot, then every velocity is updated, then every position.
// The scratch buffer is reused across steps, so an Euler must not be shared
// between goroutines.
type Euler struct {
	acc   []mgl64.Vec3
	order []int
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) ensureScratch(n int) {
	if len(e.acc) != n {
		e.acc = make([]mgl64.Vec3, n)
		e.order = make([]int, n)
		for i := range e.order {
			e.order[i] = i
		}
	}
}

// Step advances ens by dt. globalForce is added to every body's net force
// before the division by mass. Coincident bodies are not guarded against and
// produce Inf/NaN state.
func (e *Euler) Step(ens *nbody.Ensemble, globalForce mgl64.Vec3, g, dt float64) {
	e.ensureScratch(ens.Len())
	e.step(ens, e.order, globalForce, g, dt)
}

// step visits bodies in the given order. Results do not depend on order.
func (e *Euler) step(ens *nbody.Ensemble, order []int, globalForce mgl64.Vec3, g, dt float64) {
	bodies := ens.Bodies()

	for _, i := range order {
		e.acc[i] = NetForce(bodies, i, globalForce, g).Mul(1 / bodies[i].Mass())
	}
	for _, i := range order {
		bodies[i].Accelerate(e.acc[i], dt)
	}
	for _, i := range order {
		bodies[i].UpdatePosition(dt)
	}
}

// Accelerations returns the acceleration of every body for the current
// positions without mutating anything.
func Accelerations(ens *nbody.Ensemble, globalForce mgl64.Vec3, g float64) []mgl64.Vec3 {
	bodies := ens.Bodies()
	acc := make([]mgl64.Vec3, len(bodies))
	for i := range bodies {
		acc[i] = NetForce(bodies, i, globalForce, g).Mul(1 / bodies[i].Mass())
	}
	return acc
}

// NetForce sums globalForce and the pull of every other body on bodies[target]:
//
//	F = globalForce + Σ_{j≠target} G·m_t·m_j·(p_j − p_t) / |p_j − p_t|²
//
// The displacement is used as-is, not normalised. The target is skipped by
// index.
func NetForce(bodies []nbody.Body, target int, globalForce mgl64.Vec3, g float64) mgl64.Vec3 {
	t := &bodies[target]
	pt := t.Position()
	mt := t.Mass()

	net := globalForce
	for j := range bodies {
		if j == target {
			continue
		}
		d := bodies[j].Position().Sub(pt)
		distSqr := d.Dot(d)
		attraction := g * mt * bodies[j].Mass() / distSqr
		net = net.Add(d.Mul(attraction))
	}
	return net
}

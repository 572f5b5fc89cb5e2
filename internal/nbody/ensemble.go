package nbody

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultMaxBodies caps the size of an ensemble.
const DefaultMaxBodies = 100

// Ensemble owns the bodies of one simulation. Its size and order are fixed
// at construction; bodies are identified by index.
type Ensemble struct {
	bodies []Body
}

// NewEnsemble copies bodies into a new ensemble. Every body must carry a
// positive mass and the count must be in [1, maxBodies].
func NewEnsemble(bodies []Body, maxBodies int) (*Ensemble, error) {
	if len(bodies) == 0 {
		return nil, ErrEmptyEnsemble
	}
	if len(bodies) > maxBodies {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyBodies, len(bodies), maxBodies)
	}
	for i := range bodies {
		if !(bodies[i].phys.Mass > 0) {
			return nil, &BodyError{Index: i, Wrapped: ErrNonPositiveMass}
		}
	}

	owned := make([]Body, len(bodies))
	copy(owned, bodies)
	return &Ensemble{bodies: owned}, nil
}

func (e *Ensemble) Len() int { return len(e.bodies) }

// At returns the i-th body. The pointer stays valid for the ensemble's lifetime.
func (e *Ensemble) At(i int) *Body { return &e.bodies[i] }

// Bodies exposes the owned slice in ensemble order.
func (e *Ensemble) Bodies() []Body { return e.bodies }

// Clone returns a deep copy, useful for comparing alternative runs.
func (e *Ensemble) Clone() *Ensemble {
	c := make([]Body, len(e.bodies))
	copy(c, e.bodies)
	return &Ensemble{bodies: c}
}

// IsFinite reports whether every body has finite position and velocity.
func (e *Ensemble) IsFinite() bool {
	for i := range e.bodies {
		if !e.bodies[i].IsFinite() {
			return false
		}
	}
	return true
}

// TotalMass sums the masses of all bodies.
func (e *Ensemble) TotalMass() float64 {
	m := 0.0
	for i := range e.bodies {
		m += e.bodies[i].phys.Mass
	}
	return m
}

// TotalMomentum sums m*v over all bodies.
func (e *Ensemble) TotalMomentum() mgl64.Vec3 {
	var p mgl64.Vec3
	for i := range e.bodies {
		p = p.Add(e.bodies[i].Momentum())
	}
	return p
}

// CenterOfMass returns the mass-weighted mean position.
func (e *Ensemble) CenterOfMass() mgl64.Vec3 {
	var c mgl64.Vec3
	for i := range e.bodies {
		c = c.Add(e.bodies[i].phys.Position.Mul(e.bodies[i].phys.Mass))
	}
	return c.Mul(1 / e.TotalMass())
}

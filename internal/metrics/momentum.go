package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// MomentumDrift is the largest |P(t) − P(0)| seen. With no global force it
// should stay at round-off level.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(ens *nbody.Ensemble, t float64) {
	p := ens.TotalMomentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

// CenterOfMassDrift compares the centre of mass against straight-line motion
// at the initial momentum. t is the simulation time passed to Observe.
type CenterOfMassDrift struct {
	name     string
	origin   mgl64.Vec3
	velocity mgl64.Vec3
	t0       float64
	maxDrift float64
	samples  int
}

func NewCenterOfMassDrift() *CenterOfMassDrift {
	return &CenterOfMassDrift{name: "com_drift"}
}

func (c *CenterOfMassDrift) Name() string { return c.name }

func (c *CenterOfMassDrift) Observe(ens *nbody.Ensemble, t float64) {
	com := ens.CenterOfMass()
	if c.samples == 0 {
		c.origin = com
		c.velocity = ens.TotalMomentum().Mul(1 / ens.TotalMass())
		c.t0 = t
	}
	c.samples++

	predicted := c.origin.Add(c.velocity.Mul(t - c.t0))
	c.maxDrift = math.Max(c.maxDrift, com.Sub(predicted).Len())
}

func (c *CenterOfMassDrift) Value() float64 { return c.maxDrift }

func (c *CenterOfMassDrift) Reset() {
	c.origin = mgl64.Vec3{}
	c.velocity = mgl64.Vec3{}
	c.t0 = 0
	c.maxDrift = 0
	c.samples = 0
}

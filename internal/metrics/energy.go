package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// TotalEnergy returns kinetic plus pairwise potential energy.
//
// The force law pulls with magnitude G·m_i·m_j/r, so the matching potential
// is G·m_i·m_j·ln(r) rather than the Newtonian −G·m_i·m_j/r.
func TotalEnergy(ens *nbody.Ensemble, g float64) float64 {
	bodies := ens.Bodies()
	ke := 0.0
	pe := 0.0

	for i := range bodies {
		ke += bodies[i].KineticEnergy()

		for j := i + 1; j < len(bodies); j++ {
			r := bodies[j].Position().Sub(bodies[i].Position()).Len()
			pe += g * bodies[i].Mass() * bodies[j].Mass() * math.Log(r)
		}
	}

	return ke + pe
}

// EnergyDrift tracks the largest relative deviation from the first observed
// total energy.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		g:    g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(ens *nbody.Ensemble, t float64) {
	energy := TotalEnergy(ens, e.g)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

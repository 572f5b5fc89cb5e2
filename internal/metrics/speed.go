package metrics

import (
	"github.com/san-kum/orbitsim/internal/nbody"
)

// MeanSpeed averages body speed over every body and observation.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{
		name: "mean_speed",
	}
}

func (m *MeanSpeed) Name() string {
	return m.name
}

func (m *MeanSpeed) Observe(ens *nbody.Ensemble, t float64) {
	bodies := ens.Bodies()
	for i := range bodies {
		m.sum += bodies[i].Velocity().Len()
		m.samples++
	}
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

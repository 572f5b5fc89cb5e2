package metrics

import (
	"github.com/san-kum/orbitsim/internal/nbody"
)

// NonFinite is the fraction of observations in which at least one body had
// NaN or Inf position or velocity.
type NonFinite struct {
	name       string
	violations int
	samples    int
}

func NewNonFinite() *NonFinite {
	return &NonFinite{name: "non_finite"}
}

func (s *NonFinite) Name() string {
	return s.name
}

func (s *NonFinite) Observe(ens *nbody.Ensemble, t float64) {
	s.samples++
	if !ens.IsFinite() {
		s.violations++
	}
}

func (s *NonFinite) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *NonFinite) Reset() {
	s.violations = 0
	s.samples = 0
}

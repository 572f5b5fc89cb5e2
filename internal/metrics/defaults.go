package metrics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/sim"
)

var ErrUnknownMetric = errors.New("metrics: unknown metric")

// Defaults returns the metrics recorded for every run.
func Defaults(g float64) []sim.Metric {
	return []sim.Metric{
		NewMomentumDrift(),
		NewCenterOfMassDrift(),
		NewEnergyDrift(g),
		NewMeanSpeed(),
		NewNonFinite(),
	}
}

// Names lists the names of the default metrics in recording order.
func Names() []string {
	ms := Defaults(0)
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return names
}

// Check returns ErrUnknownMetric when no default metric is called name.
func Check(name string) error {
	names := Names()
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (%s)", ErrUnknownMetric, name, strings.Join(names, ", "))
}

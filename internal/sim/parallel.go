package sim

import (
	"context"
	"sync"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// Sweep runs one independent simulation per config, concurrently. Each run
// gets its own clone of base and its own stepper and metrics, so nothing is
// shared between goroutines; every force evaluation stays single-threaded.
type Sweep struct {
	newStepper func() Stepper
	newMetrics func(cfg Config) []Metric
	opts       []Option
}

// NewSweep builds a sweep. newMetrics receives each run's config, so
// metrics that depend on G can match it.
func NewSweep(newStepper func() Stepper, newMetrics func(cfg Config) []Metric, opts ...Option) *Sweep {
	return &Sweep{newStepper: newStepper, newMetrics: newMetrics, opts: opts}
}

// Run returns results in the order of cfgs.
func (sw *Sweep) Run(ctx context.Context, base *nbody.Ensemble, cfgs []Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s := New(sw.newStepper(), sw.opts...)
			if sw.newMetrics != nil {
				for _, m := range sw.newMetrics(cfgs[idx]) {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, base.Clone(), cfgs[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

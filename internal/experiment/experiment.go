package experiment

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
)

// Experiment is one configured scenario: its initial bodies come from the
// config and a random source seeded with cfg.Seed.
type Experiment struct {
	cfg        *config.Config
	randSource *rand.Rand
	logger     *log.Logger
}

// Outcome is a finished headless run.
type Outcome struct {
	Result  *sim.Result
	Final   *nbody.Ensemble
	Colors  []colorful.Color
	Elapsed time.Duration
}

func New(cfg *config.Config, logger *log.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
		logger:     logger,
	}, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Ensemble builds a fresh set of initial bodies. Scenarios with random
// placement differ between calls unless the experiment is recreated.
func (e *Experiment) Ensemble() (*nbody.Ensemble, error) {
	ens, err := e.cfg.BuildEnsemble(e.randSource)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", e.cfg.Scenario, err)
	}
	return ens, nil
}

// Run simulates the configured scenario with the default metrics.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	ens, err := e.Ensemble()
	if err != nil {
		return nil, err
	}

	simCfg := e.cfg.SimConfig()
	s := sim.New(integrators.NewEuler(), sim.WithLogger(e.logger))
	for _, m := range metrics.Defaults(simCfg.G) {
		s.AddMetric(m)
	}

	e.logger.Info("running", "scenario", e.cfg.Scenario, "bodies", ens.Len(), "ticks", simCfg.Ticks)
	start := time.Now()

	result, err := s.Run(ctx, ens, simCfg)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Result:  result,
		Final:   ens,
		Colors:  Colors(ens),
		Elapsed: time.Since(start),
	}, nil
}

// Sweep runs the scenario once per gravitational constant, concurrently,
// from the same initial bodies.
func (e *Experiment) Sweep(ctx context.Context, gs []float64) ([]*sim.Result, error) {
	base, err := e.Ensemble()
	if err != nil {
		return nil, err
	}

	cfgs := make([]sim.Config, len(gs))
	for i, g := range gs {
		cfgs[i] = e.cfg.SimConfig()
		cfgs[i].G = g
	}

	sw := sim.NewSweep(
		func() sim.Stepper { return integrators.NewEuler() },
		func(c sim.Config) []sim.Metric { return metrics.Defaults(c.G) },
		sim.WithLogger(e.logger),
	)
	return sw.Run(ctx, base, cfgs)
}

// Metadata describes an outcome for the run archive.
func (e *Experiment) Metadata(out *Outcome) *storage.RunMetadata {
	simCfg := e.cfg.SimConfig()
	return &storage.RunMetadata{
		Scenario:    e.cfg.Scenario,
		Seed:        e.cfg.Seed,
		Dt:          simCfg.Dt,
		G:           simCfg.G,
		Ticks:       out.Result.TicksTaken,
		SampleEvery: simCfg.SampleEvery,
		Width:       simCfg.Canvas.Width,
		Height:      simCfg.Canvas.Height,
		Bodies:      out.Final.Len(),
		Colors:      HexColors(out.Colors),
	}
}

func Colors(ens *nbody.Ensemble) []colorful.Color {
	out := make([]colorful.Color, ens.Len())
	for i := range out {
		out[i] = ens.At(i).Color()
	}
	return out
}

func HexColors(colors []colorful.Color) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Clamped().Hex()
	}
	return out
}

// ParseColors reverses HexColors. Unparseable entries become white.
func ParseColors(hex []string) []colorful.Color {
	out := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			c = nbody.White
		}
		out[i] = c
	}
	return out
}

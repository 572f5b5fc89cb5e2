package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/orbitsim/internal/nbody"
)

type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

type Option func(*Simulator)

// WithLogger routes run diagnostics to l. The default discards them.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(stepper Stepper, opts ...Option) *Simulator {
	s := &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances ens in place for cfg.Ticks ticks.
//
// After every step each body's display transform is evaluated, the way a
// renderer would, so display offsets stay continuous even when frames are
// only recorded every cfg.SampleEvery ticks. Bodies that turn non-finite are
// reported once in Result.Errors and the run carries on. Cancellation is
// checked between ticks; the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, ens *nbody.Ensemble, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	every := sampleEvery(cfg)

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Ticks/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Debug("run starting", "bodies", ens.Len(), "ticks", cfg.Ticks, "dt", cfg.Dt, "g", cfg.G)

	t := 0.0
	reported := make([]bool, ens.Len())

	result.Frames = append(result.Frames, s.frame(ens, cfg, 0, t))
	for _, m := range s.metrics {
		m.Observe(ens, t)
	}

	for i := 1; i <= cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		s.stepper.Step(ens, cfg.GlobalForce, cfg.G, cfg.Dt)
		t += cfg.Dt
		result.TicksTaken++

		if i%every == 0 || i == cfg.Ticks {
			result.Frames = append(result.Frames, s.frame(ens, cfg, i, t))
		} else {
			project(ens, cfg.Canvas)
		}

		if s.checkFinite(ens, reported, i, t, result) {
			result.NonFiniteTicks++
		}

		for _, m := range s.metrics {
			m.Observe(ens, t)
		}
		for _, obs := range s.observers {
			obs.OnTick(ens, i, t)
		}
	}

	s.collect(result)
	s.logger.Debug("run finished", "ticks", result.TicksTaken, "non_finite_ticks", result.NonFiniteTicks)

	return result, nil
}

// RunWithCallback steps ens until fn returns false, ctx is done or, when
// cfg.Ticks > 0, that many ticks have run. fn sees the ensemble after each
// step, before any display transform.
func (s *Simulator) RunWithCallback(ctx context.Context, ens *nbody.Ensemble, cfg Config, fn func(ens *nbody.Ensemble, tick int, t float64) bool) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}

	t := 0.0
	for i := 1; cfg.Ticks <= 0 || i <= cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.stepper.Step(ens, cfg.GlobalForce, cfg.G, cfg.Dt)
		t += cfg.Dt

		if !fn(ens, i, t) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidConfig, cfg.Ticks)
	}
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas must be positive, got %vx%v", ErrInvalidConfig, cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (s *Simulator) frame(ens *nbody.Ensemble, cfg Config, tick int, t float64) Frame {
	f := Frame{Tick: tick, Time: t, Bodies: make([]BodySample, ens.Len())}
	for i := 0; i < ens.Len(); i++ {
		b := ens.At(i)
		x, y, r := b.DisplayTransform(cfg.Canvas.Width, cfg.Canvas.Height)
		f.Bodies[i] = BodySample{
			Position: b.Position(),
			Velocity: b.Velocity(),
			ScreenX:  x,
			ScreenY:  y,
			Radius:   r,
		}
	}
	return f
}

func project(ens *nbody.Ensemble, c Canvas) {
	for i := 0; i < ens.Len(); i++ {
		ens.At(i).DisplayTransform(c.Width, c.Height)
	}
}

// checkFinite reports whether any body is non-finite, recording each body
// the first time it goes bad.
func (s *Simulator) checkFinite(ens *nbody.Ensemble, reported []bool, tick int, t float64, result *Result) bool {
	bad := false
	for i := 0; i < ens.Len(); i++ {
		if ens.At(i).IsFinite() {
			continue
		}
		bad = true
		if reported[i] {
			continue
		}
		reported[i] = true
		err := &TickError{Tick: tick, Time: t, Body: i, Wrapped: ErrNonFinite}
		result.Errors = append(result.Errors, err)
		s.logger.Warn("body state went non-finite", "tick", tick, "body", i)
	}
	return bad
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func sampleEvery(cfg Config) int {
	if cfg.SampleEvery <= 0 {
		return 1
	}
	return cfg.SampleEvery
}

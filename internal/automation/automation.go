package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/storage"
)

// Batch is a scripted sequence of runs loaded from YAML.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []BatchStep `yaml:"steps"`
}

// BatchStep overrides the base config for one run. Zero fields keep the
// base value.
type BatchStep struct {
	Scenario  string  `yaml:"scenario"`
	Seed      int64   `yaml:"seed"`
	Dt        float64 `yaml:"dt"`
	G         float64 `yaml:"g"`
	Ticks     int     `yaml:"ticks"`
	RingCount int     `yaml:"ring_count"`
	// ZeroG sets G to 0, which a zero G field cannot express.
	ZeroG bool `yaml:"zero_g"`
}

// StepResult is one archived step.
type StepResult struct {
	Step    int
	RunID   string
	Outcome *experiment.Outcome
}

// LoadBatch loads a batch from a YAML file
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(batch.Steps) == 0 {
		return nil, fmt.Errorf("%s: %w: batch has no steps", path, config.ErrInvalid)
	}

	return &batch, nil
}

// Apply returns a copy of base with the step's overrides.
func (s BatchStep) Apply(base *config.Config) *config.Config {
	cfg := *base
	if s.Scenario != "" {
		cfg.Scenario = s.Scenario
		cfg.Bodies = nil
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Dt != 0 {
		cfg.Physics.Dt = s.Dt
	}
	if s.G != 0 {
		cfg.Physics.G = s.G
	}
	if s.ZeroG {
		cfg.Physics.G = 0
	}
	if s.Ticks != 0 {
		cfg.Run.Ticks = s.Ticks
	}
	if s.RingCount != 0 {
		cfg.RingCount = s.RingCount
	}
	return &cfg
}

// RunBatch executes all steps in order. Each finished run is archived when
// store is non-nil. It stops at the first failing step and returns the
// steps completed so far.
func RunBatch(ctx context.Context, batch *Batch, base *config.Config, store *storage.Store, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]StepResult, 0, len(batch.Steps))

	for i, step := range batch.Steps {
		cfg := step.Apply(base)
		logger.Info("batch step", "step", i+1, "of", len(batch.Steps), "scenario", cfg.Scenario)

		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res := StepResult{Step: i + 1, Outcome: out}
		if store != nil {
			id, err := store.Save(exp.Metadata(out), out.Result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = id
		}
		results = append(results, res)
	}

	return results, nil
}

// MonteCarloResult is one trial of a seeded scenario.
type MonteCarloResult struct {
	TrialID int
	Seed    int64
	// Stable is true when every body stayed finite and within bound of the
	// origin.
	Stable bool
	Metric float64
}

// StabilityBound is the largest coordinate a stable trial may reach.
const StabilityBound = 1e6

// RunMonteCarlo runs base once per trial with seeds base.Seed+trial, so
// randomly placed scenarios start from different bodies each time. metric
// must name one of the default metrics.
func RunMonteCarlo(ctx context.Context, base *config.Config, trials int, metric string, logger *log.Logger) ([]MonteCarloResult, error) {
	if err := metrics.Check(metric); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]MonteCarloResult, 0, trials)

	for trial := 0; trial < trials; trial++ {
		cfg := *base
		cfg.Seed = base.Seed + int64(trial)

		exp, err := experiment.New(&cfg, nil)
		if err != nil {
			return nil, err
		}
		out, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Seed:    cfg.Seed,
			Stable:  bounded(out),
			Metric:  out.Result.Metrics[metric],
		})

		if (trial+1)%10 == 0 {
			logger.Info("monte carlo", "done", trial+1, "of", trials)
		}
	}

	return results, nil
}

func bounded(out *experiment.Outcome) bool {
	if !out.Final.IsFinite() {
		return false
	}
	for _, b := range out.Final.Bodies() {
		for _, v := range b.Position() {
			if v > StabilityBound || v < -StabilityBound {
				return false
			}
		}
	}
	return true
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
)

var (
	ErrUnknownParam = errors.New("optim: unknown parameter")
	ErrNoCandidate  = errors.New("optim: no run produced a finite metric")
)

// Params lists the config fields a grid search can vary.
var Params = []string{"dt", "g", "ticks", "ring_count", "seed"}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size is the number of runs a full search performs.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every combination of parameter values and returns the one
// with the smallest metric. Runs whose metric is missing or non-finite are
// skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return fmt.Errorf("%s: %w", Describe(current), err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", Describe(current), err)
		}

		val, ok := out.Result.Metrics[metricName]
		if !ok || math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns a copy of base with the named parameters set.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := *base
	for name, v := range params {
		switch name {
		case "dt":
			cfg.Physics.Dt = v
		case "g":
			cfg.Physics.G = v
		case "ticks":
			cfg.Run.Ticks = int(v)
		case "ring_count":
			cfg.RingCount = int(v)
		case "seed":
			cfg.Seed = int64(v)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}
	return &cfg, nil
}

// Describe formats params as sorted name=value pairs.
func Describe(params map[string]float64) string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s=%g", k, params[k])
	}
	return strings.Join(parts, " ")
}

package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	DefaultWidth        = 1500
	DefaultHeight       = 900
	DefaultG            = 1.0
	DefaultDt           = 1.0
	DefaultTicks        = 2000
	DefaultFPS          = 60
	DefaultFrameAverage = 500
	DefaultRingCount    = 30
	DefaultScenario     = "mp-two"
)

var (
	ErrInvalid         = errors.New("config: invalid value")
	ErrUnknownScenario = errors.New("config: unknown scenario")
	ErrBadColor        = errors.New("config: bad color")
)

type Config struct {
	Scenario string        `yaml:"scenario"`
	Seed     int64         `yaml:"seed"`
	Canvas   CanvasConfig  `yaml:"canvas"`
	Physics  PhysicsConfig `yaml:"physics"`
	Run      RunConfig     `yaml:"run"`
	// RingCount is the body count of the ring scenario.
	RingCount int `yaml:"ring_count"`
	// Bodies, when set, replaces the named scenario.
	Bodies []BodyConfig `yaml:"bodies,omitempty"`
}

type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type PhysicsConfig struct {
	G           float64    `yaml:"g"`
	Dt          float64    `yaml:"dt"`
	GlobalForce [3]float64 `yaml:"global_force"`
	MaxBodies   int        `yaml:"max_bodies"`
}

type RunConfig struct {
	Ticks        int `yaml:"ticks"`
	SampleEvery  int `yaml:"sample_every"`
	FPS          int `yaml:"fps"`
	FrameAverage int `yaml:"frame_average"`
}

// BodyConfig is one body's initial conditions. An empty Color picks a
// random palette colour.
type BodyConfig struct {
	Radius   float64    `yaml:"radius"`
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
	Color    string     `yaml:"color,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		Canvas: CanvasConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Physics: PhysicsConfig{
			G:         DefaultG,
			Dt:        DefaultDt,
			MaxBodies: nbody.DefaultMaxBodies,
		},
		Run: RunConfig{
			Ticks:        DefaultTicks,
			SampleEvery:  1,
			FPS:          DefaultFPS,
			FrameAverage: DefaultFrameAverage,
		},
		RingCount: DefaultRingCount,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	case c.Physics.Dt <= 0:
		return fmt.Errorf("%w: dt %v", ErrInvalid, c.Physics.Dt)
	case c.Physics.MaxBodies < 1:
		return fmt.Errorf("%w: max_bodies %d", ErrInvalid, c.Physics.MaxBodies)
	case c.Run.SampleEvery < 0:
		return fmt.Errorf("%w: sample_every %d", ErrInvalid, c.Run.SampleEvery)
	}
	return nil
}

// SimConfig converts to the run loop's parameters.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:          c.Physics.Dt,
		Ticks:       c.Run.Ticks,
		G:           c.Physics.G,
		GlobalForce: mgl64.Vec3(c.Physics.GlobalForce),
		Canvas: sim.Canvas{
			Width:  float64(c.Canvas.Width),
			Height: float64(c.Canvas.Height),
		},
		SampleEvery: c.Run.SampleEvery,
	}
}

// BodyConfigs returns the inline bodies, or the named scenario's.
func (c *Config) BodyConfigs(rng *rand.Rand) ([]BodyConfig, error) {
	if len(c.Bodies) > 0 {
		return c.Bodies, nil
	}
	sc, ok := GetScenario(c.Scenario)
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScenario, c.Scenario, ListScenarios())
	}
	return sc.Build(rng, c.RingCount), nil
}

// BuildEnsemble creates the initial ensemble. rng seeds random colours and
// any random placement the scenario uses.
func (c *Config) BuildEnsemble(rng *rand.Rand) (*nbody.Ensemble, error) {
	specs, err := c.BodyConfigs(rng)
	if err != nil {
		return nil, err
	}

	bodies := make([]nbody.Body, len(specs))
	for i, s := range specs {
		color, err := s.color(rng)
		if err != nil {
			return nil, &nbody.BodyError{Index: i, Wrapped: err}
		}
		b, err := nbody.NewBody(s.Radius, s.Mass, mgl64.Vec3(s.Position), mgl64.Vec3(s.Velocity), color)
		if err != nil {
			return nil, &nbody.BodyError{Index: i, Wrapped: err}
		}
		bodies[i] = b
	}

	return nbody.NewEnsemble(bodies, c.Physics.MaxBodies)
}

var namedColors = map[string]colorful.Color{
	"red":     nbody.Red,
	"blue":    nbody.Blue,
	"green":   nbody.Green,
	"magenta": nbody.Magenta,
	"yellow":  nbody.Yellow,
	"white":   nbody.White,
}

func (b BodyConfig) color(rng *rand.Rand) (colorful.Color, error) {
	if b.Color == "" {
		return nbody.RandomColor(rng), nil
	}
	if c, ok := namedColors[strings.ToLower(b.Color)]; ok {
		return c, nil
	}
	c, err := colorful.Hex(b.Color)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w %q: %v", ErrBadColor, b.Color, err)
	}
	return c, nil
}

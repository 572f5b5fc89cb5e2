package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/nbody"
)

// Stepper advances an ensemble by one tick.
type Stepper interface {
	Step(ens *nbody.Ensemble, globalForce mgl64.Vec3, g, dt float64)
}

type Metric interface {
	Name() string
	Observe(ens *nbody.Ensemble, t float64)
	Value() float64
	Reset()
}

// Observer is called after every tick, once positions and display offsets
// are up to date.
type Observer interface {
	OnTick(ens *nbody.Ensemble, tick int, t float64)
}

type Canvas struct {
	Width  float64
	Height float64
}

type Config struct {
	Dt          float64
	Ticks       int
	G           float64
	GlobalForce mgl64.Vec3
	Canvas      Canvas
	// SampleEvery records one frame per that many ticks. Zero means every tick.
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:          1.0,
		Ticks:       1000,
		G:           1.0,
		Canvas:      Canvas{Width: 1500, Height: 900},
		SampleEvery: 1,
	}
}

// BodySample is one body's state in a recorded frame.
type BodySample struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	ScreenX  float64
	ScreenY  float64
	Radius   float64
}

// Centre is the centre of the drawn circle. The screen coordinates are the
// top-left corner of its bounding box.
func (b BodySample) Centre() (float64, float64) {
	return b.ScreenX + b.Radius, b.ScreenY + b.Radius
}

// Visible reports whether the body has a drawable radius.
func (b BodySample) Visible() bool {
	return b.Radius > 0 && !math.IsInf(b.Radius, 0) && finite(b.ScreenX) && finite(b.ScreenY)
}

type Frame struct {
	Tick   int
	Time   float64
	Bodies []BodySample
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	TicksTaken int
	// NonFiniteTicks counts ticks that ended with at least one NaN/Inf body.
	NonFiniteTicks int
	Errors         []error
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package config

import (
	"math"
	"math/rand"
	"sort"
)

// Scenario is a named set of initial conditions. n is only used by
// scenarios with a variable body count.
type Scenario struct {
	Name        string
	Description string
	Build       func(rng *rand.Rand, n int) []BodyConfig
}

func fixed(bodies ...BodyConfig) func(*rand.Rand, int) []BodyConfig {
	return func(*rand.Rand, int) []BodyConfig {
		out := make([]BodyConfig, len(bodies))
		copy(out, bodies)
		return out
	}
}

var Scenarios = map[string]Scenario{
	"two": {
		Name:        "two",
		Description: "two equal masses in the z=0 plane",
		Build: fixed(
			BodyConfig{Radius: 10, Mass: 10, Position: [3]float64{500, 400, 0}, Velocity: [3]float64{2, -0.75, 0}},
			BodyConfig{Radius: 10, Mass: 10, Position: [3]float64{1000, 400, 0}, Velocity: [3]float64{-2, 0.75, 0}},
		),
	},
	"three": {
		Name:        "three",
		Description: "three equal masses in the z=0 plane",
		Build: fixed(
			BodyConfig{Radius: 10, Mass: 5, Position: [3]float64{750, 300, 0}, Velocity: [3]float64{2, -0.75, 0}},
			BodyConfig{Radius: 10, Mass: 5, Position: [3]float64{900, 600, 0}, Velocity: [3]float64{-2, 0.75, 0}},
			BodyConfig{Radius: 10, Mass: 5, Position: [3]float64{600, 600, 0}, Velocity: [3]float64{-2, 0.75, 0}},
		),
	},
	"heavy-centre": {
		Name:        "heavy-centre",
		Description: "three light bodies around a heavy one",
		Build: fixed(
			BodyConfig{Radius: 30, Mass: 300, Position: [3]float64{750, 450, 0}, Color: "white"},
			BodyConfig{Radius: 10, Mass: 2, Position: [3]float64{750, 300, 0}, Velocity: [3]float64{10, 0, 0}},
			BodyConfig{Radius: 10, Mass: 2, Position: [3]float64{900, 600, 0}, Velocity: [3]float64{-10, 0, 0}},
			BodyConfig{Radius: 10, Mass: 2, Position: [3]float64{600, 600, 0}, Velocity: [3]float64{-10, 0, 0}},
		),
	},
	"ring": {
		Name:        "ring",
		Description: "n light bodies at random angles on a circle, counter-rotating halves",
		Build:       ring,
	},
	"mp-two": {
		Name:        "mp-two",
		Description: "two equal masses in different z planes",
		Build: fixed(
			BodyConfig{Radius: 10, Mass: 10, Position: [3]float64{500, 450, 0}, Velocity: [3]float64{2, -0.75, 0}},
			BodyConfig{Radius: 10, Mass: 10, Position: [3]float64{1000, 450, -500}, Velocity: [3]float64{-2, 0.75, 0}},
		),
	},
	"mp-three": {
		Name:        "mp-three",
		Description: "three equal masses in different z planes",
		Build: fixed(
			BodyConfig{Radius: 10, Mass: 10, Position: [3]float64{750, 300, 250}, Velocity: [3]float64{2, -0.75, 0}},
			BodyConfig{Radius: 10, Mass: 10, Position: [3]float64{900, 600, 0}, Velocity: [3]float64{-2, 0.75, 0}},
			BodyConfig{Radius: 10, Mass: 10, Position: [3]float64{600, 600, -500}, Velocity: [3]float64{-2, 0.75, 0}},
		),
	},
}

// ring places n bodies of mass 2 on a circle of radius 100 about (750, 450).
// Bodies below the centre move left, the rest move right.
func ring(rng *rand.Rand, n int) []BodyConfig {
	const (
		cx, cy = 750.0, 450.0
		radius = 100.0
	)
	if n <= 0 {
		n = DefaultRingCount
	}

	out := make([]BodyConfig, n)
	for i := range out {
		angle := 2 * math.Pi * rng.Float64()
		x := math.Cos(angle)*radius + cx
		y := math.Sin(angle)*radius + cy

		vx := 3.0
		if y > cy {
			vx = -3
		}
		out[i] = BodyConfig{
			Radius:   10,
			Mass:     2,
			Position: [3]float64{x, y, 0},
			Velocity: [3]float64{vx, 0, 0},
		}
	}
	return out
}

func GetScenario(name string) (Scenario, bool) {
	sc, ok := Scenarios[name]
	return sc, ok
}

// ListScenarios returns scenario names in sorted order.
func ListScenarios() []string {
	names := make([]string, 0, len(Scenarios))
	for name := range Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package nbody

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// DepthScale controls how quickly the drawn radius shrinks as z grows.
// A body at z == DepthScale has zero drawn radius.
const DepthScale = 800.0

// Basic body colours.
var (
	Red     = colorful.Color{R: 1, G: 0, B: 0}
	Blue    = colorful.Color{R: 0, G: 0, B: 1}
	Green   = colorful.Color{R: 0, G: 1, B: 0}
	Magenta = colorful.Color{R: 1, G: 0, B: 1}
	Yellow  = colorful.Color{R: 1, G: 1, B: 0}
	White   = colorful.Color{R: 1, G: 1, B: 1}
)

// Palette is the set of colours picked from when a body has none.
var Palette = []colorful.Color{Red, Blue, Green, Magenta, Yellow}

// RandomColor picks a palette colour using rng.
func RandomColor(rng *rand.Rand) colorful.Color {
	return Palette[rng.Intn(len(Palette))]
}

// Physical is the state the force law reads and the integrator writes.
type Physical struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
}

// Display is render-only state. Offset accumulates every wrap correction
// applied so far so that screen motion stays continuous.
type Display struct {
	Radius float64
	Color  colorful.Color
	Offset mgl64.Vec3
}

// Body is a single point mass.
type Body struct {
	phys Physical
	disp Display
}

// NewBody validates mass and builds a body.
// The offset starts at (-radius, +radius, 0), mapping the stored centroid to
// the top-left corner of the drawn circle's bounding box.
func NewBody(radius, mass float64, position, velocity mgl64.Vec3, color colorful.Color) (Body, error) {
	if !(mass > 0) {
		return Body{}, fmt.Errorf("%w, got %v", ErrNonPositiveMass, mass)
	}
	return Body{
		phys: Physical{
			Position: position,
			Velocity: velocity,
			Mass:     mass,
		},
		disp: Display{
			Radius: radius,
			Color:  color,
			Offset: mgl64.Vec3{-radius, radius, 0},
		},
	}, nil
}

func (b *Body) Position() mgl64.Vec3 { return b.phys.Position }
func (b *Body) Velocity() mgl64.Vec3 { return b.phys.Velocity }
func (b *Body) Mass() float64        { return b.phys.Mass }

func (b *Body) Radius() float64       { return b.disp.Radius }
func (b *Body) Color() colorful.Color { return b.disp.Color }
func (b *Body) Offset() mgl64.Vec3    { return b.disp.Offset }
func (b *Body) Physical() Physical    { return b.phys }
func (b *Body) Display() Display      { return b.disp }

// Momentum returns m*v.
func (b *Body) Momentum() mgl64.Vec3 { return b.phys.Velocity.Mul(b.phys.Mass) }

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.phys.Mass * b.phys.Velocity.Dot(b.phys.Velocity)
}

// IsFinite reports whether position and velocity are free of NaN and Inf.
func (b *Body) IsFinite() bool {
	return finite(b.phys.Position) && finite(b.phys.Velocity)
}

// Density is m / (4/3·π·r). The volume term is linear in r.
func (b *Body) Density() float64 {
	return b.phys.Mass / (4.0 / 3.0 * math.Pi * b.disp.Radius)
}

// Accelerate applies velocity += a*dt. Non-finite inputs propagate.
func (b *Body) Accelerate(a mgl64.Vec3, dt float64) {
	b.phys.Velocity = b.phys.Velocity.Add(a.Mul(dt))
}

// UpdatePosition applies position += velocity*dt. Call it only after every
// body in the ensemble has been accelerated for the current tick.
func (b *Body) UpdatePosition(dt float64) {
	b.phys.Position = b.phys.Position.Add(b.phys.Velocity.Mul(dt))
}

// DisplayTransform maps the absolute position onto a width x height canvas.
//
// The returned radius shrinks with depth and is not clamped: a body deeper
// than DepthScale yields a negative radius, which renderers treat as
// invisible. Position is never touched; each wrap moves the display offset
// by a full canvas so later frames stay continuous.
//
// x is corrected twice so a jump of up to two canvas widths in one tick still
// lands on screen. y is corrected once.
func (b *Body) DisplayTransform(width, height float64) (x, y, r float64) {
	r = b.disp.Radius * (1 - b.phys.Position.Z()/DepthScale)

	x = b.phys.Position.X() + b.disp.Offset.X()
	y = b.phys.Position.Y() + b.disp.Offset.Y()

	x = b.wrap(x, width, 0)
	x = b.wrap(x, width, 0)
	y = b.wrap(y, height, 1)

	return x, y, r
}

// wrap applies one check-and-correct pass on a single axis.
func (b *Body) wrap(v, extent float64, axis int) float64 {
	switch {
	case v > extent:
		b.disp.Offset[axis] -= extent
		return v - extent
	case v < 0:
		b.disp.Offset[axis] += extent
		return v + extent
	}
	return v
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

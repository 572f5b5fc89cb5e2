package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/nbody"
)

func ringEnsemble(b *testing.B, n int) *nbody.Ensemble {
	b.Helper()
	bodies := make([]nbody.Body, n)
	for i := range bodies {
		angle := float64(i) * 2 * math.Pi / float64(n)
		pos := mgl64.Vec3{750 + 100*math.Cos(angle), 450 + 100*math.Sin(angle), 0}
		body, err := nbody.NewBody(10, 2, pos, mgl64.Vec3{}, nbody.Red)
		if err != nil {
			b.Fatal(err)
		}
		bodies[i] = body
	}
	ens, err := nbody.NewEnsemble(bodies, n)
	if err != nil {
		b.Fatal(err)
	}
	return ens
}

func benchmarkEuler(b *testing.B, n int) {
	integrator := NewEuler()
	ens := ringEnsemble(b, n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(ens, mgl64.Vec3{}, 1, 0.01)
	}
}

func BenchmarkEuler2(b *testing.B)   { benchmarkEuler(b, 2) }
func BenchmarkEuler30(b *testing.B)  { benchmarkEuler(b, 30) }
func BenchmarkEuler100(b *testing.B) { benchmarkEuler(b, 100) }

func BenchmarkNetForce(b *testing.B) {
	ens := ringEnsemble(b, 100)
	bodies := ens.Bodies()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = NetForce(bodies, i%len(bodies), mgl64.Vec3{}, 1)
	}
}

package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/nbody"
)

func pair(t *testing.T, sep float64, v mgl64.Vec3) *nbody.Ensemble {
	t.Helper()
	a, err := nbody.NewBody(1, 1, mgl64.Vec3{0, 0, 0}, v, nbody.Red)
	if err != nil {
		t.Fatal(err)
	}
	b, err := nbody.NewBody(1, 1, mgl64.Vec3{sep, 0, 0}, v.Mul(-1), nbody.Blue)
	if err != nil {
		t.Fatal(err)
	}
	ens, err := nbody.NewEnsemble([]nbody.Body{a, b}, nbody.DefaultMaxBodies)
	if err != nil {
		t.Fatal(err)
	}
	return ens
}

func TestTotalEnergy(t *testing.T) {
	ens := pair(t, math.E, mgl64.Vec3{})
	if got := TotalEnergy(ens, 1); math.Abs(got-1) > 1e-12 {
		t.Errorf("potential at r=e: got %f, want 1", got)
	}

	ens = pair(t, 1, mgl64.Vec3{2, 0, 0})
	// ln(1) = 0, KE = 2 * 0.5 * 1 * 4
	if got := TotalEnergy(ens, 1); math.Abs(got-4) > 1e-12 {
		t.Errorf("kinetic only: got %f, want 4", got)
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(1)
	ens := pair(t, 1, mgl64.Vec3{1, 0, 0})

	m.Observe(ens, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift after one sample, got %f", m.Value())
	}

	// KE goes from 1 to 4
	ens.At(0).Accelerate(mgl64.Vec3{1, 0, 0}, 1)
	ens.At(1).Accelerate(mgl64.Vec3{-1, 0, 0}, 1)
	m.Observe(ens, 1)
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected drift 3, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

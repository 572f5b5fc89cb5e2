package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/sim"
)

func sine(n, period int, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + 3*math.Sin(2*math.Pi*float64(i)/float64(period))
	}
	return out
}

func TestPowerSpectrumPeak(t *testing.T) {
	ps, err := PowerSpectrum(sine(200, 20, 50))
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 101 {
		t.Fatalf("expected 101 bins, got %d", len(ps))
	}
	if ps[0] > 1e-9 {
		t.Errorf("mean should be removed, DC bin is %v", ps[0])
	}
	for k, v := range ps {
		if k != 10 && v > ps[10] {
			t.Errorf("bin %d (%v) exceeds the signal bin (%v)", k, v, ps[10])
		}
	}
}

func TestDominantPeriod(t *testing.T) {
	period, ok, err := DominantPeriod(sine(200, 20, 0), 0.5)
	if err != nil || !ok {
		t.Fatalf("expected a period, got ok=%v err=%v", ok, err)
	}
	if math.Abs(period-10) > 1e-9 {
		t.Errorf("expected period 10, got %v", period)
	}

	// non power of two length
	period, ok, _ = DominantPeriod(sine(150, 15, 0), 1)
	if !ok || math.Abs(period-15) > 1e-9 {
		t.Errorf("expected period 15, got %v (ok=%v)", period, ok)
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	flat := make([]float64, 64)
	for i := range flat {
		flat[i] = 7
	}
	if _, ok, err := DominantPeriod(flat, 1); ok || err != nil {
		t.Errorf("flat series should have no period, got ok=%v err=%v", ok, err)
	}
}

func TestPowerSpectrumErrors(t *testing.T) {
	if _, err := PowerSpectrum([]float64{1, 2}); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	if _, err := PowerSpectrum([]float64{1, 2, math.NaN(), 4}); !errors.Is(err, ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", err)
	}
}

func TestSeries(t *testing.T) {
	frames := []sim.Frame{
		{Time: 0, Bodies: []sim.BodySample{{Position: mgl64.Vec3{1, 0, 0}}, {Position: mgl64.Vec3{5, 0, 0}}}},
		{Time: 2, Bodies: []sim.BodySample{{Position: mgl64.Vec3{2, 0, 0}}, {Position: mgl64.Vec3{6, 0, 0}}}},
	}
	xs := Series(frames, 1, func(b sim.BodySample) float64 { return b.Position.X() })
	if len(xs) != 2 || xs[0] != 5 || xs[1] != 6 {
		t.Errorf("unexpected series %v", xs)
	}
	if SampleInterval(frames) != 2 {
		t.Errorf("expected interval 2, got %v", SampleInterval(frames))
	}
	if SampleInterval(frames[:1]) != 0 {
		t.Error("expected zero interval for a single frame")
	}
}

func TestSeriesDropsOffGridFrame(t *testing.T) {
	// 10 ticks sampled every 3: 0, 3, 6, 9 and the final tick 10
	var frames []sim.Frame
	for _, tick := range []int{0, 3, 6, 9, 10} {
		frames = append(frames, sim.Frame{
			Tick:   tick,
			Time:   float64(tick),
			Bodies: []sim.BodySample{{Position: mgl64.Vec3{float64(tick), 0, 0}}},
		})
	}

	xs := Series(frames, 0, func(b sim.BodySample) float64 { return b.Position.X() })
	if len(xs) != 4 || xs[3] != 9 {
		t.Errorf("expected the off-grid final frame to be dropped, got %v", xs)
	}
	if len(OnGrid(frames[:4])) != 4 {
		t.Error("evenly spaced frames should be kept")
	}
	if SampleInterval(frames) != 3 {
		t.Errorf("expected interval 3, got %v", SampleInterval(frames))
	}
}

func TestDominantPeriodSampledRun(t *testing.T) {
	// period 40 ticks, sampled every 4 over 398 ticks: the last frame is off grid
	var frames []sim.Frame
	for tick := 0; tick <= 398; tick += 4 {
		frames = append(frames, sineFrame(tick))
	}
	frames = append(frames, sineFrame(398))

	xs := Series(frames, 0, func(b sim.BodySample) float64 { return b.Position.X() })
	period, ok, err := DominantPeriod(xs, SampleInterval(frames))
	if err != nil || !ok {
		t.Fatalf("expected a period, got ok=%v err=%v", ok, err)
	}
	if math.Abs(period-40) > 1e-9 {
		t.Errorf("expected period 40, got %v", period)
	}
}

func sineFrame(tick int) sim.Frame {
	x := math.Sin(2 * math.Pi * float64(tick) / 40)
	return sim.Frame{
		Tick:   tick,
		Time:   float64(tick),
		Bodies: []sim.BodySample{{Position: mgl64.Vec3{x, 0, 0}}},
	}
}

package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/orbitsim/internal/sim"
)

var (
	ErrTooShort  = errors.New("series too short")
	ErrNonFinite = errors.New("series contains non-finite samples")
)

// minSamples is the shortest series a spectrum is computed for.
const minSamples = 4

// PowerSpectrum returns the squared magnitude of the first half of the
// discrete Fourier transform of series, after removing its mean. Any
// length is accepted.
func PowerSpectrum(series []float64) ([]float64, error) {
	if len(series) < minSamples {
		return nil, ErrTooShort
	}

	mean := 0.0
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
		mean += v
	}
	mean /= float64(len(series))

	centred := make([]float64, len(series))
	for i, v := range series {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	ps := make([]float64, len(coeffs)/2+1)
	for i := range ps {
		a := cmplx.Abs(coeffs[i])
		ps[i] = a * a
	}
	return ps, nil
}

// DominantPeriod returns the period, in simulated time, of the strongest
// non-constant component of series sampled every dt. ok is false when the
// series is flat.
func DominantPeriod(series []float64, dt float64) (period float64, ok bool, err error) {
	ps, err := PowerSpectrum(series)
	if err != nil {
		return 0, false, err
	}

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] < 1e-12 {
		return 0, false, nil
	}
	return float64(len(series)) * dt / float64(peak), true, nil
}

// Series extracts one value per frame for a single body. A final frame
// recorded off the sampling grid is left out, so the samples stay evenly
// spaced.
func Series(frames []sim.Frame, body int, f func(sim.BodySample) float64) []float64 {
	frames = OnGrid(frames)
	out := make([]float64, 0, len(frames))
	for _, fr := range frames {
		if body < len(fr.Bodies) {
			out = append(out, f(fr.Bodies[body]))
		}
	}
	return out
}

// OnGrid drops the last frame when its tick spacing differs from the first
// pair's. The simulator always records the final tick, even when the run
// length is not a multiple of the sampling interval.
func OnGrid(frames []sim.Frame) []sim.Frame {
	n := len(frames)
	if n < 3 {
		return frames
	}
	step := frames[1].Tick - frames[0].Tick
	if frames[n-1].Tick-frames[n-2].Tick != step {
		return frames[:n-1]
	}
	return frames
}

// SampleInterval is the simulated time between consecutive frames.
func SampleInterval(frames []sim.Frame) float64 {
	if len(frames) < 2 {
		return 0
	}
	return frames[1].Time - frames[0].Time
}

// Package analysis looks for periodic motion in recorded runs.
//
// A body's coordinate, sampled once per frame, is transformed with an FFT
// and the strongest non-constant bin gives its dominant period:
//
//	xs := analysis.Series(frames, 0, func(b sim.BodySample) float64 { return b.Position.X() })
//	period, ok, err := analysis.DominantPeriod(xs, analysis.SampleInterval(frames))
//
// Bound orbits show a clear peak; a flat series reports no period.
package analysis

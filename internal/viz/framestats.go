package viz

import "time"

// FrameStats keeps a rolling average of frame durations over the last n
// frames and signals a report once every n frames.
type FrameStats struct {
	window []time.Duration
	next   int
	filled int
	total  time.Duration
	frames int
}

func NewFrameStats(n int) *FrameStats {
	if n < 1 {
		n = 1
	}
	return &FrameStats{window: make([]time.Duration, n)}
}

// Add records one frame. report is true on every n-th frame.
func (s *FrameStats) Add(d time.Duration) (avg time.Duration, report bool) {
	s.total -= s.window[s.next]
	s.window[s.next] = d
	s.total += d
	s.next = (s.next + 1) % len(s.window)
	if s.filled < len(s.window) {
		s.filled++
	}
	s.frames++

	return s.Average(), s.frames%len(s.window) == 0
}

func (s *FrameStats) Average() time.Duration {
	if s.filled == 0 {
		return 0
	}
	return s.total / time.Duration(s.filled)
}

// AverageMillis is Average in fractional milliseconds.
func (s *FrameStats) AverageMillis() float64 {
	return float64(s.Average()) / float64(time.Millisecond)
}

func (s *FrameStats) Frames() int { return s.frames }

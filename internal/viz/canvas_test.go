package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}

	c.Set(1, 3)
	if c.Grid[0][0] != 0x2881 {
		t.Errorf("expected dots 1 and 8, got %U", c.Grid[0][0])
	}

	c.Set(7, 7)
	if !c.IsSet(7, 7) || c.IsSet(6, 7) {
		t.Error("expected only (7, 7) set in the last cell")
	}

	c.Set(-1, 0)
	c.Set(8, 0)
	c.Set(0, 8)
	if strings.Count(c.String(), "\n") != 2 {
		t.Errorf("unexpected rows in %q", c.String())
	}

	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("expected blank canvas after clear, got %U", r)
			}
		}
	}
}

func TestCanvasDrawDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	red := colorful.Color{R: 1}
	c.DrawDisc(8, 8, 1, red)

	want := [][2]int{{8, 8}, {7, 8}, {9, 8}, {8, 7}, {8, 9}}
	for _, p := range want {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected (%d, %d) set", p[0], p[1])
		}
	}
	if c.IsSet(7, 7) || c.IsSet(9, 9) {
		t.Error("corners should stay clear at radius 1")
	}

	c.Clear()
	c.DrawDisc(3, 3, 0, red)
	if !c.IsSet(3, 3) {
		t.Error("sub-pixel disc should still draw its centre")
	}
}

func TestCanvasRenderKeepsGlyphs(t *testing.T) {
	c := NewCanvas(3, 1)
	c.SetColor(2, 0, colorful.Color{G: 1})

	out := c.Render()
	if !strings.ContainsRune(out, 0x2801) {
		t.Errorf("rendered canvas lost the dot: %q", out)
	}
	if !strings.ContainsRune(out, blank) {
		t.Errorf("rendered canvas lost the blank cells: %q", out)
	}
}

func TestFrameStats(t *testing.T) {
	s := NewFrameStats(3)

	durations := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}
	var avg time.Duration
	var report bool
	for i, d := range durations {
		avg, report = s.Add(d)
		if report != (i == 2) {
			t.Errorf("frame %d: report=%v", i, report)
		}
	}
	if avg != 20*time.Millisecond {
		t.Errorf("expected 20ms average, got %v", avg)
	}

	avg, report = s.Add(60 * time.Millisecond)
	if report {
		t.Error("should only report once per window")
	}
	if want := 110 * time.Millisecond / 3; avg != want {
		t.Errorf("expected rolling average %v, got %v", want, avg)
	}
	if s.AverageMillis() < 36.6 || s.AverageMillis() > 36.7 {
		t.Errorf("unexpected millis %v", s.AverageMillis())
	}
	if s.Frames() != 4 {
		t.Errorf("expected 4 frames, got %d", s.Frames())
	}
}

func TestFrameStatsEmpty(t *testing.T) {
	s := NewFrameStats(0)
	if s.Average() != 0 {
		t.Errorf("expected zero average, got %v", s.Average())
	}
	if _, report := s.Add(time.Millisecond); !report {
		t.Error("window of one should report every frame")
	}
}

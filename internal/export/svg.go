package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/sim"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

func colorOf(colors []colorful.Color, i int) string {
	if i < len(colors) {
		return colors[i].Clamped().Hex()
	}
	return "#ffffff"
}

// FrameToSVG draws every visible body of a frame as a filled circle on a
// width x height canvas. colors is indexed by body; missing entries are
// drawn white.
func FrameToSVG(frame sim.Frame, colors []colorful.Color, width, height float64) string {
	var sb strings.Builder
	header(&sb, width, height)

	for i, b := range frame.Bodies {
		if !b.Visible() {
			continue
		}
		cx, cy := b.Centre()
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, cx, cy, b.Radius, colorOf(colors, i)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the unwrapped x/y path of every body across frames,
// fitted to width x height with 10% padding. Non-finite samples break the
// path.
func TrajectoryToSVG(frames []sim.Frame, colors []colorful.Color, width, height int) string {
	if len(frames) < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, f := range frames {
		for _, b := range f.Bodies {
			x, y := b.Position.X(), b.Position.Y()
			if !finite(x) || !finite(y) {
				continue
			}
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	n := len(frames[0].Bodies)
	for body := 0; body < n; body++ {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, colorOf(colors, body)))

		move := true
		for _, f := range frames {
			if body >= len(f.Bodies) {
				continue
			}
			p := f.Bodies[body].Position
			if !finite(p.X()) || !finite(p.Y()) {
				move = true
				continue
			}
			// screen y grows downwards, as in the simulation canvas
			x := (p.X() - minX) / rangeX * float64(width)
			y := (p.Y() - minY) / rangeY * float64(height)

			if move {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				move = false
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}

		sb.WriteString(`"/>
`)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

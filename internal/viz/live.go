package viz

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 45
	historyCapacity = 600
	maxListed       = 8
)

var canvasStyle = lipgloss.NewStyle().Padding(1, 2)

type TickMsg time.Time

type Options struct {
	Title string
	// FPS is the tick rate; one simulation step is taken per frame.
	FPS int
	// FrameAverage is the frame timing window, logged once per window.
	FrameAverage int
	// Trail is the number of past positions drawn behind each body.
	Trail  int
	Theme  string
	Logger *log.Logger
}

type pixel struct{ x, y int }

// Model steps an ensemble once per frame and draws every body at its
// display transform, scaled from the simulation canvas to the terminal.
type Model struct {
	ens, initial *nbody.Ensemble
	stepper      sim.Stepper
	cfg          sim.Config

	tick   int
	t      float64
	p0     mgl64.Vec3
	screen []sim.BodySample
	colors []colorful.Color

	canvas   *Canvas
	trails   [][]pixel
	trailLen int
	drift    []float64

	running   bool
	done      bool
	warned    bool
	showHelp  bool
	title     string
	fps       int
	theme     Theme
	stats     *FrameStats
	lastFrame time.Time
	logger    *log.Logger
}

// NewModel takes ownership of ens. cfg.Ticks > 0 stops stepping after that
// many ticks; otherwise the view runs until quit.
func NewModel(ens *nbody.Ensemble, stepper sim.Stepper, cfg sim.Config, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := Model{
		ens:      ens,
		initial:  ens.Clone(),
		stepper:  stepper,
		cfg:      cfg,
		screen:   make([]sim.BodySample, ens.Len()),
		colors:   make([]colorful.Color, ens.Len()),
		canvas:   NewCanvas(width, height),
		trails:   make([][]pixel, ens.Len()),
		trailLen: opts.Trail,
		drift:    make([]float64, 0, historyCapacity),
		running:  true,
		title:    opts.Title,
		fps:      opts.FPS,
		theme:    GetTheme(opts.Theme),
		stats:    NewFrameStats(opts.FrameAverage),
		logger:   opts.Logger,
	}
	for i := range m.colors {
		m.colors[i] = ens.At(i).Color()
	}
	m.p0 = ens.TotalMomentum()
	m.project()
	m.draw()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.nextFrame()
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running && !m.done {
				m.step()
				m.draw()
			}
		case "r":
			m.reset()
		case "t":
			m.theme = m.theme.next()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		m.timeFrame(time.Time(msg))
		if m.running && !m.done {
			m.step()
			m.draw()
		}
		return m, m.nextFrame()
	}
	return m, nil
}

// step advances the ensemble one tick and evaluates every display
// transform exactly once, so wrap offsets track the motion.
func (m *Model) step() {
	m.stepper.Step(m.ens, m.cfg.GlobalForce, m.cfg.G, m.cfg.Dt)
	m.tick++
	m.t += m.cfg.Dt
	m.project()

	d := m.ens.TotalMomentum().Sub(m.p0).Len()
	if math.IsInf(d, 0) {
		d = math.NaN()
	}
	m.drift = append(m.drift, d)
	if len(m.drift) > historyCapacity {
		m.drift = m.drift[1:]
	}

	if !m.warned && !m.ens.IsFinite() {
		m.warned = true
		m.logger.Warn("ensemble went non-finite", "tick", m.tick)
	}
	if m.cfg.Ticks > 0 && m.tick >= m.cfg.Ticks {
		m.done = true
		m.logger.Info("run complete", "ticks", m.tick)
	}
}

func (m *Model) project() {
	for i := 0; i < m.ens.Len(); i++ {
		b := m.ens.At(i)
		x, y, r := b.DisplayTransform(m.cfg.Canvas.Width, m.cfg.Canvas.Height)
		m.screen[i] = sim.BodySample{
			Position: b.Position(),
			Velocity: b.Velocity(),
			ScreenX:  x,
			ScreenY:  y,
			Radius:   r,
		}
	}
}

// draw rasterises the last projection. Bodies with a non-positive radius,
// i.e. at or beyond the depth scale, are not drawn.
func (m *Model) draw() {
	m.canvas.Clear()
	sx, sy := m.scale()

	for i, b := range m.screen {
		if !b.Visible() {
			continue
		}
		cx, cy := b.Centre()
		p := pixel{int(cx * sx), int(cy * sy)}

		if m.trailLen > 0 {
			m.trails[i] = append(m.trails[i], p)
			if len(m.trails[i]) > m.trailLen {
				m.trails[i] = m.trails[i][1:]
			}
			faded := m.colors[i].BlendRgb(colorful.Color{}, 0.6)
			for _, tp := range m.trails[i] {
				m.canvas.SetColor(tp.x, tp.y, faded)
			}
		}

		m.canvas.DrawDisc(p.x, p.y, int(b.Radius*sx), m.colors[i])
	}
}

// scale maps simulation canvas units to sub-pixels.
func (m *Model) scale() (float64, float64) {
	pw, ph := m.canvas.Pixels()
	return float64(pw) / m.cfg.Canvas.Width, float64(ph) / m.cfg.Canvas.Height
}

func (m *Model) resize(w, h int) {
	cols := w - statsWidth - 6
	rows := h - 3
	if cols < 20 {
		cols = 20
	}
	if rows < 8 {
		rows = 8
	}
	m.canvas = NewCanvas(cols, rows)
	m.trails = make([][]pixel, m.ens.Len())
	m.draw()
}

// reset restores the initial ensemble.
func (m *Model) reset() {
	m.ens = m.initial.Clone()
	m.tick, m.t = 0, 0
	m.done, m.warned = false, false
	m.drift = m.drift[:0]
	m.trails = make([][]pixel, m.ens.Len())
	m.project()
	m.draw()
}

func (m *Model) timeFrame(now time.Time) {
	if !m.lastFrame.IsZero() {
		if _, report := m.stats.Add(now.Sub(m.lastFrame)); report {
			m.logger.Debug("frame timing", "avg_ms", m.stats.AverageMillis(), "frames", m.stats.Frames())
		}
	}
	m.lastFrame = now
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.theme.styles()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")

	switch {
	case m.done:
		s.WriteString(st.paused.Render("DONE") + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.drift) > 1 {
		chart := asciigraph.Plot(m.drift, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("momentum drift"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.tick))
	row("Time", fmt.Sprintf("%.2f", m.t))
	row("Energy", fmt.Sprintf("%.4g", metrics.TotalEnergy(m.ens, m.cfg.G)))
	row("Frame", fmt.Sprintf("%.2f ms", m.stats.AverageMillis()))

	s.WriteString("\nBODIES\n")
	for i := 0; i < m.ens.Len() && i < maxListed; i++ {
		b := m.ens.At(i)
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors[i].Clamped().Hex())).Render("●")
		line := fmt.Sprintf("%2d m=%-6.3g r=%-6.3g", i, b.Mass(), m.screen[i].Radius)
		s.WriteString(dot + " " + st.item.Render(line) + "\n")
	}
	if n := m.ens.Len() - maxListed; n > 0 {
		s.WriteString(st.item.Render(fmt.Sprintf("  +%d more", n)) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause .:Step R:Reset\nT:Theme ?:Help Q:Quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.Render()), st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

const helpText = `
  Space  pause / resume
  .      single step while paused
  R      reset to the initial bodies
  T      cycle themes
  ?      toggle this help
  Q      quit
`

// Tick returns the number of steps taken since the last reset.
func (m Model) Tick() int { return m.tick }

// Screen returns the last display transform of every body.
func (m Model) Screen() []sim.BodySample { return m.screen }

// Run starts a full-screen program for m.
func Run(m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

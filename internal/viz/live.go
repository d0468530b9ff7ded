package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/joephys/joephys/internal/config"
	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/metrics"
	"github.com/joephys/joephys/internal/particles"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameRate       = 60

	// world units per key press
	nudge = 25.0
	// spawn rate multiplier per key press
	rateStep = 1.25
	// boundary extent multiplier per key press
	sizeStep = 1.1
	// the view shows this much more than the boundary
	viewMargin = 1.4
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a particle manager from bubbletea ticks and renders it as
// braille art next to a stats panel.
type Model struct {
	cfg   *config.Config
	clock dynamo.Clock
	mgr   *particles.Manager

	width, height int
	canvas        *Canvas
	substeps      int

	running  bool
	showHelp bool
	theme    int
	err      error

	countHistory  []float64
	energyHistory []float64
}

// NewModel builds the live view for cfg. The spawner reads clk.
func NewModel(cfg *config.Config, clk dynamo.Clock) (Model, error) {
	m := Model{
		cfg:      cfg,
		clock:    clk,
		width:    width,
		height:   height,
		canvas:   NewCanvas(width, height),
		running:  true,
		substeps: substepsFor(cfg.SimulationHertz),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// substepsFor spreads the simulation rate over the frame rate.
func substepsFor(hertz int) int {
	n := int(math.Round(float64(hertz) / frameRate))
	if n < 1 {
		return 1
	}
	return n
}

// SetTheme selects a theme by name.
func (m *Model) SetTheme(name string) { m.theme = themeIndex(name) }

func (m Model) Theme() Theme                { return Themes[m.theme] }
func (m Model) Manager() *particles.Manager { return m.mgr }
func (m Model) Running() bool               { return m.running }
func (m Model) Err() error                  { return m.err }

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		case "+", "=":
			m.scaleRate(rateStep)
		case "-", "_":
			m.scaleRate(1 / rateStep)
		case "0":
			m.mgr.Spawner().SetRate(0)
		case "up":
			m.moveSpawner(dynamo.V(0, nudge))
		case "down":
			m.moveSpawner(dynamo.V(0, -nudge))
		case "left":
			m.moveSpawner(dynamo.V(-nudge, 0))
		case "right":
			m.moveSpawner(dynamo.V(nudge, 0))
		case "w":
			m.moveBoundary(dynamo.V(0, nudge))
		case "s":
			m.moveBoundary(dynamo.V(0, -nudge))
		case "a":
			m.moveBoundary(dynamo.V(-nudge, 0))
		case "d":
			m.moveBoundary(dynamo.V(nudge, 0))
		case "]":
			m.resizeBoundary(sizeStep)
		case "[":
			m.resizeBoundary(1 / sizeStep)
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			for i := 0; i < m.substeps && m.running; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances the simulation by one fixed tick and records history. A
// non-finite particle pauses the view.
func (m *Model) step() {
	m.mgr.Update()
	if err := m.mgr.CheckState(); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.countHistory = appendCapped(m.countHistory, float64(m.mgr.Len()))
	m.energyHistory = appendCapped(m.energyHistory, metrics.Total(m.mgr))
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset rebuilds the manager from the configuration, dropping every particle
// along with the old manager.
func (m *Model) reset() error {
	mgr, err := particles.NewManager(m.cfg.Settings(), m.clock)
	if err != nil {
		return err
	}
	m.mgr = mgr
	m.err = nil
	m.countHistory = m.countHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	return nil
}

func (m *Model) scaleRate(f float64) {
	sp := m.mgr.Spawner()
	rate := sp.Rate()
	if !sp.Enabled() {
		rate = particles.DefaultSpawnRate / f
	}
	sp.SetRate(rate * f)
}

func (m *Model) moveSpawner(d dynamo.Vec2) {
	sp := m.mgr.Spawner()
	sp.SetPosition(sp.Position().Add(d))
}

func (m *Model) moveBoundary(d dynamo.Vec2) {
	b := m.mgr.Constraint()
	m.err = m.mgr.SetConstraint(b.Center.Add(d), b.Width, b.Height)
}

func (m *Model) resizeBoundary(f float64) {
	b := m.mgr.Constraint()
	m.err = m.mgr.SetConstraint(b.Center, b.Width*f, b.Height*f)
}

// resize fits the canvas to the terminal, leaving room for the stats panel.
func (m *Model) resize(w, h int) {
	cw, ch := w-50, h-4
	if cw < 20 {
		cw = 20
	}
	if ch < 10 {
		ch = 10
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

func (m *Model) draw() {
	m.canvas.Clear()
	b := m.mgr.Constraint()
	vp := NewViewport(FitView(b, viewMargin), m.canvas.PixelWidth(), m.canvas.PixelHeight())
	DrawScene(m.canvas, vp, b, m.mgr.Circles())
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.Theme().styles()
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render("PARTICLES") + "\n")
	if m.running {
		s.WriteString(st.status.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.countHistory) > 1 {
		chart := asciigraph.Plot(m.countHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Particles"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	stats := m.mgr.Stats()
	sp := m.mgr.Spawner()
	b := m.mgr.Constraint()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.mgr.Time()))
	row("Particles", fmt.Sprintf("%d", m.mgr.Len()))
	row("Bounces", fmt.Sprintf("%d", stats.Bounces))
	if sp.Enabled() {
		row("Spawn", fmt.Sprintf("%.2f/s at %s", sp.Rate(), sp.Position()))
	} else {
		row("Spawn", "off")
	}
	row("Boundary", fmt.Sprintf("%gx%g at %s", b.Width, b.Height, b.Center))
	if m.mgr.LegacyRightWall() {
		row("Walls", "legacy right wall")
	}
	row("Theme", m.Theme().Name)

	if limit := m.cfg.Run.WarnParticles; limit > 0 && m.mgr.Len() > limit {
		s.WriteString(st.warn.Render(fmt.Sprintf("\nover %d particles, steps will slow down", limit)) + "\n")
	}
	if m.err != nil {
		s.WriteString(st.warn.Render("\n"+m.err.Error()) + "\n")
	}

	s.WriteString(st.help.Render("\nSP:Pause .:Step R:Reset Q:Quit\nT:Theme ?:Help +/-:Rate"))
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  .        - Single step when paused  ║
║  R        - Reset simulation         ║
║  Q/Esc    - Quit                     ║
║  + / -    - Spawn rate up/down       ║
║  0        - Stop spawning            ║
║  Arrows   - Move spawner             ║
║  W/A/S/D  - Move boundary            ║
║  [ / ]    - Shrink/grow boundary     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`


package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joephys/joephys/internal/clock"
	"github.com/joephys/joephys/internal/config"
	"github.com/joephys/joephys/internal/dynamo"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(config.DefaultConfig(), clock.NewManual(10))
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubstepsFor(t *testing.T) {
	tests := []struct {
		hertz int
		want  int
	}{
		{120, 2},
		{60, 1},
		{30, 1},
		{240, 4},
		{0, 1},
	}
	for _, tt := range tests {
		if got := substepsFor(tt.hertz); got != tt.want {
			t.Errorf("substepsFor(%d) = %d, want %d", tt.hertz, got, tt.want)
		}
	}
}

func TestModel_TickSteps(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg{})

	stats := m.Manager().Stats()
	if stats.Steps != 2 {
		t.Errorf("steps = %d, want 2", stats.Steps)
	}
	// the clock did not move, so only the first step spawns
	if m.Manager().Len() != 1 {
		t.Errorf("particles = %d, want 1", m.Manager().Len())
	}
	if len(m.countHistory) != 2 || len(m.energyHistory) != 2 {
		t.Errorf("history lengths = %d/%d, want 2/2", len(m.countHistory), len(m.energyHistory))
	}
}

func TestModel_PauseAndStep(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}

	m = send(m, TickMsg{})
	if got := m.Manager().Stats().Steps; got != 0 {
		t.Errorf("paused tick stepped %d times", got)
	}

	m = send(m, key("."))
	if got := m.Manager().Stats().Steps; got != 1 {
		t.Errorf("single step = %d steps, want 1", got)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show paused status")
	}
}

func TestModel_Reset(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg{})
	old := m.Manager()

	m = send(m, key("r"))
	if m.Manager() == old {
		t.Error("reset should build a new manager")
	}
	if m.Manager().Len() != 0 || len(m.countHistory) != 0 {
		t.Error("reset should start empty")
	}
}

func TestModel_SpawnRateKeys(t *testing.T) {
	m := newTestModel(t)
	sp := m.Manager().Spawner()

	m = send(m, key("+"))
	if sp.Rate() != 3*rateStep {
		t.Errorf("rate = %v, want %v", sp.Rate(), 3*rateStep)
	}
	m = send(m, key("0"))
	if sp.Enabled() {
		t.Error("0 should stop spawning")
	}
	send(m, key("+"))
	if sp.Rate() != 3 {
		t.Errorf("rate after re-enable = %v, want 3", sp.Rate())
	}
}

func TestModel_MoveSpawner(t *testing.T) {
	m := newTestModel(t)
	start := m.Manager().Spawner().Position()

	for _, k := range []string{"up", "up", "left"} {
		m = send(m, key(k))
	}
	want := start.Add(dynamo.V(-nudge, 2*nudge))
	if got := m.Manager().Spawner().Position(); !got.Equal(want) {
		t.Errorf("spawner = %v, want %v", got, want)
	}
}

func TestModel_BoundaryKeys(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("d"))
	m = send(m, key("w"))

	b := m.Manager().Constraint()
	if !b.Center.Equal(dynamo.V(nudge, nudge)) {
		t.Errorf("center = %v, want (%v, %v)", b.Center, nudge, nudge)
	}

	m = send(m, key("]"))
	if got := m.Manager().Constraint().Width; got != 1000*sizeStep {
		t.Errorf("width = %v, want %v", got, 1000*sizeStep)
	}
	if m.Err() != nil {
		t.Errorf("unexpected error: %v", m.Err())
	}
}

func TestModel_ViewFollowsBoundary(t *testing.T) {
	m := newTestModel(t)
	for range 3 {
		m = send(m, key("d"))
	}
	for range 5 {
		m = send(m, key("]"))
	}
	m.View()

	b := m.Manager().Constraint()
	pw, ph := m.canvas.PixelWidth(), m.canvas.PixelHeight()
	vp := NewViewport(FitView(b, viewMargin), pw, ph)
	for _, corner := range []dynamo.Vec2{
		dynamo.V(b.Left(), b.Top()),
		dynamo.V(b.Right(), b.Bottom()),
	} {
		x, y := vp.Project(corner)
		if x < 0 || y < 0 || x > pw || y > ph {
			t.Errorf("corner %v projects to (%d,%d), outside %dx%d", corner, x, y, pw, ph)
		}
	}
	x0, y0 := vp.Project(dynamo.V(b.Left(), b.Top()))
	if !m.canvas.IsSet(x0, y0) {
		t.Errorf("boundary corner (%d,%d) not drawn", x0, y0)
	}
}

func TestModel_ViewLegacyWalls(t *testing.T) {
	cfg, err := config.LoadPreset("legacy")
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	m, err := NewModel(cfg, clock.NewManual(0))
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if !strings.Contains(m.View(), "legacy right wall") {
		t.Error("view should flag the legacy right wall")
	}
	if strings.Contains(newTestModel(t).View(), "legacy right wall") {
		t.Error("default view should not flag the legacy right wall")
	}
}

func TestModel_ThemeCycle(t *testing.T) {
	m := newTestModel(t)
	first := m.Theme().Name
	m = send(m, key("t"))
	if m.Theme().Name == first {
		t.Error("t should switch theme")
	}

	m.SetTheme("coral")
	if m.Theme().Name != "coral" {
		t.Errorf("theme = %s, want coral", m.Theme().Name)
	}
	m.SetTheme("nope")
	if m.Theme().Name != Themes[0].Name {
		t.Errorf("unknown theme should fall back to %s", Themes[0].Name)
	}
}

func TestModel_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Constraint.Width = 0

	_, err := NewModel(cfg, clock.NewManual(0))
	if !errors.Is(err, dynamo.ErrDegenerateConstraint) {
		t.Errorf("err = %v, want ErrDegenerateConstraint", err)
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = send(m, TickMsg{})

	out := m.View()
	for _, want := range []string{"PARTICLES", "RUNNING", "Particles", "Boundary"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if m.canvas.Width != 70 || m.canvas.Height != 36 {
		t.Errorf("canvas = %dx%d, want 70x36", m.canvas.Width, m.canvas.Height)
	}
}

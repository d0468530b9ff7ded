package gui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/joephys/joephys/internal/clock"
	"github.com/joephys/joephys/internal/config"
	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/particles"
	"github.com/joephys/joephys/internal/sim"
	"github.com/joephys/joephys/internal/viz"
)

const (
	// world units per frame while a key is held
	moveSpeed = 2.5
	// keep the boundary in view with some room around it
	viewMargin = 1.1
	// frames longer than this many steps drop the backlog
	maxStepsPerFrame = 8
)

var (
	ColBg      = colour(dynamo.RGBA(0.92, 0.28, 0.37, 1))
	ColWall    = rl.NewColor(255, 255, 255, 220)
	ColText    = rl.NewColor(255, 255, 255, 255)
	ColTextDim = rl.NewColor(255, 255, 255, 140)
)

func colour(c dynamo.Colour) rl.Color {
	r, g, b, a := c.Bytes()
	return rl.NewColor(r, g, b, a)
}

// App is the desktop window: it steps a particle manager at its fixed rate
// and draws the boundary and circles every frame.
type App struct {
	cfg     *config.Config
	clock   dynamo.Clock
	logger  *log.Logger
	mgr     *particles.Manager
	acc     *sim.Accumulator
	running bool
}

// NewApp builds the simulation from cfg. It does not open a window.
func NewApp(cfg *config.Config, logger *log.Logger) (*App, error) {
	a := &App{
		cfg:     cfg,
		clock:   clock.NewMonotonic(),
		logger:  logger,
		running: true,
	}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) reset() error {
	mgr, err := particles.NewManager(a.cfg.Settings(), a.clock)
	if err != nil {
		return err
	}
	a.mgr = mgr
	a.acc = sim.NewAccumulator(mgr.Timestep(), maxStepsPerFrame)
	return nil
}

// Run opens the window and blocks until it is closed with Escape or the
// window's close button.
func (a *App) Run() {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(a.cfg.Window.Width), int32(a.cfg.Window.Height), a.cfg.Window.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	a.logger.Info("window opened", "width", a.cfg.Window.Width, "height", a.cfg.Window.Height)
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
	stats := a.mgr.Stats()
	a.logger.Info("window closed", "steps", stats.Steps, "particles", a.mgr.Len(), "bounces", stats.Bounces)
}

func (a *App) Update() {
	a.handleInput()
	if !a.running {
		return
	}
	for n := a.acc.Advance(float64(rl.GetFrameTime())); n > 0; n-- {
		a.mgr.Update()
	}
	if err := a.mgr.CheckState(); err != nil {
		a.logger.Error("simulation stopped", "err", err, "time", a.mgr.Time())
		a.running = false
	}
}

func (a *App) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
		a.acc.Reset()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.reset(); err != nil {
			a.logger.Error("reset failed", "err", err)
		}
		a.running = true
	}

	b := a.mgr.Constraint()
	center, w, h := b.Center, b.Width, b.Height
	if rl.IsKeyDown(rl.KeyW) {
		center.Y += moveSpeed
	}
	if rl.IsKeyDown(rl.KeyS) {
		center.Y -= moveSpeed
	}
	if rl.IsKeyDown(rl.KeyA) {
		center.X -= moveSpeed
	}
	if rl.IsKeyDown(rl.KeyD) {
		center.X += moveSpeed
	}
	if rl.IsKeyDown(rl.KeyUp) {
		h += 2 * moveSpeed
	}
	if rl.IsKeyDown(rl.KeyDown) {
		h -= 2 * moveSpeed
	}
	if rl.IsKeyDown(rl.KeyRight) {
		w += 2 * moveSpeed
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		w -= 2 * moveSpeed
	}
	if center.Equal(b.Center) && w == b.Width && h == b.Height {
		return
	}
	if err := a.mgr.SetConstraint(center, w, h); err != nil {
		a.logger.Debug("boundary unchanged", "err", err)
	}
}

// viewport fits the current boundary into the current window size.
func (a *App) viewport() viz.Viewport {
	view := viz.FitView(a.mgr.Constraint(), viewMargin)
	return viz.NewViewport(view, rl.GetScreenWidth(), rl.GetScreenHeight())
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	vp := a.viewport()
	a.drawBoundary(vp)
	a.drawCircles(vp)
	a.drawHUD()

	rl.EndDrawing()
}

func (a *App) drawBoundary(vp viz.Viewport) {
	b := a.mgr.Constraint()
	x0, y0 := vp.ProjectF(dynamo.V(b.Left(), b.Top()))
	x1, y1 := vp.ProjectF(dynamo.V(b.Right(), b.Bottom()))
	rect := rl.NewRectangle(float32(x0), float32(y0), float32(x1-x0), float32(y1-y0))
	rl.DrawRectangleLinesEx(rect, 3, ColWall)
}

func (a *App) drawCircles(vp viz.Viewport) {
	circles := a.mgr.Circles()
	sort.SliceStable(circles, func(i, j int) bool { return circles[i].Layer < circles[j].Layer })
	for _, c := range circles {
		x, y := vp.ProjectF(c.Position)
		rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(vp.Length(c.Radius)), colour(c.Colour))
	}
}

func (a *App) drawHUD() {
	stats := a.mgr.Stats()
	rl.DrawText(fmt.Sprintf("%d particles  %.1fs  %d bounces", a.mgr.Len(), a.mgr.Time(), stats.Bounces), 20, 20, 20, ColText)

	status := "RUNNING"
	col := ColText
	if !a.running {
		status = "PAUSED"
		col = ColTextDim
	}
	rl.DrawText(status, int32(rl.GetScreenWidth())-120, 20, 20, col)
	rl.DrawText(fmt.Sprintf("%d FPS   [SPACE] PAUSE  [R] RESET  [ESC] QUIT", rl.GetFPS()), 20, int32(rl.GetScreenHeight())-30, 14, ColTextDim)
}

package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/joephys/joephys/internal/clock"
	"github.com/joephys/joephys/internal/config"
	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/metrics"
	"github.com/joephys/joephys/internal/particles"
)

// Long runs grow the frame slice on demand past this many entries.
const maxPreallocFrames = 4096

// ticker is implemented by clocks that advance once per simulation step.
type ticker interface {
	Tick()
}

// Runner drives a Manager for a fixed number of ticks.
type Runner struct {
	mgr       *particles.Manager
	clock     dynamo.Clock
	metrics   []metrics.Metric
	observers []Observer
	logger    *log.Logger
}

func New(mgr *particles.Manager, clk dynamo.Clock) *Runner {
	return &Runner{
		mgr:       mgr,
		clock:     clk,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.Default(),
	}
}

// FromConfig builds the manager, clock and default metrics for cfg. Realtime
// runs spawn against the monotonic wall clock; other runs use a clock that
// advances by exactly one timestep per tick.
func FromConfig(cfg *config.Config) (*Runner, Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Config{}, err
	}

	var clk dynamo.Clock
	if cfg.Run.Realtime {
		clk = clock.NewMonotonic()
	} else {
		clk = clock.NewStepped(1 / float64(cfg.SimulationHertz))
	}

	mgr, err := particles.NewManager(cfg.Settings(), clk)
	if err != nil {
		return nil, Config{}, err
	}

	r := New(mgr, clk)
	for _, m := range metrics.Default() {
		r.AddMetric(m)
	}
	runCfg := Config{
		Duration:      cfg.Run.Duration,
		Realtime:      cfg.Run.Realtime,
		SnapshotEvery: cfg.Run.SnapshotEvery,
		WarnParticles: cfg.Run.WarnParticles,
	}
	return r, runCfg, nil
}

func (r *Runner) AddMetric(m metrics.Metric)  { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)      { r.observers = append(r.observers, o) }
func (r *Runner) SetLogger(l *log.Logger)     { r.logger = l }
func (r *Runner) Manager() *particles.Manager { return r.mgr }

// Run ticks the manager Duration*Hertz times. Cancellation is checked
// between ticks; the partial result is returned with the context error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	steps, err := r.validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	dt := r.mgr.Timestep()
	frames := 0
	if cfg.SnapshotEvery > 0 {
		frames = min(steps/cfg.SnapshotEvery+1, maxPreallocFrames)
	}
	result := &Result{
		Frames:  make([]Frame, 0, frames),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	var pace *time.Ticker
	if cfg.Realtime {
		pace = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer pace.Stop()
	}

	r.logger.Debug("run starting", "steps", steps, "dt", dt, "realtime", cfg.Realtime)
	start := time.Now()
	spawned := r.mgr.Stats().Spawned
	warned := false

	for i := 0; i < steps; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return r.finish(result, start, spawned), ctx.Err()
			case <-pace.C:
			}
		} else {
			select {
			case <-ctx.Done():
				return r.finish(result, start, spawned), ctx.Err()
			default:
			}
		}

		if t, ok := r.clock.(ticker); ok {
			t.Tick()
		}
		r.mgr.Update()
		result.StepsTaken++

		if err := r.mgr.CheckState(); err != nil {
			r.finish(result, start, spawned)
			return result, &dynamo.StepError{Step: i, Time: r.mgr.Time(), Wrapped: err}
		}

		for _, m := range r.metrics {
			m.Observe(r.mgr)
		}
		for _, obs := range r.observers {
			obs.OnStep(r.mgr)
		}

		if cfg.SnapshotEvery > 0 && (i+1)%cfg.SnapshotEvery == 0 {
			result.Frames = append(result.Frames, Snapshot(r.mgr))
		}

		if !warned && cfg.WarnParticles > 0 && r.mgr.Len() > cfg.WarnParticles {
			r.logger.Warn("particle count exceeds soft limit; particles are never removed",
				"particles", r.mgr.Len(), "limit", cfg.WarnParticles)
			warned = true
		}
	}

	r.finish(result, start, spawned)
	r.logger.Debug("run finished", "steps", result.StepsTaken, "particles", r.mgr.Len(), "elapsed", result.Elapsed)
	return result, nil
}

func (r *Runner) finish(result *Result, start time.Time, spawnedBefore int) *Result {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Spawned = r.mgr.Stats().Spawned - spawnedBefore
	result.Final = r.mgr.Circles()
	result.Elapsed = time.Since(start)
	return result
}

// validateConfig returns the number of ticks cfg asks for.
func (r *Runner) validateConfig(cfg Config) (int, error) {
	steps, err := dynamo.Steps(cfg.Duration, r.mgr.Timestep())
	if err != nil {
		return 0, err
	}
	if cfg.SnapshotEvery < 0 {
		return 0, fmt.Errorf("snapshot interval must not be negative, got %d", cfg.SnapshotEvery)
	}
	return steps, nil
}

// Snapshot summarises the manager's current state.
func Snapshot(m *particles.Manager) Frame {
	return Frame{
		Step:      m.Stats().Steps,
		Time:      m.Time(),
		Particles: m.Len(),
		Kinetic:   metrics.Kinetic(m),
		Potential: metrics.Potential(m),
		Bounces:   m.Stats().Bounces,
	}
}

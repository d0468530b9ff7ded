package sim

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/joephys/joephys/internal/clock"
	"github.com/joephys/joephys/internal/config"
	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/metrics"
	"github.com/joephys/joephys/internal/particles"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newRunner(t *testing.T, cfg *config.Config) (*Runner, Config) {
	t.Helper()
	r, runCfg, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	r.SetLogger(quietLogger())
	return r, runCfg
}

func TestRunnerRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Duration = 2
	cfg.Run.SnapshotEvery = 12
	r, runCfg := newRunner(t, cfg)

	result, err := r.Run(context.Background(), runCfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 240 {
		t.Errorf("expected 240 steps, got %d", result.StepsTaken)
	}
	if len(result.Frames) != 20 {
		t.Errorf("expected 20 frames, got %d", len(result.Frames))
	}
	if result.Spawned < 5 || result.Spawned > 7 {
		t.Errorf("expected ~6 spawns in 2s at 3/s, got %d", result.Spawned)
	}
	if len(result.Final) != r.Manager().Len() {
		t.Errorf("final snapshot has %d circles, manager has %d", len(result.Final), r.Manager().Len())
	}
	for _, name := range []string{"energy", "energy_drift", "max_speed", "particles", "bounces"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s not found in result", name)
		}
	}

	last := result.Frames[len(result.Frames)-1]
	if math.Abs(last.Time-2) > 1e-9 || last.Step != 240 {
		t.Errorf("last frame at step %d t=%f, want 240 / 2s", last.Step, last.Time)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	r, _ := newRunner(t, config.DefaultConfig())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero duration", Config{Duration: 0}},
		{"negative duration", Config{Duration: -1}},
		{"NaN duration", Config{Duration: math.NaN()}},
		{"infinite duration", Config{Duration: math.Inf(1)}},
		{"step count overflows int", Config{Duration: 1e300}},
		{"negative snapshot", Config{Duration: 1, SnapshotEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRunnerLongRunDoesNotPreallocate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Duration = 1e12
	cfg.Run.SnapshotEvery = 1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("long duration should validate: %v", err)
	}
	r, runCfg := newRunner(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, runCfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 || len(result.Frames) != 0 {
		t.Errorf("cancelled run took %d steps, %d frames", result.StepsTaken, len(result.Frames))
	}
	if cap(result.Frames) > maxPreallocFrames {
		t.Errorf("frame capacity %d exceeds %d", cap(result.Frames), maxPreallocFrames)
	}
}

func TestFromConfigRejectsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Constraint.Height = 0
	if _, _, err := FromConfig(cfg); !errors.Is(err, dynamo.ErrDegenerateConstraint) {
		t.Errorf("expected ErrDegenerateConstraint, got %v", err)
	}
}

func TestRunnerCancel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Duration = 100
	r, runCfg := newRunner(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	r.AddObserver(ObserverFunc(func(m *particles.Manager) {
		calls++
		if calls == 10 {
			cancel()
		}
	}))

	result, err := r.Run(ctx, runCfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 10 {
		t.Errorf("expected partial result with 10 steps, got %+v", result)
	}
}

func TestRunnerObserversAndMetrics(t *testing.T) {
	clk := clock.NewStepped(0.01)
	s := particles.DefaultSettings()
	s.Hertz = 100
	mgr, err := particles.NewManager(s, clk)
	if err != nil {
		t.Fatal(err)
	}
	r := New(mgr, clk)
	r.SetLogger(quietLogger())

	count := metrics.NewParticleCount()
	r.AddMetric(count)
	steps := 0
	r.AddObserver(ObserverFunc(func(*particles.Manager) { steps++ }))

	result, err := r.Run(context.Background(), Config{Duration: 1})
	if err != nil {
		t.Fatal(err)
	}
	if steps != 100 {
		t.Errorf("expected 100 observations, got %d", steps)
	}
	if math.Abs(clk.Now()-1) > 1e-9 {
		t.Errorf("stepped clock should reach 1s, got %f", clk.Now())
	}
	if result.Metrics["particles"] != float64(mgr.Len()) {
		t.Errorf("particle metric %f != %d", result.Metrics["particles"], mgr.Len())
	}
	if len(result.Frames) != 0 {
		t.Errorf("expected no frames without snapshot interval, got %d", len(result.Frames))
	}
}

func TestRunnerDetectsInvalidState(t *testing.T) {
	clk := clock.NewManual(0)
	s := particles.DefaultSettings()
	s.Spawn.Rate = 0
	s.Gravity = dynamo.V(0, math.NaN())
	mgr, err := particles.NewManager(s, clk)
	if err != nil {
		t.Fatal(err)
	}
	mgr.Add(particles.NewParticle(dynamo.Vec2{}, dynamo.Colour{}, 1))

	r := New(mgr, clk)
	r.SetLogger(quietLogger())
	_, err = r.Run(context.Background(), Config{Duration: 1})

	var stepErr *dynamo.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if stepErr.Step != 0 || !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("unexpected step error %v", stepErr)
	}
}

func TestRunnerRealtimePacing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SimulationHertz = 200
	cfg.Run.Duration = 0.05
	cfg.Run.Realtime = true
	r, runCfg := newRunner(t, cfg)

	result, err := r.Run(context.Background(), runCfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if result.Elapsed.Seconds() < 0.04 {
		t.Errorf("realtime run finished too quickly: %v", result.Elapsed)
	}
}

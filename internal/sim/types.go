package sim

import (
	"time"

	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/particles"
)

// Observer is notified after every tick.
type Observer interface {
	OnStep(m *particles.Manager)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(m *particles.Manager)

func (f ObserverFunc) OnStep(m *particles.Manager) { f(m) }

type Config struct {
	Duration float64
	// Realtime paces ticks to the wall clock at the simulation rate.
	Realtime bool
	// SnapshotEvery records a Frame every n ticks; zero disables frames.
	SnapshotEvery int
	// WarnParticles logs once when the population exceeds it; zero disables.
	WarnParticles int
}

// Frame is a summary of the simulation at one tick.
type Frame struct {
	Step      int     `json:"step"`
	Time      float64 `json:"time"`
	Particles int     `json:"particles"`
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
	Bounces   int     `json:"bounces"`
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Spawned    int
	Final      []dynamo.Circle
	Elapsed    time.Duration
}

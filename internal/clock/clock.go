// Package clock provides the time sources consumed by the particle spawner.
package clock

import "time"

// Monotonic reports seconds elapsed since it was created, using the
// monotonic reading carried by time.Time.
type Monotonic struct {
	start time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

func (m *Monotonic) Now() float64 {
	return time.Since(m.start).Seconds()
}

// Manual is a clock that only moves when told to.
type Manual struct {
	now float64
}

func NewManual(start float64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() float64 { return m.now }

func (m *Manual) Set(t float64) { m.now = t }

func (m *Manual) Advance(dt float64) { m.now += dt }

// Stepped advances by a fixed amount on every Tick. Headless runs use it so
// spawn cadence follows simulated time instead of the host's wall clock.
type Stepped struct {
	Manual
	step float64
}

func NewStepped(step float64) *Stepped {
	return &Stepped{step: step}
}

func (s *Stepped) Tick() { s.Advance(s.step) }

package sim

// Accumulator turns variable frame times into a whole number of fixed
// simulation steps. Leftover time carries into the next frame.
type Accumulator struct {
	step     float64
	pending  float64
	maxSteps int
}

// NewAccumulator returns an accumulator for the given step length. At most
// maxSteps are released per frame and the backlog beyond that is dropped;
// maxSteps <= 0 means no limit.
func NewAccumulator(step float64, maxSteps int) *Accumulator {
	return &Accumulator{step: step, maxSteps: maxSteps}
}

// Advance adds elapsed seconds and returns how many steps to run now.
func (a *Accumulator) Advance(elapsed float64) int {
	if elapsed > 0 {
		a.pending += elapsed
	}
	n := int(a.pending / a.step)
	a.pending -= float64(n) * a.step
	if a.maxSteps > 0 && n > a.maxSteps {
		n = a.maxSteps
		a.pending = 0
	}
	return n
}

func (a *Accumulator) Pending() float64 { return a.pending }
func (a *Accumulator) Reset()           { a.pending = 0 }

package timing

import "github.com/valerio/go-chip8/chip8/timer"

// DefaultCPUFrequency is the instruction rate used when none is configured.
const DefaultCPUFrequency = 600

// Clock splits time into the two clock domains of the machine: CPU steps at
// an arbitrary rate and timer ticks at a fixed 60 Hz. Each frame is one timer
// tick; the number of CPU steps per frame is spread with an integer
// accumulator so that after n frames exactly floor(n*hz/60) steps have run.
type Clock struct {
	hz          int
	remainder   int
	frames      uint64
	totalCycles uint64
}

// NewClock returns a clock running the CPU at hz instructions per second.
// Non-positive rates fall back to DefaultCPUFrequency.
func NewClock(hz int) *Clock {
	if hz <= 0 {
		hz = DefaultCPUFrequency
	}
	return &Clock{hz: hz}
}

// NewClockPerFrame returns a clock running a fixed number of steps every frame.
func NewClockPerFrame(steps int) *Clock {
	return NewClock(steps * timer.Frequency)
}

// Frequency returns the CPU rate in Hz.
func (c *Clock) Frequency() int {
	return c.hz
}

// NextFrame advances the clock by one timer tick and returns the number of
// CPU steps to run before that tick.
func (c *Clock) NextFrame() int {
	c.remainder += c.hz
	steps := c.remainder / timer.Frequency
	c.remainder %= timer.Frequency

	c.frames++
	c.totalCycles += uint64(steps)
	return steps
}

// Frames returns the number of timer ticks produced so far.
func (c *Clock) Frames() uint64 {
	return c.frames
}

// Cycles returns the number of CPU steps produced so far.
func (c *Clock) Cycles() uint64 {
	return c.totalCycles
}

func (c *Clock) Reset() {
	c.remainder = 0
	c.frames = 0
	c.totalCycles = 0
}

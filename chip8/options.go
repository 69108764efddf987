package chip8

import (
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/timing"
)

// DefaultCyclesPerFrame gives 600 instructions per second at 60 frames per second.
const DefaultCyclesPerFrame = 10

type config struct {
	quirks cpu.Quirks
	hz     int
	rng    cpu.RandomSource
}

// Option configures a Machine.
type Option func(*config)

// WithQuirks selects the opcode behaviour variants, see cpu.Quirks.
func WithQuirks(q cpu.Quirks) Option {
	return func(c *config) {
		c.quirks = q
	}
}

// WithCyclesPerFrame sets how many instructions run per 60 Hz frame.
func WithCyclesPerFrame(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.hz = n * timing.TargetFPS
		}
	}
}

// WithCPUFrequency sets the instruction rate in Hz. Rates that are not a
// multiple of 60 are spread evenly across frames.
func WithCPUFrequency(hz int) Option {
	return func(c *config) {
		if hz > 0 {
			c.hz = hz
		}
	}
}

// WithRandomSource replaces the source used by RND, e.g. for reproducible runs.
func WithRandomSource(r cpu.RandomSource) Option {
	return func(c *config) {
		if r != nil {
			c.rng = r
		}
	}
}

func defaultConfig() config {
	return config{
		hz: DefaultCyclesPerFrame * timing.TargetFPS,
	}
}

package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_NoDrift(t *testing.T) {
	rates := []int{1, 59, 60, 500, 600, 700, 1000, 1234}
	for _, hz := range rates {
		c := NewClock(hz)
		for frame := 1; frame <= 600; frame++ {
			c.NextFrame()
			want := uint64(frame * hz / 60)
			if !assert.Equal(t, want, c.Cycles(), "hz=%d frame=%d", hz, frame) {
				break
			}
		}
		assert.Equal(t, uint64(600), c.Frames())
	}
}

func TestClock_EvenRate(t *testing.T) {
	c := NewClock(600)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 10, c.NextFrame())
	}
}

func TestClock_SpreadsFractionalRate(t *testing.T) {
	c := NewClock(90)
	steps := []int{c.NextFrame(), c.NextFrame(), c.NextFrame(), c.NextFrame()}
	assert.Equal(t, []int{1, 2, 1, 2}, steps)
}

func TestClock_Defaults(t *testing.T) {
	assert.Equal(t, DefaultCPUFrequency, NewClock(0).Frequency())
	assert.Equal(t, 720, NewClockPerFrame(12).Frequency())
}

func TestClock_Reset(t *testing.T) {
	c := NewClock(90)
	c.NextFrame()
	c.Reset()
	assert.Zero(t, c.Cycles())
	assert.Zero(t, c.Frames())
	assert.Equal(t, 1, c.NextFrame())
}

func TestFrameDuration(t *testing.T) {
	assert.Equal(t, time.Second/60, FrameDuration())
}

func TestAdaptiveLimiter_SleepsUntilDeadline(t *testing.T) {
	clock := time.Unix(0, 0)
	var slept time.Duration

	a := &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		now:             func() time.Time { return clock },
		sleep: func(d time.Duration) {
			slept += d
			clock = clock.Add(d + time.Millisecond)
		},
	}
	a.Reset()

	// first frame deadline is now: no wait
	a.WaitForNextFrame()
	assert.Zero(t, slept)

	a.WaitForNextFrame()
	assert.Equal(t, FrameDuration()-time.Millisecond, slept)
	assert.Equal(t, int64(2), a.Frames())
}

func TestNoOpLimiter(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	for i := 0; i < 100; i++ {
		l.WaitForNextFrame()
	}
	l.Reset()
	assert.Less(t, time.Since(start), time.Second)
}

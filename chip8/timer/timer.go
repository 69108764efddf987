package timer

// Frequency is the rate, in Hz, at which Tick must be called.
const Frequency = 60

// Timer holds the delay and sound counters. Both count down once per Tick
// and stop at zero. The tick rate is independent from the CPU clock.
type Timer struct {
	delay uint8
	sound uint8
}

// New returns a timer with both counters at zero.
func New() *Timer {
	return &Timer{}
}

// Tick decrements both counters, never going below zero.
func (t *Timer) Tick() {
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
	}
}

func (t *Timer) Delay() uint8 {
	return t.delay
}

func (t *Timer) SetDelay(value uint8) {
	t.delay = value
}

func (t *Timer) Sound() uint8 {
	return t.sound
}

func (t *Timer) SetSound(value uint8) {
	t.sound = value
}

// SoundActive reports whether the tone should currently be playing.
func (t *Timer) SoundActive() bool {
	return t.sound > 0
}

func (t *Timer) Reset() {
	t.delay = 0
	t.sound = 0
}

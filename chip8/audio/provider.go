package audio

import "log/slog"

// Beeper plays the single tone of the machine.
type Beeper interface {
	Start()
	Stop()
}

// SoundSource exposes the sound timer.
type SoundSource interface {
	SoundActive() bool
}

// Tone watches the sound timer and turns a Beeper on and off as the timer
// becomes non-zero and reaches zero again.
type Tone struct {
	beeper  Beeper
	playing bool
}

func NewTone(b Beeper) *Tone {
	return &Tone{beeper: b}
}

// Update samples the sound timer, call once per frame.
func (t *Tone) Update(src SoundSource) {
	active := src.SoundActive()
	if active == t.playing {
		return
	}

	t.playing = active
	if t.beeper == nil {
		return
	}
	if active {
		t.beeper.Start()
	} else {
		t.beeper.Stop()
	}
}

// Playing reports whether the tone is currently on.
func (t *Tone) Playing() bool {
	return t.playing
}

// Silence stops the tone if it is playing.
func (t *Tone) Silence() {
	if t.playing && t.beeper != nil {
		t.beeper.Stop()
	}
	t.playing = false
}

// LogBeeper is a Beeper that only logs, for backends without audio output.
type LogBeeper struct{}

func (LogBeeper) Start() { slog.Debug("Tone start") }
func (LogBeeper) Stop()  { slog.Debug("Tone stop") }

var _ Beeper = LogBeeper{}

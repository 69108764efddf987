package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingBeeper struct {
	starts, stops int
}

func (c *countingBeeper) Start() { c.starts++ }
func (c *countingBeeper) Stop()  { c.stops++ }

type fakeSound bool

func (f fakeSound) SoundActive() bool { return bool(f) }

func TestTone_EdgeTriggered(t *testing.T) {
	b := &countingBeeper{}
	tone := NewTone(b)

	tone.Update(fakeSound(false))
	assert.Equal(t, 0, b.starts)

	tone.Update(fakeSound(true))
	tone.Update(fakeSound(true))
	tone.Update(fakeSound(true))
	assert.Equal(t, 1, b.starts)
	assert.True(t, tone.Playing())

	tone.Update(fakeSound(false))
	assert.Equal(t, 1, b.stops)
	assert.False(t, tone.Playing())
}

func TestTone_Silence(t *testing.T) {
	b := &countingBeeper{}
	tone := NewTone(b)
	tone.Update(fakeSound(true))

	tone.Silence()
	tone.Silence()

	assert.Equal(t, 1, b.stops)
	assert.False(t, tone.Playing())
}

func TestTone_NilBeeper(t *testing.T) {
	tone := NewTone(nil)
	tone.Update(fakeSound(true))
	assert.True(t, tone.Playing())
	tone.Silence()
}

package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimer_Tick(t *testing.T) {
	tm := New()
	tm.SetDelay(3)
	tm.SetSound(1)

	tm.Tick()
	assert.Equal(t, uint8(2), tm.Delay())
	assert.Equal(t, uint8(0), tm.Sound())
	assert.False(t, tm.SoundActive())

	tm.Tick()
	tm.Tick()
	assert.Equal(t, uint8(0), tm.Delay())
}

func TestTimer_TickFloorsAtZero(t *testing.T) {
	tm := New()

	for i := 0; i < 300; i++ {
		tm.Tick()
	}

	assert.Equal(t, uint8(0), tm.Delay())
	assert.Equal(t, uint8(0), tm.Sound())
}

func TestTimer_CountersAreIndependent(t *testing.T) {
	tm := New()
	tm.SetDelay(0xFF)
	tm.SetSound(2)

	tm.Tick()
	assert.True(t, tm.SoundActive())
	tm.Tick()
	assert.False(t, tm.SoundActive())
	assert.Equal(t, uint8(0xFD), tm.Delay())
}

func TestTimer_Reset(t *testing.T) {
	tm := New()
	tm.SetDelay(10)
	tm.SetSound(10)

	tm.Reset()

	assert.Equal(t, uint8(0), tm.Delay())
	assert.Equal(t, uint8(0), tm.Sound())
}

package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad_PressRelease(t *testing.T) {
	k := NewKeypad()

	k.Press(0xA)
	assert.True(t, k.IsPressed(0xA))
	assert.False(t, k.IsPressed(0xB))

	k.Release(0xA)
	assert.False(t, k.IsPressed(0xA))
}

func TestKeypad_FirstPressed(t *testing.T) {
	k := NewKeypad()

	_, ok := k.FirstPressed()
	assert.False(t, ok)

	k.Press(0xE)
	k.Press(0x3)
	key, ok := k.FirstPressed()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x3), key)
}

func TestKeypad_SetOverwritesEverything(t *testing.T) {
	k := NewKeypad()
	k.Press(0x1)

	var states [KeyCount]bool
	states[0xF] = true
	k.Set(states)

	assert.False(t, k.IsPressed(0x1))
	assert.True(t, k.IsPressed(0xF))
	assert.Equal(t, states, k.State())

	k.Reset()
	assert.Equal(t, [KeyCount]bool{}, k.State())
}

func TestKeypad_MasksToLowNibble(t *testing.T) {
	k := NewKeypad()
	k.Press(0x1C)
	assert.True(t, k.IsPressed(0xC))
}

package input

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Keypad latches the state of the 16 hex keys. The host writes it between
// CPU steps, the CPU only ever reads it.
type Keypad struct {
	keys [KeyCount]bool
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks key k (low nibble) as held down.
func (k *Keypad) Press(key uint8) {
	k.keys[key&0x0F] = true
}

// Release marks key k (low nibble) as up.
func (k *Keypad) Release(key uint8) {
	k.keys[key&0x0F] = false
}

// Set overwrites the state of every key at once.
func (k *Keypad) Set(states [KeyCount]bool) {
	k.keys = states
}

// State returns a copy of every key state.
func (k *Keypad) State() [KeyCount]bool {
	return k.keys
}

// IsPressed reports whether key k (low nibble) is held down.
func (k *Keypad) IsPressed(key uint8) bool {
	return k.keys[key&0x0F]
}

// FirstPressed returns the lowest numbered key currently held down.
func (k *Keypad) FirstPressed() (uint8, bool) {
	for i, pressed := range k.keys {
		if pressed {
			return uint8(i), true
		}
	}
	return 0, false
}

func (k *Keypad) Reset() {
	k.keys = [KeyCount]bool{}
}

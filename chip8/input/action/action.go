package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Hex keypad, Key0 through KeyF are contiguous so that
	// Key0+n is the action for key n.
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorReset
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by how they are dispatched.
type Category int

const (
	// CategoryKeypad actions drive the machine's keypad and are never debounced.
	CategoryKeypad Category = iota
	// CategoryEmulator actions control the emulator itself.
	CategoryEmulator
	// CategoryDebug actions only affect debugging aids.
	CategoryDebug
)

// Info describes an action.
type Info struct {
	Category    Category
	Description string
}

var emulatorInfo = map[Action]Info{
	EmulatorDebugToggle:     {CategoryEmulator, "Toggle debug panel"},
	EmulatorSnapshot:        {CategoryEmulator, "Save snapshot"},
	EmulatorPauseToggle:     {CategoryEmulator, "Pause/resume"},
	EmulatorStepFrame:       {CategoryEmulator, "Step frame"},
	EmulatorStepInstruction: {CategoryEmulator, "Step instruction"},
	EmulatorReset:           {CategoryEmulator, "Reset machine"},
	EmulatorQuit:            {CategoryEmulator, "Quit"},
	DebugLogLevelIncrease:   {CategoryDebug, "More verbose logs"},
	DebugLogLevelDecrease:   {CategoryDebug, "Less verbose logs"},
}

// GetInfo returns the category and description of an action.
func GetInfo(act Action) Info {
	if key, ok := KeyIndex(act); ok {
		return Info{Category: CategoryKeypad, Description: fmt.Sprintf("Key %X", key)}
	}
	if info, ok := emulatorInfo[act]; ok {
		return info
	}
	return Info{Category: CategoryDebug, Description: "Unknown"}
}

// KeyIndex returns the hex key an action drives, if it is a keypad action.
func KeyIndex(act Action) (uint8, bool) {
	if act >= Key0 && act <= KeyF {
		return uint8(act - Key0), true
	}
	return 0, false
}

// ForKey returns the keypad action for hex key k (low nibble).
func ForKey(k uint8) Action {
	return Key0 + Action(k&0x0F)
}

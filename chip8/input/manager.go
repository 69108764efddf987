package input

import (
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

// Manager routes input actions: keypad actions are written to the keypad,
// everything else is debounced and dispatched to registered callbacks.
type Manager struct {
	handlers map[action.Action]map[event.Type][]func()
	debounce *Handler
	keypad   *Keypad
}

func NewManager(k *Keypad) *Manager {
	return &Manager{
		handlers: make(map[action.Action]map[event.Type][]func()),
		debounce: NewHandler(),
		keypad:   k,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if key, ok := action.KeyIndex(act); ok && m.keypad != nil {
		switch evt {
		case event.Press, event.Hold:
			m.keypad.Press(key)
		case event.Release:
			m.keypad.Release(key)
		}
		return
	}

	if !m.debounce.ProcessEvent(act, evt) {
		return
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

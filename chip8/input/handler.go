package input

import (
	"time"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

const defaultDebounce = 300 * time.Millisecond

// Handler debounces UI actions. Keypad actions always pass through.
type Handler struct {
	lastActionTime map[action.Action]map[event.Type]time.Time
	debounceDelay  time.Duration
	now            func() time.Time
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]map[event.Type]time.Time),
		debounceDelay:  defaultDebounce,
		now:            time.Now,
	}
}

// ProcessEvent returns true if the event should be handled, false if it was debounced.
func (h *Handler) ProcessEvent(act action.Action, typ event.Type) bool {
	if action.GetInfo(act).Category == action.CategoryKeypad {
		return true
	}
	if typ != event.Press && typ != event.Release {
		return true
	}

	now := h.now()
	if h.lastActionTime[act] == nil {
		h.lastActionTime[act] = make(map[event.Type]time.Time)
	}
	if last, ok := h.lastActionTime[act][typ]; ok && now.Sub(last) < h.debounceDelay {
		return false
	}
	h.lastActionTime[act][typ] = now
	return true
}

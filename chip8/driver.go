package chip8

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
)

// debugger actions handled by the machine
var machineActions = []action.Action{
	action.EmulatorPauseToggle,
	action.EmulatorStepInstruction,
	action.EmulatorStepFrame,
	action.EmulatorReset,
}

// actions handled by the backend, when it supports them
var backendActions = []action.Action{
	action.EmulatorSnapshot,
	action.EmulatorDebugToggle,
	action.DebugLogLevelIncrease,
	action.DebugLogLevelDecrease,
}

// Run drives the machine with an initialized backend until the backend asks
// to quit. Each iteration runs one frame, hands it to the backend, routes the
// returned input events, updates the tone and waits for the limiter.
//
// A CPU fault does not end the loop, the machine stays halted so the fault
// can be inspected or cleared with a reset. Run returns the fault still
// pending when the loop ends, or the first backend error.
func Run(m *Machine, b backend.Backend, limiter timing.Limiter) error {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}

	quit := false
	manager := input.NewManager(m.Keypad())
	manager.On(action.EmulatorQuit, event.Press, func() {
		slog.Info("Quit requested")
		quit = true
	})

	for _, act := range machineActions {
		manager.On(act, event.Press, func() {
			m.HandleAction(act, true)
			if act == action.EmulatorPauseToggle && !m.Paused() {
				limiter.Reset()
			}
		})
	}

	if handler, ok := b.(backend.ActionHandler); ok {
		for _, act := range backendActions {
			manager.On(act, event.Press, func() {
				handler.HandleAction(act)
			})
		}
	}

	var beeper audio.Beeper = audio.LogBeeper{}
	if ab, ok := b.(backend.AudioBackend); ok {
		beeper = ab.Beeper()
	}
	tone := audio.NewTone(beeper)
	defer tone.Silence()

	for !quit {
		// faults are logged by the machine and surface through Fault
		_ = m.RunFrame()

		events, err := b.Update(m.GetCurrentFrame())
		if err != nil {
			return fmt.Errorf("backend update: %w", err)
		}
		for _, e := range events {
			manager.Trigger(e.Action, e.Type)
		}

		if m.Paused() || m.Fault() != nil {
			tone.Silence()
		} else {
			tone.Update(m.Timer())
		}

		limiter.WaitForNextFrame()
	}

	return m.Fault()
}

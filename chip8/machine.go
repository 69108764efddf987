package chip8

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timer"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// ErrHalted is returned by Step once an instruction has failed. The machine
// stays halted until Reset.
var ErrHalted = errors.New("machine halted")

// number of instructions shown around PC in debug data
const disasmWindow = 9

// Machine is a complete CHIP-8 system: memory, CPU, display, keypad and
// timers, plus the clock deciding how many instructions run per frame.
// Machines share no state, any number of them can run side by side. A
// Machine is not safe for concurrent use.
type Machine struct {
	mem     *memory.Memory
	cpu     *cpu.CPU
	display *video.Display
	keypad  *input.Keypad
	timer   *timer.Timer

	frame *video.FrameBuffer
	clock *timing.Clock

	debuggerState debug.DebuggerState
	fault         error
}

// New creates a machine with no program loaded.
func New(opts ...Option) *Machine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Machine{
		mem:     memory.New(),
		display: video.NewDisplay(),
		keypad:  input.NewKeypad(),
		timer:   timer.New(),
		frame:   video.NewFrameBuffer(),
		clock:   timing.NewClock(cfg.hz),
	}
	m.cpu = cpu.New(m.mem, m.display, m.keypad, m.timer)
	m.cpu.SetQuirks(cfg.quirks)
	if cfg.rng != nil {
		m.cpu.SetRandomSource(cfg.rng)
	}

	return m
}

// NewWithFile creates a machine and loads the program at path into it.
func NewWithFile(path string, opts ...Option) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	m := New(opts...)
	if err := m.LoadProgram(data); err != nil {
		return nil, err
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(data))
	return m, nil
}

// LoadProgram loads a program image at 0x200 and resets the machine.
func (m *Machine) LoadProgram(program []byte) error {
	if err := m.mem.Load(program); err != nil {
		return err
	}
	m.Reset()
	return nil
}

// Reset restores the power-on state and reloads the current program.
// A halted machine becomes runnable again; the debugger state is kept.
func (m *Machine) Reset() {
	m.mem.Reset()
	m.cpu.Reset()
	m.display.Reset()
	m.keypad.Reset()
	m.timer.Reset()
	m.clock.Reset()
	m.fault = nil
	if m.debuggerState == debug.DebuggerHalted {
		m.debuggerState = debug.DebuggerRunning
	}
	m.frame.Render(m.display)
}

// Step executes a single CPU cycle. The first failing instruction halts the
// machine: the error is logged and returned, and later steps return
// ErrHalted until Reset.
func (m *Machine) Step() error {
	if m.fault != nil {
		return fmt.Errorf("%w: %w", ErrHalted, m.fault)
	}

	if err := m.cpu.Step(); err != nil {
		m.fault = err
		m.debuggerState = debug.DebuggerHalted
		slog.Error("CPU fault, machine halted", "pc", fmt.Sprintf("0x%04X", m.cpu.PC()), "error", err)
		return err
	}
	return nil
}

// TickTimers advances the delay and sound timers by one 60 Hz tick.
func (m *Machine) TickTimers() {
	m.timer.Tick()
}

// RunFrame runs one 60 Hz frame: the clock's share of CPU steps followed by a
// single timer tick, then refreshes the frame buffer if the display changed.
// It honours the debugger state: nothing runs while paused or halted, and a
// pending single step runs exactly one instruction.
func (m *Machine) RunFrame() error {
	switch m.debuggerState {
	case debug.DebuggerPaused, debug.DebuggerHalted:
		return nil
	case debug.DebuggerStepInstruction:
		m.debuggerState = debug.DebuggerPaused
		err := m.Step()
		m.refreshFrame()
		return err
	case debug.DebuggerStepFrame:
		m.debuggerState = debug.DebuggerPaused
	}

	steps := m.clock.NextFrame()
	for i := 0; i < steps; i++ {
		if err := m.Step(); err != nil {
			m.refreshFrame()
			return err
		}
	}
	m.TickTimers()
	m.refreshFrame()
	return nil
}

// RunUntilFrame is RunFrame, satisfying Emulator.
func (m *Machine) RunUntilFrame() error {
	return m.RunFrame()
}

func (m *Machine) refreshFrame() {
	if m.display.Dirty() {
		m.frame.Render(m.display)
		m.display.ClearDirty()
	}
}

// SetKeys overwrites the whole keypad state.
func (m *Machine) SetKeys(keys [input.KeyCount]bool) {
	m.keypad.Set(keys)
}

// HandleAction applies a keypad or debugger action.
func (m *Machine) HandleAction(act action.Action, pressed bool) {
	if key, ok := action.KeyIndex(act); ok {
		if pressed {
			m.keypad.Press(key)
		} else {
			m.keypad.Release(key)
		}
		return
	}

	if !pressed {
		return
	}

	switch act {
	case action.EmulatorPauseToggle:
		switch m.debuggerState {
		case debug.DebuggerRunning:
			m.debuggerState = debug.DebuggerPaused
			slog.Info("Paused")
		case debug.DebuggerPaused, debug.DebuggerStepInstruction, debug.DebuggerStepFrame:
			m.debuggerState = debug.DebuggerRunning
			slog.Info("Resumed")
		}
	case action.EmulatorStepInstruction:
		m.requestStep(debug.DebuggerStepInstruction)
	case action.EmulatorStepFrame:
		m.requestStep(debug.DebuggerStepFrame)
	case action.EmulatorReset:
		slog.Info("Reset")
		m.Reset()
	}
}

// requestStep pauses a running machine, or schedules a step on a paused one.
func (m *Machine) requestStep(state debug.DebuggerState) {
	switch m.debuggerState {
	case debug.DebuggerRunning:
		m.debuggerState = debug.DebuggerPaused
		slog.Info("Paused")
	case debug.DebuggerPaused:
		m.debuggerState = state
	}
}

// ExtractDebugData returns a snapshot of the machine state for debug views.
func (m *Machine) ExtractDebugData() *debug.CompleteDebugData {
	regs := m.cpu.Registers()
	state, waitReg := m.cpu.State()
	pc := m.cpu.PC()

	start := pc % 2
	if pc >= 8 {
		start = pc - 8
	}

	return &debug.CompleteDebugData{
		CPU: &debug.CPUState{
			V:             regs,
			I:             m.cpu.I(),
			PC:            pc,
			SP:            m.cpu.Stack().SP(),
			Stack:         m.cpu.Stack().Frames(),
			DelayTimer:    m.timer.Delay(),
			SoundTimer:    m.timer.Sound(),
			Opcode:        m.cpu.CurrentOpcode(),
			Cycles:        m.cpu.Cycles(),
			WaitingForKey: state == cpu.WaitingForKey,
			WaitRegister:  waitReg,
		},
		Memory: &debug.MemorySnapshot{
			StartAddr: start,
			Bytes:     m.mem.Snapshot(start, disasmWindow*2),
		},
		DebuggerState: m.debuggerState,
		Keys:          m.keypad.State(),
		Fault:         m.fault,
	}
}

// GetCurrentFrame returns the frame buffer as of the end of the last frame.
func (m *Machine) GetCurrentFrame() *video.FrameBuffer {
	return m.frame
}

func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

func (m *Machine) Memory() *memory.Memory {
	return m.mem
}

func (m *Machine) Display() *video.Display {
	return m.display
}

func (m *Machine) Keypad() *input.Keypad {
	return m.keypad
}

func (m *Machine) Timer() *timer.Timer {
	return m.timer
}

// Fault returns the error that halted the machine, or nil.
func (m *Machine) Fault() error {
	return m.fault
}

func (m *Machine) DebuggerState() debug.DebuggerState {
	return m.debuggerState
}

// Paused reports whether execution is suspended by the debugger.
func (m *Machine) Paused() bool {
	return m.debuggerState != debug.DebuggerRunning && m.debuggerState != debug.DebuggerHalted
}

// Frames returns the number of frames run since the last reset.
func (m *Machine) Frames() uint64 {
	return m.clock.Frames()
}

package chip8

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// scriptedBackend returns the scripted events on the given frames and quits
// after the last frame.
type scriptedBackend struct {
	frames  int
	script  map[int][]backend.InputEvent
	updates int
	actions []action.Action
	beeper  *countingBeeper
	err     error
}

func (s *scriptedBackend) Init(backend.BackendConfig) error { return nil }
func (s *scriptedBackend) Cleanup() error                   { return nil }

func (s *scriptedBackend) Update(*video.FrameBuffer) ([]backend.InputEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updates++
	events := s.script[s.updates]
	if s.updates >= s.frames {
		events = append(events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	}
	return events, nil
}

func (s *scriptedBackend) HandleAction(act action.Action) {
	s.actions = append(s.actions, act)
}

func (s *scriptedBackend) Beeper() audio.Beeper {
	return s.beeper
}

type countingBeeper struct {
	starts, stops int
}

func (c *countingBeeper) Start() { c.starts++ }
func (c *countingBeeper) Stop()  { c.stops++ }

func TestRun_Headless(t *testing.T) {
	m := newMachine(t, []uint16{0x1200})
	h := headless.New(5, headless.SnapshotConfig{})
	require.NoError(t, h.Init(backend.BackendConfig{}))

	err := Run(m, h, nil)

	require.NoError(t, err)
	assert.Equal(t, uint64(5), m.Frames())
	assert.Equal(t, 5, h.Frames())
}

func TestRun_ReturnsFault(t *testing.T) {
	m := newMachine(t, []uint16{0x00EE})
	h := headless.New(3, headless.SnapshotConfig{})
	require.NoError(t, h.Init(backend.BackendConfig{}))

	err := Run(m, h, nil)

	assert.ErrorIs(t, err, cpu.ErrStackUnderflow)
	assert.Equal(t, 3, h.Frames(), "the loop keeps going while halted")
}

func TestRun_BackendError(t *testing.T) {
	m := newMachine(t, []uint16{0x1200})
	boom := errors.New("boom")

	err := Run(m, &scriptedBackend{err: boom}, nil)

	assert.ErrorIs(t, err, boom)
}

func TestRun_RoutesEvents(t *testing.T) {
	// wait for a key into V3, then loop
	m := newMachine(t, []uint16{0xF30A, 0x1202})
	b := &scriptedBackend{
		frames: 4,
		beeper: &countingBeeper{},
		script: map[int][]backend.InputEvent{
			1: {{Action: action.Key7, Type: event.Press}, {Action: action.EmulatorSnapshot, Type: event.Press}},
			2: {{Action: action.Key7, Type: event.Release}},
		},
	}

	require.NoError(t, Run(m, b, nil))

	assert.Equal(t, uint8(7), m.CPU().Registers()[3])
	assert.False(t, m.Keypad().IsPressed(7))
	assert.Equal(t, []action.Action{action.EmulatorSnapshot}, b.actions)
}

func TestRun_PauseFromBackend(t *testing.T) {
	m := newMachine(t, []uint16{0x1200})
	b := &scriptedBackend{
		frames: 3,
		beeper: &countingBeeper{},
		script: map[int][]backend.InputEvent{
			1: {{Action: action.EmulatorPauseToggle, Type: event.Press}},
		},
	}

	require.NoError(t, Run(m, b, nil))

	assert.True(t, m.Paused())
	assert.Equal(t, uint64(DefaultCyclesPerFrame), m.CPU().Cycles(), "only the first frame ran")
}

func TestRun_Tone(t *testing.T) {
	// V0 = 3; ST = V0; loop
	m := newMachine(t, []uint16{0x6003, 0xF018, 0x1204})
	beeper := &countingBeeper{}
	b := &scriptedBackend{frames: 5, beeper: beeper}

	require.NoError(t, Run(m, b, nil))

	assert.Equal(t, 1, beeper.starts)
	assert.Equal(t, 1, beeper.stops)
}

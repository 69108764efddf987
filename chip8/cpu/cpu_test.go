package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timer"
	"github.com/valerio/go-chip8/chip8/video"
)

type rig struct {
	cpu     *CPU
	mem     *memory.Memory
	display *video.Display
	keypad  *input.Keypad
	timer   *timer.Timer
}

// newRig returns a CPU with the given instructions loaded at the program start.
func newRig(t *testing.T, program ...uint16) *rig {
	t.Helper()

	r := &rig{
		mem:     memory.New(),
		display: video.NewDisplay(),
		keypad:  input.NewKeypad(),
		timer:   timer.New(),
	}
	r.cpu = New(r.mem, r.display, r.keypad, r.timer)

	image := make([]byte, 0, len(program)*2)
	for _, op := range program {
		image = append(image, byte(op>>8), byte(op))
	}
	require.NoError(t, r.mem.Load(image))
	return r
}

func (r *rig) step(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, r.cpu.Step())
	}
}

type fixedRandom uint32

func (f fixedRandom) Uint32() uint32 { return uint32(f) }

func TestCPU_New(t *testing.T) {
	r := newRig(t)

	assert.Equal(t, addr.ProgramStart, r.cpu.PC())
	assert.Equal(t, uint16(0), r.cpu.I())
	assert.Equal(t, uint8(0), r.cpu.Stack().SP())
	assert.Equal(t, Registers{}, r.cpu.Registers())
	state, _ := r.cpu.State()
	assert.Equal(t, Running, state)
}

func TestCPU_StepAdvancesPC(t *testing.T) {
	r := newRig(t, 0x6005, 0x6103)

	r.step(t, 2)

	assert.Equal(t, addr.ProgramStart+4, r.cpu.PC())
	assert.Equal(t, uint16(0x6103), r.cpu.CurrentOpcode())
	assert.Equal(t, uint64(2), r.cpu.Cycles())
}

func TestCPU_AddRegistersNoStrayCarry(t *testing.T) {
	r := newRig(t, 0x6005, 0x6103, 0x8014)

	r.step(t, 3)

	regs := r.cpu.Registers()
	assert.Equal(t, uint8(8), regs[0])
	assert.Equal(t, uint8(3), regs[1])
	assert.Equal(t, uint8(0), regs[VF])
}

func TestCPU_SetThenAddImmediateIndependentRegisters(t *testing.T) {
	r := newRig(t, 0x6005, 0x6103, 0x8014, 0x600A, 0x6105)

	r.step(t, 5)

	regs := r.cpu.Registers()
	assert.Equal(t, uint8(0x0A), regs[0])
	assert.Equal(t, uint8(0x05), regs[1])
	assert.Equal(t, uint8(0), regs[VF])
}

func TestCPU_ClearThenDraw(t *testing.T) {
	// V0=0, V1=0, I=0x300 holding 0xF0
	r := newRig(t, 0x00E0, 0x6000, 0x6100, 0xA300, 0xD011)
	require.NoError(t, r.mem.Write(0x300, 0xF0))
	r.display.DrawSprite(20, 20, []byte{0xFF})

	r.step(t, 5)

	for x := 0; x < 4; x++ {
		assert.True(t, r.display.Pixel(x, 0))
	}
	assert.Equal(t, 4, r.display.LitCount())
	assert.Equal(t, uint8(0), r.cpu.Registers()[VF])
}

func TestCPU_DrawTwiceCollides(t *testing.T) {
	r := newRig(t, 0xA300, 0xD015, 0xD015)
	require.NoError(t, r.mem.Write(0x300, 0xF0))

	r.step(t, 2)
	assert.Equal(t, uint8(0), r.cpu.Registers()[VF])
	assert.Equal(t, 4, r.display.LitCount())

	r.step(t, 1)
	assert.Equal(t, uint8(1), r.cpu.Registers()[VF])
	assert.Zero(t, r.display.LitCount())
}

func TestCPU_DrawClipQuirk(t *testing.T) {
	r := newRig(t, 0x603E, 0xA300, 0xD011)
	r.cpu.SetQuirks(Quirks{ClipSprites: true})
	require.NoError(t, r.mem.Write(0x300, 0xFF))

	r.step(t, 3)

	assert.Equal(t, 2, r.display.LitCount())
}

func TestCPU_ReturnWithEmptyStack(t *testing.T) {
	r := newRig(t, 0x00EE)

	err := r.cpu.Step()

	assert.ErrorIs(t, err, ErrStackUnderflow)
	assert.Equal(t, addr.ProgramStart, r.cpu.PC(), "PC stays on the faulting instruction")
}

func TestCPU_CallAndReturn(t *testing.T) {
	// 0x200: CALL 0x206; 0x202: LD V1, 1; 0x204: JP 0x204; 0x206: LD V0, 7; 0x208: RET
	r := newRig(t, 0x2206, 0x6101, 0x1204, 0x6007, 0x00EE)

	r.step(t, 1)
	assert.Equal(t, uint16(0x206), r.cpu.PC())
	assert.Equal(t, []uint16{0x202}, r.cpu.Stack().Frames())

	r.step(t, 2)
	assert.Equal(t, uint16(0x202), r.cpu.PC())
	assert.Equal(t, uint8(0), r.cpu.Stack().SP())

	r.step(t, 2)
	assert.Equal(t, uint16(0x204), r.cpu.PC())
	regs := r.cpu.Registers()
	assert.Equal(t, uint8(7), regs[0])
	assert.Equal(t, uint8(1), regs[1])
}

func TestCPU_RecursiveCallOverflows(t *testing.T) {
	// CALL 0x200 forever
	r := newRig(t, 0x2200)

	r.step(t, StackDepth)
	err := r.cpu.Step()

	assert.ErrorIs(t, err, ErrStackOverflow)
	assert.Equal(t, uint8(StackDepth), r.cpu.Stack().SP())
	assert.Equal(t, addr.ProgramStart, r.cpu.PC())
}

func TestCPU_IllegalInstruction(t *testing.T) {
	words := []uint16{0x0123, 0x5121, 0x8128, 0x812F, 0x9121, 0xE19F, 0xF1FF, 0xF000}
	for _, word := range words {
		r := newRig(t, word)

		err := r.cpu.Step()

		require.ErrorIs(t, err, ErrIllegalInstruction, "0x%04X", word)
		var illegalErr *IllegalInstructionError
		require.ErrorAs(t, err, &illegalErr)
		assert.Equal(t, word, illegalErr.Opcode)
		assert.Equal(t, addr.ProgramStart, illegalErr.PC)
	}
}

func TestCPU_FetchOutOfRange(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.mem.Write(0x0FFE, 0x60))
	require.NoError(t, r.mem.Write(0x0FFF, 0x01))
	r.cpu.SetPC(0x0FFE)
	assert.NoError(t, r.cpu.Step())

	r.cpu.SetPC(0x0FFF)
	assert.ErrorIs(t, r.cpu.Step(), memory.ErrAddressOutOfRange)

	r.cpu.SetPC(0x1000)
	assert.ErrorIs(t, r.cpu.Step(), memory.ErrAddressOutOfRange)
}

func TestCPU_JumpWithOffsetOutOfRange(t *testing.T) {
	// V0 = 0xFF, JP V0, 0xFFF -> 0x10FE
	r := newRig(t, 0x60FF, 0xBFFF)

	r.step(t, 2)
	assert.Equal(t, uint16(0x10FE), r.cpu.PC())
	assert.ErrorIs(t, r.cpu.Step(), memory.ErrAddressOutOfRange)
}

func TestCPU_WaitForKey(t *testing.T) {
	r := newRig(t, 0xF30A, 0x6001)

	r.step(t, 1)
	state, reg := r.cpu.State()
	assert.Equal(t, WaitingForKey, state)
	assert.Equal(t, uint8(3), reg)
	assert.Equal(t, addr.ProgramStart+2, r.cpu.PC())

	// no key, nothing happens
	r.step(t, 5)
	state, _ = r.cpu.State()
	assert.Equal(t, WaitingForKey, state)
	assert.Equal(t, addr.ProgramStart+2, r.cpu.PC())

	r.keypad.Press(0xB)
	r.step(t, 1)
	state, _ = r.cpu.State()
	assert.Equal(t, Running, state)
	assert.Equal(t, uint8(0xB), r.cpu.Registers()[3])
	assert.Equal(t, addr.ProgramStart+2, r.cpu.PC(), "resolving the wait does not execute")

	r.step(t, 1)
	assert.Equal(t, uint8(1), r.cpu.Registers()[0])
}

func TestCPU_WaitForKeyRelease(t *testing.T) {
	r := newRig(t, 0xF20A)
	r.cpu.SetQuirks(Quirks{WaitForRelease: true})

	r.step(t, 1)
	r.keypad.Press(0x4)
	r.step(t, 3)
	state, _ := r.cpu.State()
	assert.Equal(t, WaitingForKey, state, "held key does not resolve yet")

	r.keypad.Release(0x4)
	r.step(t, 1)
	state, _ = r.cpu.State()
	assert.Equal(t, Running, state)
	assert.Equal(t, uint8(0x4), r.cpu.Registers()[2])
}

func TestCPU_TimersOpcodes(t *testing.T) {
	// V0 = 0x20; DT = V0; ST = V0; V1 = DT
	r := newRig(t, 0x6020, 0xF015, 0xF018, 0xF107)

	r.step(t, 3)
	assert.Equal(t, uint8(0x20), r.timer.Delay())
	assert.Equal(t, uint8(0x20), r.timer.Sound())

	r.timer.Tick()
	r.step(t, 1)
	assert.Equal(t, uint8(0x1F), r.cpu.Registers()[1])
}

func TestCPU_Random(t *testing.T) {
	r := newRig(t, 0xC50F)
	r.cpu.SetRandomSource(fixedRandom(0xABCD))

	r.step(t, 1)

	assert.Equal(t, uint8(0x0D), r.cpu.Registers()[5])
}

func TestCPU_SeededRandomIsDeterministic(t *testing.T) {
	a := NewRandomSource(42)
	b := NewRandomSource(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint32(), b.Uint32())
	}
}

func TestCPU_Reset(t *testing.T) {
	r := newRig(t, 0x6005, 0xA123, 0x2300)
	r.step(t, 3)

	r.cpu.Reset()

	assert.Equal(t, addr.ProgramStart, r.cpu.PC())
	assert.Equal(t, uint16(0), r.cpu.I())
	assert.Equal(t, uint8(0), r.cpu.Stack().SP())
	assert.Equal(t, Registers{}, r.cpu.Registers())
	assert.Equal(t, uint64(0), r.cpu.Cycles())
}

func TestCPU_RegisterAccessors(t *testing.T) {
	r := newRig(t)

	for reg := uint8(0); reg <= VF; reg++ {
		require.NoError(t, r.cpu.SetRegister(reg, reg*3))
		v, err := r.cpu.Register(reg)
		require.NoError(t, err)
		assert.Equal(t, reg*3, v)
	}

	assert.ErrorIs(t, r.cpu.SetRegister(16, 1), ErrInvalidRegister)
	_, err := r.cpu.Register(16)
	assert.ErrorIs(t, err, ErrInvalidRegister)
}

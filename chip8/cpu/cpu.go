package cpu

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/addr"
)

// Bus gives the CPU access to memory.
type Bus interface {
	Read(address uint16) (byte, error)
	Write(address uint16, value byte) error
	ReadWord(address uint16) (uint16, error)
	ReadRange(address uint16, n int) ([]byte, error)
}

// Screen is the display as seen by the CPU.
type Screen interface {
	Clear()
	DrawSprite(x, y uint8, sprite []byte) bool
	DrawSpriteClipped(x, y uint8, sprite []byte) bool
}

// Keys is the keypad as seen by the CPU.
type Keys interface {
	IsPressed(key uint8) bool
	FirstPressed() (uint8, bool)
}

// Timers are the delay and sound counters as seen by the CPU.
type Timers interface {
	Delay() uint8
	SetDelay(value uint8)
	SetSound(value uint8)
}

// RunState is the execution state of the CPU.
type RunState uint8

const (
	// Running fetches and executes an instruction on every step.
	Running RunState = iota
	// WaitingForKey polls the keypad on every step until a key resolves Fx0A.
	WaitingForKey
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	default:
		return "unknown"
	}
}

// CPU is the CHIP-8 interpreter core. It is not safe for concurrent use.
type CPU struct {
	v     Registers
	i     uint16
	pc    uint16
	stack Stack

	state      RunState
	waitReg    uint8
	waitKey    uint8
	waitKeyHit bool

	currentOpcode uint16
	cycles        uint64

	quirks Quirks
	rng    RandomSource

	bus    Bus
	screen Screen
	keys   Keys
	timers Timers
}

// New returns a CPU ready to execute from addr.ProgramStart.
func New(bus Bus, screen Screen, keys Keys, timers Timers) *CPU {
	return &CPU{
		pc:     addr.ProgramStart,
		rng:    globalSource{},
		bus:    bus,
		screen: screen,
		keys:   keys,
		timers: timers,
	}
}

// SetQuirks changes the opcode behaviour variants used from the next step on.
func (c *CPU) SetQuirks(q Quirks) {
	c.quirks = q
}

func (c *CPU) Quirks() Quirks {
	return c.quirks
}

// SetRandomSource replaces the source used by Cxkk.
func (c *CPU) SetRandomSource(r RandomSource) {
	c.rng = r
}

// Reset restores every register to its power-on value.
func (c *CPU) Reset() {
	c.v = Registers{}
	c.i = 0
	c.pc = addr.ProgramStart
	c.stack.Reset()
	c.state = Running
	c.waitReg = 0
	c.waitKeyHit = false
	c.currentOpcode = 0
	c.cycles = 0
}

// Step runs a single CPU cycle.
//
// While waiting for a key, a step only polls the keypad. Otherwise it fetches
// the instruction at PC, advances PC past it and executes it. On error the
// machine state is left as it was before the failing instruction, with PC
// pointing at it.
func (c *CPU) Step() error {
	c.cycles++

	if c.state == WaitingForKey {
		c.pollKey()
		return nil
	}

	pc := c.pc
	op, err := c.bus.ReadWord(pc)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	c.currentOpcode = op
	c.pc += 2

	if err := Decode(op)(c, op); err != nil {
		c.pc = pc
		return err
	}
	return nil
}

func (c *CPU) pollKey() {
	if !c.quirks.WaitForRelease {
		if key, ok := c.keys.FirstPressed(); ok {
			c.resolveKey(key)
		}
		return
	}

	if !c.waitKeyHit {
		if key, ok := c.keys.FirstPressed(); ok {
			c.waitKey = key
			c.waitKeyHit = true
		}
		return
	}
	if !c.keys.IsPressed(c.waitKey) {
		c.resolveKey(c.waitKey)
	}
}

func (c *CPU) resolveKey(key uint8) {
	c.v[c.waitReg] = key
	c.state = Running
	c.waitKeyHit = false
}

func (c *CPU) waitForKey(reg uint8) {
	c.state = WaitingForKey
	c.waitReg = reg
	c.waitKeyHit = false
}

// skip jumps over the next instruction.
func (c *CPU) skip() {
	c.pc += 2
}

// Register returns Vr.
func (c *CPU) Register(r uint8) (uint8, error) {
	return c.v.Get(r)
}

// SetRegister sets Vr.
func (c *CPU) SetRegister(r, value uint8) error {
	return c.v.Set(r, value)
}

// Registers returns a copy of V0-VF.
func (c *CPU) Registers() Registers {
	return c.v
}

func (c *CPU) PC() uint16 {
	return c.pc
}

// SetPC moves the program counter, e.g. to start execution elsewhere than 0x200.
func (c *CPU) SetPC(pc uint16) {
	c.pc = pc
}

// I returns the address register.
func (c *CPU) I() uint16 {
	return c.i
}

func (c *CPU) SetI(value uint16) {
	c.i = value
}

// Stack returns the call stack.
func (c *CPU) Stack() *Stack {
	return &c.stack
}

// State returns the run state and, when waiting for a key, the target register.
func (c *CPU) State() (RunState, uint8) {
	return c.state, c.waitReg
}

// CurrentOpcode returns the last instruction word fetched.
func (c *CPU) CurrentOpcode() uint16 {
	return c.currentOpcode
}

// Cycles returns the number of steps taken since the last reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// iAddr returns I masked to the 12 bit address space.
func (c *CPU) iAddr() uint16 {
	return c.i & addr.AddressMask
}

package cpu

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
)

// Opcode executes one decoded instruction. PC has already been advanced past it.
type Opcode func(c *CPU, op uint16) error

// Decode returns the handler for an instruction word, dispatching on the top nibble.
// Words that match no instruction decode to a handler returning an
// *IllegalInstructionError.
func Decode(op uint16) Opcode {
	return opcodes[bit.Nibble(op, 3)]
}

var opcodes = [16]Opcode{
	opcode0x0, opcode0x1, opcode0x2, opcode0x3,
	opcode0x4, opcode0x5, opcode0x6, opcode0x7,
	opcode0x8, opcode0x9, opcode0xA, opcode0xB,
	opcode0xC, opcode0xD, opcode0xE, opcode0xF,
}

// operands of the xy family of instructions
func xy(op uint16) (x, y uint8) {
	return bit.Nibble(op, 2), bit.Nibble(op, 1)
}

// operands of the xkk family of instructions
func xkk(op uint16) (x, kk uint8) {
	return bit.Nibble(op, 2), bit.Low(op)
}

func illegal(c *CPU, op uint16) error {
	return &IllegalInstructionError{Opcode: op, PC: c.pc - 2}
}

func errRange(base uint16, n int) error {
	return fmt.Errorf("%w: %d bytes at 0x%04X", memory.ErrAddressOutOfRange, n, base)
}

package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrStackOverflow is returned by a call when all 16 stack slots are in use.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned by a return with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrIllegalInstruction matches any *IllegalInstructionError.
	ErrIllegalInstruction = errors.New("illegal instruction")
	// ErrInvalidRegister is returned when addressing a register outside V0-VF.
	ErrInvalidRegister = errors.New("invalid register")
)

// IllegalInstructionError reports an instruction word that matches no opcode.
type IllegalInstructionError struct {
	Opcode uint16
	PC     uint16
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction 0x%04X at 0x%04X", e.Opcode, e.PC)
}

func (e *IllegalInstructionError) Is(target error) bool {
	return target == ErrIllegalInstruction
}

package cpu

import "fmt"

// StackDepth is the number of return addresses the stack can hold.
const StackDepth = 16

// Stack is the fixed-size return address stack used by calls and returns.
type Stack struct {
	slots [StackDepth]uint16
	sp    uint8
}

// Push stores addr on top of the stack. A full stack is left untouched.
func (s *Stack) Push(addr uint16) error {
	if s.sp >= StackDepth {
		return fmt.Errorf("%w: push 0x%04X", ErrStackOverflow, addr)
	}
	s.slots[s.sp] = addr
	s.sp++
	return nil
}

// Pop removes and returns the top of the stack.
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.slots[s.sp], nil
}

// SP returns the number of used slots.
func (s *Stack) SP() uint8 {
	return s.sp
}

// Frames returns the return addresses currently on the stack, bottom first.
func (s *Stack) Frames() []uint16 {
	frames := make([]uint16, s.sp)
	copy(frames, s.slots[:s.sp])
	return frames
}

func (s *Stack) Reset() {
	*s = Stack{}
}

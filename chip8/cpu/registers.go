package cpu

import "fmt"

// VF is the index of the flag register.
const VF = 0xF

// Registers holds V0-VF. VF is a normal register that also receives the
// carry, borrow, shifted-out bit and collision results.
type Registers [16]uint8

// Get returns the value of register r.
func (r *Registers) Get(reg uint8) (uint8, error) {
	if reg > VF {
		return 0, fmt.Errorf("%w: V%d", ErrInvalidRegister, reg)
	}
	return r[reg], nil
}

// Set stores value in register r.
func (r *Registers) Set(reg uint8, value uint8) error {
	if reg > VF {
		return fmt.Errorf("%w: V%d", ErrInvalidRegister, reg)
	}
	r[reg] = value
	return nil
}

func (r *Registers) flag(set bool) {
	if set {
		r[VF] = 1
	} else {
		r[VF] = 0
	}
}

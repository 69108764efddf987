package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/addr"
)

var (
	// ErrAddressOutOfRange is returned for any access at or past the end of memory.
	ErrAddressOutOfRange = errors.New("address out of range")
	// ErrProgramTooLarge is returned when a program does not fit above addr.ProgramStart.
	ErrProgramTooLarge = errors.New("program too large")
)

// fontSet is the canonical 4x5 hexadecimal font, one glyph per digit 0-F.
var fontSet = [addr.GlyphCount * addr.GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// FontSet returns a copy of the built-in font image.
func FontSet() []byte {
	font := fontSet
	return font[:]
}

// Memory is the flat 4KB address space of the machine.
type Memory struct {
	ram     [addr.MemorySize]byte
	program []byte
}

// New returns a zeroed memory with the font loaded.
func New() *Memory {
	m := &Memory{}
	m.loadFont()
	return m
}

func (m *Memory) loadFont() {
	copy(m.ram[addr.FontBase:], fontSet[:])
}

// Load copies a program image into memory starting at addr.ProgramStart.
// The image is retained so that Reset can restore it.
func (m *Memory) Load(program []byte) error {
	if len(program) > addr.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, max is %d", ErrProgramTooLarge, len(program), addr.MaxProgramSize)
	}

	copy(m.ram[addr.ProgramStart:], program)
	m.program = append(m.program[:0], program...)
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) >= addr.MemorySize {
		return 0, fmt.Errorf("%w: read at 0x%04X", ErrAddressOutOfRange, address)
	}
	return m.ram[address], nil
}

// Write stores a byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) >= addr.MemorySize {
		return fmt.Errorf("%w: write at 0x%04X", ErrAddressOutOfRange, address)
	}
	m.ram[address] = value
	return nil
}

// ReadWord returns the big-endian 16 bit word at address and address+1.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if int(address)+1 >= addr.MemorySize {
		return 0, fmt.Errorf("%w: word read at 0x%04X", ErrAddressOutOfRange, address)
	}
	return uint16(m.ram[address])<<8 | uint16(m.ram[address+1]), nil
}

// ReadRange returns a copy of n bytes starting at address.
// The whole range must be inside memory.
func (m *Memory) ReadRange(address uint16, n int) ([]byte, error) {
	if int(address)+n > addr.MemorySize {
		return nil, fmt.Errorf("%w: %d bytes at 0x%04X", ErrAddressOutOfRange, n, address)
	}
	out := make([]byte, n)
	copy(out, m.ram[address:])
	return out, nil
}

// Snapshot returns up to n bytes starting at start, clamped to the end of memory.
// Used by debug views, never fails.
func (m *Memory) Snapshot(start uint16, n int) []byte {
	if int(start) >= addr.MemorySize {
		return nil
	}
	end := int(start) + n
	if end > addr.MemorySize {
		end = addr.MemorySize
	}
	out := make([]byte, end-int(start))
	copy(out, m.ram[start:end])
	return out
}

// Reset clears memory, reloads the font and restores the last loaded program, if any.
func (m *Memory) Reset() {
	m.ram = [addr.MemorySize]byte{}
	m.loadFont()
	copy(m.ram[addr.ProgramStart:], m.program)
}

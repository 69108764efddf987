package addr

// memory map
const (
	// MemorySize is the size of the whole addressable space.
	MemorySize = 0x1000
	// FontBase is where the built-in hexadecimal font is stored.
	FontBase uint16 = 0x050
	// ProgramStart is where programs are loaded and execution begins.
	ProgramStart uint16 = 0x200
	// MaxProgramSize is the largest program that fits between ProgramStart and the end of memory.
	MaxProgramSize = MemorySize - int(ProgramStart)
	// LastInstruction is the highest address an instruction can be fetched from.
	LastInstruction uint16 = MemorySize - 2
	// AddressMask keeps the 12 significant bits of an address.
	AddressMask uint16 = 0x0FFF
)

// font layout
const (
	// GlyphSize is the number of bytes (rows) of each font glyph.
	GlyphSize = 5
	// GlyphCount is the number of glyphs in the font, one per hex digit.
	GlyphCount = 16
)

// Glyph returns the address of the font sprite for the hex digit in the low nibble of v.
func Glyph(v uint8) uint16 {
	return FontBase + uint16(v&0x0F)*GlyphSize
}

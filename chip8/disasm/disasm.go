package disasm

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
)

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Opcode      uint16
	Instruction string
}

// Disassemble returns the mnemonic for an instruction word.
// Words that are not instructions are rendered as data.
func Disassemble(op uint16) string {
	x, y, n := bit.Nibble(op, 2), bit.Nibble(op, 1), bit.Nibble(op, 0)
	kk, nnn := bit.Low(op), bit.Addr(op)

	switch bit.Nibble(op, 3) {
	case 0x0:
		switch op {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
	case 0x1:
		return fmt.Sprintf("JP 0x%03X", nnn)
	case 0x2:
		return fmt.Sprintf("CALL 0x%03X", nnn)
	case 0x3:
		return fmt.Sprintf("SE V%X, 0x%02X", x, kk)
	case 0x4:
		return fmt.Sprintf("SNE V%X, 0x%02X", x, kk)
	case 0x5:
		if n == 0 {
			return fmt.Sprintf("SE V%X, V%X", x, y)
		}
	case 0x6:
		return fmt.Sprintf("LD V%X, 0x%02X", x, kk)
	case 0x7:
		return fmt.Sprintf("ADD V%X, 0x%02X", x, kk)
	case 0x8:
		if mnemonic, ok := aluMnemonics[n]; ok {
			return fmt.Sprintf("%s V%X, V%X", mnemonic, x, y)
		}
	case 0x9:
		if n == 0 {
			return fmt.Sprintf("SNE V%X, V%X", x, y)
		}
	case 0xA:
		return fmt.Sprintf("LD I, 0x%03X", nnn)
	case 0xB:
		return fmt.Sprintf("JP V0, 0x%03X", nnn)
	case 0xC:
		return fmt.Sprintf("RND V%X, 0x%02X", x, kk)
	case 0xD:
		return fmt.Sprintf("DRW V%X, V%X, %d", x, y, n)
	case 0xE:
		switch kk {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case 0xF:
		if template, ok := fTemplates[kk]; ok {
			return fmt.Sprintf(template, x)
		}
	}

	return fmt.Sprintf("DW 0x%04X", op)
}

var aluMnemonics = map[uint8]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

var fTemplates = map[uint8]string{
	0x07: "LD V%X, DT",
	0x0A: "LD V%X, K",
	0x15: "LD DT, V%X",
	0x18: "LD ST, V%X",
	0x1E: "ADD I, V%X",
	0x29: "LD F, V%X",
	0x33: "LD B, V%X",
	0x55: "LD [I], V%X",
	0x65: "LD V%X, [I]",
}

// DisassembleBytes disassembles the instruction at offset in data.
// A trailing odd byte is rendered as data.
func DisassembleBytes(data []byte, offset int) string {
	if offset+1 >= len(data) {
		if offset < len(data) {
			return fmt.Sprintf("DB 0x%02X", data[offset])
		}
		return "??"
	}
	return Disassemble(bit.Combine(data[offset], data[offset+1]))
}

// DisassembleRange disassembles count instructions from a memory snapshot
// that begins at address start.
func DisassembleRange(data []byte, start uint16, count int) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	for offset := 0; offset+1 < len(data) && len(lines) < count; offset += 2 {
		op := bit.Combine(data[offset], data[offset+1])
		lines = append(lines, DisassemblyLine{
			Address:     start + uint16(offset),
			Opcode:      op,
			Instruction: Disassemble(op),
		})
	}
	return lines
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = "→"
	}

	return fmt.Sprintf("%s0x%04X: %04X  %s", prefix, line.Address, line.Opcode, line.Instruction)
}

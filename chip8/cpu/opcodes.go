package cpu

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
)

//CLS, RET
//#0x00E0, #0x00EE:
func opcode0x0(c *CPU, op uint16) error {
	switch op {
	case 0x00E0:
		c.screen.Clear()
		return nil
	case 0x00EE:
		ret, err := c.stack.Pop()
		if err != nil {
			return fmt.Errorf("RET at 0x%04X: %w", c.pc-2, err)
		}
		c.pc = ret
		return nil
	default:
		// 0nnn calls machine code on the original hardware, unsupported.
		return illegal(c, op)
	}
}

//JP nnn
//#0x1nnn:
func opcode0x1(c *CPU, op uint16) error {
	c.pc = bit.Addr(op)
	return nil
}

//CALL nnn
//#0x2nnn:
func opcode0x2(c *CPU, op uint16) error {
	if err := c.stack.Push(c.pc); err != nil {
		return fmt.Errorf("CALL at 0x%04X: %w", c.pc-2, err)
	}
	c.pc = bit.Addr(op)
	return nil
}

//SE Vx, kk
//#0x3xkk:
func opcode0x3(c *CPU, op uint16) error {
	x, kk := xkk(op)
	if c.v[x] == kk {
		c.skip()
	}
	return nil
}

//SNE Vx, kk
//#0x4xkk:
func opcode0x4(c *CPU, op uint16) error {
	x, kk := xkk(op)
	if c.v[x] != kk {
		c.skip()
	}
	return nil
}

//SE Vx, Vy
//#0x5xy0:
func opcode0x5(c *CPU, op uint16) error {
	if bit.Nibble(op, 0) != 0 {
		return illegal(c, op)
	}
	x, y := xy(op)
	if c.v[x] == c.v[y] {
		c.skip()
	}
	return nil
}

//LD Vx, kk
//#0x6xkk:
func opcode0x6(c *CPU, op uint16) error {
	x, kk := xkk(op)
	c.v[x] = kk
	return nil
}

//ADD Vx, kk
//#0x7xkk:
func opcode0x7(c *CPU, op uint16) error {
	x, kk := xkk(op)
	c.v[x] += kk
	return nil
}

//ALU Vx, Vy
//#0x8xy0 - #0x8xy7, #0x8xyE:
func opcode0x8(c *CPU, op uint16) error {
	x, y := xy(op)
	vx, vy := c.v[x], c.v[y]

	switch bit.Nibble(op, 0) {
	case 0x0: // LD Vx, Vy
		c.v[x] = vy
	case 0x1: // OR Vx, Vy
		c.v[x] = vx | vy
		c.logicFlag()
	case 0x2: // AND Vx, Vy
		c.v[x] = vx & vy
		c.logicFlag()
	case 0x3: // XOR Vx, Vy
		c.v[x] = vx ^ vy
		c.logicFlag()
	case 0x4: // ADD Vx, Vy
		result, carry := bit.CheckedAdd(vx, vy)
		c.v[x] = result
		c.v.flag(carry)
	case 0x5: // SUB Vx, Vy
		result, borrow := bit.CheckedSub(vx, vy)
		c.v[x] = result
		c.v.flag(!borrow)
	case 0x6: // SHR Vx {, Vy}
		src := c.shiftSource(vx, vy)
		c.v[x] = src >> 1
		c.v.flag(bit.IsSet(0, src))
	case 0x7: // SUBN Vx, Vy
		result, borrow := bit.CheckedSub(vy, vx)
		c.v[x] = result
		c.v.flag(!borrow)
	case 0xE: // SHL Vx {, Vy}
		src := c.shiftSource(vx, vy)
		c.v[x] = src << 1
		c.v.flag(bit.IsSet(7, src))
	default:
		return illegal(c, op)
	}
	return nil
}

func (c *CPU) shiftSource(vx, vy uint8) uint8 {
	if c.quirks.ShiftUsesVY {
		return vy
	}
	return vx
}

func (c *CPU) logicFlag() {
	if c.quirks.LogicResetsVF {
		c.v[VF] = 0
	}
}

//SNE Vx, Vy
//#0x9xy0:
func opcode0x9(c *CPU, op uint16) error {
	if bit.Nibble(op, 0) != 0 {
		return illegal(c, op)
	}
	x, y := xy(op)
	if c.v[x] != c.v[y] {
		c.skip()
	}
	return nil
}

//LD I, nnn
//#0xAnnn:
func opcode0xA(c *CPU, op uint16) error {
	c.i = bit.Addr(op)
	return nil
}

//JP V0, nnn
//#0xBnnn:
func opcode0xB(c *CPU, op uint16) error {
	base := c.v[0]
	if c.quirks.JumpUsesVX {
		base = c.v[bit.Nibble(op, 2)]
	}
	c.pc = bit.Addr(op) + uint16(base)
	return nil
}

//RND Vx, kk
//#0xCxkk:
func opcode0xC(c *CPU, op uint16) error {
	x, kk := xkk(op)
	c.v[x] = uint8(c.rng.Uint32()) & kk
	return nil
}

//DRW Vx, Vy, n
//#0xDxyn:
func opcode0xD(c *CPU, op uint16) error {
	x, y := xy(op)
	n := int(bit.Nibble(op, 0))

	sprite, err := c.bus.ReadRange(c.iAddr(), n)
	if err != nil {
		return fmt.Errorf("DRW at 0x%04X: %w", c.pc-2, err)
	}

	var collision bool
	if c.quirks.ClipSprites {
		collision = c.screen.DrawSpriteClipped(c.v[x], c.v[y], sprite)
	} else {
		collision = c.screen.DrawSprite(c.v[x], c.v[y], sprite)
	}
	c.v.flag(collision)
	return nil
}

//SKP Vx, SKNP Vx
//#0xEx9E, #0xExA1:
func opcode0xE(c *CPU, op uint16) error {
	x, kk := xkk(op)
	pressed := c.keys.IsPressed(c.v[x])

	switch kk {
	case 0x9E:
		if pressed {
			c.skip()
		}
	case 0xA1:
		if !pressed {
			c.skip()
		}
	default:
		return illegal(c, op)
	}
	return nil
}

//LD Fx family
//#0xFx07 - #0xFx65:
func opcode0xF(c *CPU, op uint16) error {
	x, kk := xkk(op)

	switch kk {
	case 0x07: // LD Vx, DT
		c.v[x] = c.timers.Delay()
	case 0x0A: // LD Vx, K
		c.waitForKey(x)
	case 0x15: // LD DT, Vx
		c.timers.SetDelay(c.v[x])
	case 0x18: // LD ST, Vx
		c.timers.SetSound(c.v[x])
	case 0x1E: // ADD I, Vx
		c.i += uint16(c.v[x])
	case 0x29: // LD F, Vx
		c.i = addr.Glyph(c.v[x])
	case 0x33: // LD B, Vx
		return c.storeBCD(x)
	case 0x55: // LD [I], Vx
		return c.storeRegisters(x)
	case 0x65: // LD Vx, [I]
		return c.loadRegisters(x)
	default:
		return illegal(c, op)
	}
	return nil
}

func (c *CPU) storeBCD(x uint8) error {
	base := c.iAddr()
	if int(base)+3 > addr.MemorySize {
		return fmt.Errorf("BCD at 0x%04X: %w", c.pc-2, errRange(base, 3))
	}

	h, t, u := bit.BCD(c.v[x])
	for offset, digit := range [3]uint8{h, t, u} {
		if err := c.bus.Write(base+uint16(offset), digit); err != nil {
			return err
		}
	}
	return nil
}

func (c *CPU) storeRegisters(x uint8) error {
	base := c.iAddr()
	count := int(x) + 1
	if int(base)+count > addr.MemorySize {
		return fmt.Errorf("store registers at 0x%04X: %w", c.pc-2, errRange(base, count))
	}

	for r := 0; r < count; r++ {
		if err := c.bus.Write(base+uint16(r), c.v[r]); err != nil {
			return err
		}
	}
	if c.quirks.LoadStoreIncrementsI {
		c.i += uint16(count)
	}
	return nil
}

func (c *CPU) loadRegisters(x uint8) error {
	count := int(x) + 1
	data, err := c.bus.ReadRange(c.iAddr(), count)
	if err != nil {
		return fmt.Errorf("load registers at 0x%04X: %w", c.pc-2, err)
	}

	copy(c.v[:count], data)
	if c.quirks.LoadStoreIncrementsI {
		c.i += uint16(count)
	}
	return nil
}

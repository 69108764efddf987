package video

const (
	// Width of the display in pixels.
	Width = 64
	// Height of the display in pixels.
	Height = 32
)

// Display is the 64x32 monochrome pixel grid. It is only ever changed by
// Clear and DrawSprite, and tracks whether it changed since the last frame.
type Display struct {
	pixels [Height][Width]bool
	dirty  bool
}

func NewDisplay() *Display {
	return &Display{}
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.pixels = [Height][Width]bool{}
	d.dirty = true
}

// DrawSprite XORs sprite rows onto the display with the top-left corner at (x, y).
// Each byte is a row, most significant bit leftmost. Coordinates wrap on both axes.
// Returns true if any lit pixel was turned off.
func (d *Display) DrawSprite(x, y uint8, sprite []byte) bool {
	return d.draw(x, y, sprite, false)
}

// DrawSpriteClipped behaves like DrawSprite, but pixels falling past the right or
// bottom edge are dropped instead of wrapping. The start position still wraps.
func (d *Display) DrawSpriteClipped(x, y uint8, sprite []byte) bool {
	return d.draw(x, y, sprite, true)
}

func (d *Display) draw(x, y uint8, sprite []byte, clip bool) bool {
	collision := false
	originX := int(x) % Width
	originY := int(y) % Height

	for row, line := range sprite {
		py := originY + row
		if py >= Height {
			if clip {
				break
			}
			py %= Height
		}

		for col := 0; col < 8; col++ {
			if line&(0x80>>col) == 0 {
				continue
			}

			px := originX + col
			if px >= Width {
				if clip {
					break
				}
				px %= Width
			}

			if d.pixels[py][px] {
				collision = true
			}
			d.pixels[py][px] = !d.pixels[py][px]
		}
	}

	if len(sprite) > 0 {
		d.dirty = true
	}
	return collision
}

// Pixel reports whether the pixel at (x, y) is lit. Coordinates wrap.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[mod(y, Height)][mod(x, Width)]
}

// Dirty reports whether the display changed since the last ClearDirty.
func (d *Display) Dirty() bool {
	return d.dirty
}

func (d *Display) ClearDirty() {
	d.dirty = false
}

// Reset turns every pixel off and marks the display as changed.
func (d *Display) Reset() {
	d.Clear()
}

// LitCount returns the number of lit pixels.
func (d *Display) LitCount() int {
	count := 0
	for y := range d.pixels {
		for x := range d.pixels[y] {
			if d.pixels[y][x] {
				count++
			}
		}
	}
	return count
}

func mod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

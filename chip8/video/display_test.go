package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay_DrawSprite(t *testing.T) {
	d := NewDisplay()

	collision := d.DrawSprite(0, 0, []byte{0xF0})

	assert.False(t, collision)
	for x := 0; x < 4; x++ {
		assert.True(t, d.Pixel(x, 0), "pixel (%d,0) should be lit", x)
	}
	assert.False(t, d.Pixel(4, 0))
	assert.Equal(t, 4, d.LitCount())
	assert.True(t, d.Dirty())
}

func TestDisplay_DrawSpriteTwiceClears(t *testing.T) {
	d := NewDisplay()
	glyph := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}

	assert.False(t, d.DrawSprite(10, 5, glyph))
	assert.NotZero(t, d.LitCount())

	assert.True(t, d.DrawSprite(10, 5, glyph), "second draw overlaps, must collide")
	assert.Zero(t, d.LitCount())
}

func TestDisplay_DrawSpriteNoOverlapNoCollision(t *testing.T) {
	d := NewDisplay()

	d.DrawSprite(0, 0, []byte{0xF0})
	assert.False(t, d.DrawSprite(0, 0, []byte{0x0F}))
	assert.Equal(t, 8, d.LitCount())
}

func TestDisplay_DrawSpriteWraps(t *testing.T) {
	tests := []struct {
		name   string
		x, y   uint8
		sprite []byte
		lit    [][2]int
	}{
		{
			name:   "right edge",
			x:      62,
			y:      0,
			sprite: []byte{0xF0},
			lit:    [][2]int{{62, 0}, {63, 0}, {0, 0}, {1, 0}},
		},
		{
			name:   "bottom edge",
			x:      0,
			y:      31,
			sprite: []byte{0x80, 0x80},
			lit:    [][2]int{{0, 31}, {0, 0}},
		},
		{
			name:   "start coordinates past the screen",
			x:      64 + 3,
			y:      32 + 2,
			sprite: []byte{0x80},
			lit:    [][2]int{{3, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDisplay()
			d.DrawSprite(tt.x, tt.y, tt.sprite)

			assert.Equal(t, len(tt.lit), d.LitCount())
			for _, p := range tt.lit {
				assert.True(t, d.Pixel(p[0], p[1]), "pixel %v should be lit", p)
			}
		})
	}
}

func TestDisplay_DrawSpriteClipped(t *testing.T) {
	d := NewDisplay()

	d.DrawSpriteClipped(62, 31, []byte{0xF0, 0xF0})

	assert.Equal(t, 2, d.LitCount())
	assert.True(t, d.Pixel(62, 31))
	assert.True(t, d.Pixel(63, 31))
	assert.False(t, d.Pixel(0, 31))
	assert.False(t, d.Pixel(62, 0))
}

func TestDisplay_ClearAndDirty(t *testing.T) {
	d := NewDisplay()
	d.DrawSprite(0, 0, []byte{0xFF})
	d.ClearDirty()
	assert.False(t, d.Dirty())

	d.Clear()

	assert.Zero(t, d.LitCount())
	assert.True(t, d.Dirty())
}

func TestFrameBuffer_Render(t *testing.T) {
	d := NewDisplay()
	d.DrawSprite(0, 0, []byte{0x80})
	fb := NewFrameBuffer()

	fb.Render(d)

	assert.True(t, fb.IsOn(0, 0))
	assert.False(t, fb.IsOn(1, 0))
	assert.Equal(t, uint32(OnColor), fb.GetPixel(0, 0))
	assert.Equal(t, uint32(OffColor), fb.GetPixel(63, 31))
	assert.Len(t, fb.ToSlice(), Width*Height)
}

func TestFrameBuffer_SetPalette(t *testing.T) {
	d := NewDisplay()
	d.DrawSprite(0, 0, []byte{0x80})
	fb := NewFrameBuffer()
	fb.SetPalette(0x33FF33FF, 0x001100FF)

	fb.Render(d)

	assert.Equal(t, uint32(0x33FF33FF), fb.GetPixel(0, 0))
	assert.Equal(t, uint32(0x001100FF), fb.GetPixel(1, 0))
}

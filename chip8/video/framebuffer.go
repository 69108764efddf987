package video

// Color is a packed 0xRRGGBBAA pixel value.
type Color uint32

const (
	OnColor  Color = 0xFFFFFFFF
	OffColor Color = 0x000000FF
)

// FrameBuffer is the rendered form of the display handed to backends.
type FrameBuffer struct {
	width   uint
	height  uint
	buffer  []uint32
	on, off Color
}

// NewFrameBuffer creates a frame buffer sized to the display, with all pixels off.
func NewFrameBuffer() *FrameBuffer {
	fb := &FrameBuffer{
		width:  Width,
		height: Height,
		buffer: make([]uint32, Width*Height),
		on:     OnColor,
		off:    OffColor,
	}
	for i := range fb.buffer {
		fb.buffer[i] = uint32(fb.off)
	}
	return fb
}

// SetPalette changes the colors used by Render for lit and unlit pixels.
func (fb *FrameBuffer) SetPalette(on, off Color) {
	fb.on, fb.off = on, off
}

func (fb *FrameBuffer) Width() uint {
	return fb.width
}

func (fb *FrameBuffer) Height() uint {
	return fb.height
}

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color Color) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

// IsOn reports whether the pixel at (x, y) holds the lit color.
func (fb *FrameBuffer) IsOn(x, y uint) bool {
	return fb.GetPixel(x, y) == uint32(fb.on)
}

// Render copies the display state into the frame buffer.
func (fb *FrameBuffer) Render(d *Display) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			color := fb.off
			if d.pixels[y][x] {
				color = fb.on
			}
			fb.buffer[y*Width+x] = uint32(color)
		}
	}
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

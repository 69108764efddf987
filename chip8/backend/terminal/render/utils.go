package render

import "github.com/valerio/go-chip8/chip8/video"

// IsLit reports whether a packed frame buffer pixel is a lit pixel.
// Anything other than the unlit color counts as lit.
func IsLit(pixel uint32) bool {
	return pixel != uint32(video.OffColor)
}

// HalfBlock returns the character drawing two vertically stacked pixels in
// a single terminal cell.
func HalfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}

// FitText truncates s to width runes, marking the cut with an ellipsis
// when there is room for one.
func FitText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width > 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}

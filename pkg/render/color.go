package render

import (
	"image/color"
	"math"
)

// Color is an 8-bit RGBA color. Channel arithmetic saturates at [0, 255].
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) Color {
	return Color{r, g, b, a}
}

// NewColor creates an opaque color, clamping each channel to [0, 255].
func NewColor(r, g, b int) Color {
	return NewColorA(r, g, b, 255)
}

// NewColorA creates a color, clamping each channel to [0, 255].
func NewColorA(r, g, b, a int) Color {
	return Color{clampChannel(r), clampChannel(g), clampChannel(b), clampChannel(a)}
}

// SaturatingAdd adds two colors channel by channel, alpha included.
// Each channel saturates at 255.
func SaturatingAdd(a, b Color) Color {
	return Color{
		clampChannel(int(a.R) + int(b.R)),
		clampChannel(int(a.G) + int(b.G)),
		clampChannel(int(a.B) + int(b.B)),
		clampChannel(int(a.A) + int(b.A)),
	}
}

// Scale multiplies every channel (alpha included) by f, truncates toward zero
// and clamps to [0, 255].
func Scale(c Color, f float64) Color {
	return Color{
		scaleChannel(c.R, f),
		scaleChannel(c.G, f),
		scaleChannel(c.B, f),
		scaleChannel(c.A, f),
	}
}

// ColorEqual reports whether all four channels are equal.
func ColorEqual(a, b Color) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B && a.A == b.A
}

func scaleChannel(v uint8, f float64) uint8 {
	s := math.Trunc(float64(v) * f)
	switch {
	case math.IsNaN(s), s <= 0:
		return 0
	case s >= 255:
		return 255
	}
	return uint8(s)
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Package colour provides perceptual colour conversion, colour difference
// metrics and dominant colour extraction for texture libraries.
package colour

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Pixel is a non-premultiplied colour with each channel normalised to [0, 1].
type Pixel struct {
	R, G, B, A float64
}

// PixelFromColor converts any color.Color to a non-premultiplied Pixel.
// Non-premultiplied inputs keep their colour channels even when transparent.
func PixelFromColor(c color.Color) Pixel {
	if n, ok := c.(color.NRGBA); ok {
		return Pixel{
			R: float64(n.R) / 0xff,
			G: float64(n.G) / 0xff,
			B: float64(n.B) / 0xff,
			A: float64(n.A) / 0xff,
		}
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Pixel{
		R: float64(n.R) / 0xffff,
		G: float64(n.G) / 0xffff,
		B: float64(n.B) / 0xffff,
		A: float64(n.A) / 0xffff,
	}
}

// NRGBA returns the pixel as an 8-bit non-premultiplied colour.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unitToByte(p.R),
		G: unitToByte(p.G),
		B: unitToByte(p.B),
		A: unitToByte(p.A),
	}
}

// Lab is a CIE L*a*b* colour (D65 white, L in [0, 100]) with an explicit
// alpha channel in [0, 1]. All clustering and colour comparison happens in
// this space.
type Lab struct {
	L, A, B float64
	Alpha   float64
}

// labAxes is the number of coordinates a Lab exposes through Axis.
const labAxes = 4

// ToLab converts a pixel into perceptual space.
// The conversion is deterministic: sRGB is linearised, mapped to XYZ and then to L*a*b*.
func ToLab(p Pixel) Lab {
	l, a, b := colorful.Color{R: p.R, G: p.G, B: p.B}.Lab()
	return Lab{L: l * 100, A: a * 100, B: b * 100, Alpha: p.A}
}

// Pixel converts the colour back to sRGB, clamping values that fall outside the gamut.
func (c Lab) Pixel() Pixel {
	rgb := c.colorful().Clamped()
	return Pixel{R: rgb.R, G: rgb.G, B: rgb.B, A: clampUnit(c.Alpha)}
}

// RGB returns the 8-bit sRGB representation of the colour.
func (c Lab) RGB() RGB {
	r, g, b := c.colorful().Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Hex returns the colour as a hex string (e.g. "#1a2b3c").
func (c Lab) Hex() string {
	return c.RGB().Hex()
}

// String returns the colour in the form "lab(53.24, 80.09, 67.20) a=1.00".
func (c Lab) String() string {
	return fmt.Sprintf("lab(%.2f, %.2f, %.2f) a=%.2f", c.L, c.A, c.B, c.Alpha)
}

// Axis returns the i-th coordinate of the colour: L, a, b, alpha.
func (c Lab) Axis(i int) float64 {
	switch i {
	case 0:
		return c.L
	case 1:
		return c.A
	case 2:
		return c.B
	default:
		return c.Alpha
	}
}

// Axes returns the number of coordinates exposed by Axis.
func (c Lab) Axes() int {
	return labAxes
}

// colorful maps the colour into go-colorful's representation, which keeps
// L*a*b* scaled down by 100.
func (c Lab) colorful() colorful.Color {
	return colorful.Lab(c.L/100, c.A/100, c.B/100)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unitToByte(v float64) uint8 {
	return uint8(clampUnit(v)*255 + 0.5)
}

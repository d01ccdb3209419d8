package mosaic

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultGradientStops are red, green and blue.
func DefaultGradientStops() []colorful.Color {
	return []colorful.Color{
		{R: 1, G: 0, B: 0},
		{R: 0, G: 1, B: 0},
		{R: 0, G: 0, B: 1},
	}
}

// Gradient renders a width×height image blending evenly spaced stops from left
// to right. Channels are interpolated linearly and written without gamma
// encoding. With fewer than two stops the image is a single flat colour.
func Gradient(width, height int, stops []colorful.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 || len(stops) == 0 {
		return img
	}

	for x := range width {
		c := gradientAt(stops, x, width)
		px := color.NRGBA{R: channelByte(c.R), G: channelByte(c.G), B: channelByte(c.B), A: 0xff}
		for y := range height {
			img.SetNRGBA(x, y, px)
		}
	}
	return img
}

// gradientAt returns the colour of column x of width.
func gradientAt(stops []colorful.Color, x, width int) colorful.Color {
	if len(stops) == 1 || width == 1 {
		return stops[0]
	}

	t := float64(x) / float64(width-1)
	segments := float64(len(stops) - 1)
	pos := t * segments
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	return stops[i].BlendRgb(stops[i+1], pos-float64(i))
}

// channelByte truncates a [0, 1] channel to a byte.
func channelByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v * 255)
}

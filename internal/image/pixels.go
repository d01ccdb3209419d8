package image

import (
	"image"

	"github.com/jmylchreest/tessera/internal/colour"
)

// Pixels returns every pixel of img in row-major order as non-premultiplied
// normalised channels.
func Pixels(img image.Image) []colour.Pixel {
	bounds := img.Bounds()
	pixels := make([]colour.Pixel, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixels = append(pixels, PixelAt(img, x, y))
		}
	}
	return pixels
}

// PixelAt returns the pixel of img at (x, y) as non-premultiplied normalised channels.
func PixelAt(img image.Image, x, y int) colour.Pixel {
	return colour.PixelFromColor(img.At(x, y))
}

// LoadPixels loads the image at path and returns its pixels.
func LoadPixels(loader Loader, path string) ([]colour.Pixel, error) {
	img, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	return Pixels(img), nil
}

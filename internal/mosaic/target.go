package mosaic

import (
	"image"

	"github.com/disintegration/gift"
)

// FitTarget downscales img so that it is at most width pixels wide, keeping the
// aspect ratio. Each remaining pixel becomes one tile. A width of zero, or one
// not smaller than the image, returns img unchanged.
func FitTarget(img image.Image, width int) image.Image {
	if width <= 0 || width >= img.Bounds().Dx() {
		return img
	}

	g := gift.New(gift.Resize(width, 0, gift.BoxResampling))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

package mosaic

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/tessera/internal/colour"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}

	colourTransparent = color.NRGBA{}
)

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func writeTexture(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, encodePNG(t, solidImage(4, 4, c)), 0o644); err != nil {
		t.Fatalf("failed to write texture: %v", err)
	}
	return path
}

// rgbTextures writes red, green and blue textures and returns their paths in that order.
func rgbTextures(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	return dir, []string{
		writeTexture(t, dir, "a-red.png", red),
		writeTexture(t, dir, "b-green.png", green),
		writeTexture(t, dir, "c-blue.png", blue),
	}
}

func fastExtractor(t *testing.T) *colour.DominantExtractor {
	t.Helper()
	cfg := colour.DefaultExtractorConfig()
	cfg.Runs = 3
	e, err := colour.NewDominantExtractor(cfg)
	if err != nil {
		t.Fatalf("NewDominantExtractor() error = %v", err)
	}
	return e
}

func closeTo(a, b color.NRGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= 1 && d(a.G, b.G) <= 1 && d(a.B, b.B) <= 1 && a.A == b.A
}

func imgNRGBA(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

package mosaic

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/tessera/internal/colour"
	imgio "github.com/jmylchreest/tessera/internal/image"
)

// SwatchPreview places tile beside a solid square of c, producing an image
// two tiles wide.
func SwatchPreview(tile image.Image, c colour.Lab, size int) *image.NRGBA {
	preview := image.NewNRGBA(image.Rect(0, 0, 2*size, size))

	draw.Draw(preview, image.Rect(0, 0, size, size), tile, tile.Bounds().Min, draw.Over)

	fill := image.NewUniform(c.Pixel().NRGBA())
	draw.Draw(preview, image.Rect(size, 0, 2*size, size), fill, image.Point{}, draw.Src)

	return preview
}

// WriteSwatchPreviews writes one PNG preview per swatch into dir, named after
// the texture. Textures sharing a name get a -N suffix. It returns the
// written paths in swatch order.
func WriteSwatchPreviews(dir string, swatches []colour.Swatch, tiles *TileCache) ([]string, error) {
	if tiles.Size() <= 0 {
		return nil, fmt.Errorf("swatch previews need a fixed tile size")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directory needs standard permissions
		return nil, fmt.Errorf("failed to create swatch directory: %w", err)
	}

	paths := make([]string, 0, len(swatches))
	used := make(map[string]bool, len(swatches))
	for _, s := range swatches {
		tile, err := tiles.Get(s.Texture)
		if err != nil {
			return nil, err
		}

		out := filepath.Join(dir, previewName(s.Texture, used))
		if err := imgio.Save(out, SwatchPreview(tile, s.Colour, tiles.Size())); err != nil {
			return nil, err
		}
		paths = append(paths, out)
	}
	return paths, nil
}

// previewName returns a .png name for texture not yet present in used.
func previewName(texture string, used map[string]bool) string {
	stem := strings.TrimSuffix(filepath.Base(texture), filepath.Ext(texture))
	candidate := stem + ".png"
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d.png", stem, i)
	}
	used[candidate] = true
	return candidate
}

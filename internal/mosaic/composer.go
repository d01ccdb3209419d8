package mosaic

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/draw"

	"github.com/jmylchreest/tessera/internal/colour"
	imgio "github.com/jmylchreest/tessera/internal/image"
)

// DefaultTileSize is the edge length of a pasted tile in output pixels.
const DefaultTileSize = 16

// RenderStats describes one render.
type RenderStats struct {
	// Tiles is the number of tiles pasted.
	Tiles int
	// Skipped counts target pixels left empty because they were not fully opaque.
	Skipped int
	// Queries counts index lookups; the rest were answered from the memo.
	Queries int
	// Textures is the number of distinct textures used.
	Textures int
	Elapsed  time.Duration
}

// Composer renders a target image as a grid of library textures.
type Composer struct {
	library  *Library
	tiles    *TileCache
	tileSize int
	logger   hclog.Logger

	// memo maps quantised target colours to texture paths.
	memo map[color.NRGBA]string
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithTileSize sets the output tile edge length.
func WithTileSize(size int) ComposerOption {
	return func(c *Composer) {
		c.tileSize = size
	}
}

// WithTileCache shares an existing tile cache. Its size must match the tile size.
func WithTileCache(tiles *TileCache) ComposerOption {
	return func(c *Composer) {
		c.tiles = tiles
	}
}

// WithComposerLogger sets the logger. The composer logs under the "composer" name.
func WithComposerLogger(l hclog.Logger) ComposerOption {
	return func(c *Composer) {
		c.logger = l
	}
}

// NewComposer creates a Composer drawing tiles from lib, decoded with loader.
func NewComposer(lib *Library, loader imgio.Loader, opts ...ComposerOption) *Composer {
	c := &Composer{
		library:  lib,
		tileSize: DefaultTileSize,
		logger:   hclog.NewNullLogger(),
		memo:     make(map[color.NRGBA]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tileSize <= 0 {
		c.tileSize = DefaultTileSize
	}
	if c.tiles == nil || c.tiles.Size() != c.tileSize {
		c.tiles = NewTileCache(loader, c.tileSize)
	}
	c.logger = c.logger.Named("composer")
	return c
}

// TileSize returns the output tile edge length.
func (c *Composer) TileSize() int {
	return c.tileSize
}

// Match returns the texture for one target colour. Colours are quantised to
// 8-bit RGBA before lookup so equal target pixels always share a texture.
func (c *Composer) Match(p colour.Pixel) (string, bool, error) {
	key := p.NRGBA()
	if path, ok := c.memo[key]; ok {
		return path, true, nil
	}

	path, err := c.library.Nearest(colour.ToLab(colour.PixelFromColor(key)))
	if err != nil {
		return "", false, err
	}
	c.memo[key] = path
	return path, false, nil
}

// Render returns a canvas tileSize times larger than target in each direction,
// with the closest texture pasted for every fully opaque target pixel.
// Other pixels stay transparent. ctx is checked once per row.
func (c *Composer) Render(ctx context.Context, target image.Image) (*image.NRGBA, RenderStats, error) {
	start := time.Now()
	var stats RenderStats

	bounds := target.Bounds()
	canvas := image.NewNRGBA(image.Rect(0, 0, bounds.Dx()*c.tileSize, bounds.Dy()*c.tileSize))
	used := make(map[string]struct{})

	c.logger.Debug("rendering", "target", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()), "tile", c.tileSize)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("render cancelled: %w", err)
		}

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := imgio.PixelAt(target, x, y)
			if p.A != 1 {
				stats.Skipped++
				continue
			}

			path, cached, err := c.Match(p)
			if err != nil {
				return nil, stats, fmt.Errorf("failed to match pixel (%d, %d): %w", x, y, err)
			}
			if !cached {
				stats.Queries++
			}

			tile, err := c.tiles.Get(path)
			if err != nil {
				return nil, stats, err
			}

			ox := (x - bounds.Min.X) * c.tileSize
			oy := (y - bounds.Min.Y) * c.tileSize
			dst := image.Rect(ox, oy, ox+c.tileSize, oy+c.tileSize)
			draw.Draw(canvas, dst, tile, tile.Bounds().Min, draw.Over)

			used[path] = struct{}{}
			stats.Tiles++
		}
	}

	stats.Textures = len(used)
	stats.Elapsed = time.Since(start)
	c.logger.Debug("rendered",
		"tiles", stats.Tiles,
		"skipped", stats.Skipped,
		"queries", stats.Queries,
		"textures", stats.Textures,
		"elapsed", stats.Elapsed)

	return canvas, stats, nil
}

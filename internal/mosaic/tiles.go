package mosaic

import (
	"fmt"
	"image"
	"sync"

	"github.com/nfnt/resize"

	imgio "github.com/jmylchreest/tessera/internal/image"
)

// TileCache decodes each texture once and keeps it resized to the tile size.
type TileCache struct {
	loader imgio.Loader
	size   int

	mu    sync.Mutex
	tiles map[string]image.Image
}

// NewTileCache creates a cache producing size×size tiles. A size of zero keeps
// textures at their native size.
func NewTileCache(loader imgio.Loader, size int) *TileCache {
	return &TileCache{
		loader: loader,
		size:   size,
		tiles:  make(map[string]image.Image),
	}
}

// Size returns the tile edge length, or zero for native-size tiles.
func (c *TileCache) Size() int {
	return c.size
}

// Len returns the number of decoded tiles held.
func (c *TileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tiles)
}

// Get returns the tile for path, decoding it on first use.
func (c *TileCache) Get(path string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tile, ok := c.tiles[path]; ok {
		return tile, nil
	}

	img, err := c.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tile %s: %w", path, err)
	}

	tile := fitTile(img, c.size)
	c.tiles[path] = tile
	return tile, nil
}

// fitTile scales img to size×size with nearest-neighbour sampling, which keeps
// pixel-art textures crisp.
func fitTile(img image.Image, size int) image.Image {
	b := img.Bounds()
	if size <= 0 || (b.Dx() == size && b.Dy() == size) {
		return img
	}
	return resize.Resize(uint(size), uint(size), img, resize.NearestNeighbor) // #nosec G115 -- size is positive
}

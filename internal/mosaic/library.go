// Package mosaic builds texture libraries and renders photomosaics from them.
package mosaic

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tessera/internal/colour"
	imgio "github.com/jmylchreest/tessera/internal/image"
	"github.com/jmylchreest/tessera/internal/index"
)

// resultExtractor is implemented by extractors that can report their run trace.
type resultExtractor interface {
	ExtractResult(pixels []colour.Pixel) (*colour.Dominant, error)
}

// Library is a set of textures indexed by their representative colour.
// It is immutable once built and safe for concurrent queries.
type Library struct {
	swatches []colour.Swatch
	index    *index.Index[string]
}

// Swatches returns the texture colours in build order.
func (l *Library) Swatches() []colour.Swatch {
	out := make([]colour.Swatch, len(l.swatches))
	copy(out, l.swatches)
	return out
}

// Len returns the number of textures in the library.
func (l *Library) Len() int {
	return l.index.Len()
}

// Metric returns the colour difference metric used for matching.
func (l *Library) Metric() colour.Metric {
	return l.index.Metric()
}

// Nearest returns the path of the texture whose colour is closest to c.
func (l *Library) Nearest(c colour.Lab) (string, error) {
	return l.index.Nearest(c)
}

// NearestSwatch returns the closest texture's entry and its distance to c.
func (l *Library) NearestSwatch(c colour.Lab) (index.Entry[string], float64, error) {
	return l.index.NearestEntry(c)
}

// ProgressFunc is called after each texture is reduced.
type ProgressFunc func(done, total int, swatch colour.Swatch)

// LibraryBuilder provides a fluent interface for constructing a Library.
type LibraryBuilder struct {
	extractor colour.Extractor
	loader    imgio.Loader
	metric    colour.Metric
	logger    hclog.Logger
	progress  ProgressFunc
}

// NewLibraryBuilder creates a builder with the default extractor, metric and a file loader.
func NewLibraryBuilder() *LibraryBuilder {
	extractor, _ := colour.NewDominantExtractor(colour.DefaultExtractorConfig())
	return &LibraryBuilder{
		extractor: extractor,
		loader:    imgio.NewFileLoader(),
		metric:    colour.DefaultMetric(),
		logger:    hclog.NewNullLogger(),
	}
}

// WithExtractor sets the colour extractor.
func (b *LibraryBuilder) WithExtractor(e colour.Extractor) *LibraryBuilder {
	b.extractor = e
	return b
}

// WithLoader sets the image loader used to read textures.
func (b *LibraryBuilder) WithLoader(l imgio.Loader) *LibraryBuilder {
	b.loader = l
	return b
}

// WithMetric sets the metric used by the library index.
func (b *LibraryBuilder) WithMetric(m colour.Metric) *LibraryBuilder {
	b.metric = m
	return b
}

// WithLogger sets the logger. The builder logs under the "library" name.
func (b *LibraryBuilder) WithLogger(l hclog.Logger) *LibraryBuilder {
	b.logger = l
	return b
}

// WithProgress registers a callback invoked after each texture.
func (b *LibraryBuilder) WithProgress(fn ProgressFunc) *LibraryBuilder {
	b.progress = fn
	return b
}

// Build reduces every texture in paths to one colour and indexes them in order.
// The first texture that fails aborts the build. ctx is checked between textures.
func (b *LibraryBuilder) Build(ctx context.Context, paths []string) (*Library, error) {
	logger := b.logger.Named("library")
	start := time.Now()

	swatches := make([]colour.Swatch, 0, len(paths))
	entries := make([]index.Entry[string], 0, len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("library build cancelled after %d of %d textures: %w", i, len(paths), err)
		}

		swatch, err := b.reduce(path)
		if err != nil {
			return nil, fmt.Errorf("failed to reduce texture %s: %w", path, err)
		}

		swatches = append(swatches, swatch)
		entries = append(entries, index.Entry[string]{Colour: swatch.Colour, ID: path})

		if b.progress != nil {
			b.progress(i+1, len(paths), swatch)
		}
	}

	lib := &Library{
		swatches: swatches,
		index:    index.Build(entries, index.WithMetric(b.metric)),
	}

	logger.Info("library built", "textures", lib.Len(), "metric", b.metric.Name(), "elapsed", time.Since(start))
	return lib, nil
}

// reduce loads one texture and extracts its representative colour.
func (b *LibraryBuilder) reduce(path string) (colour.Swatch, error) {
	logger := b.logger.Named("library")
	start := time.Now()

	pixels, err := imgio.LoadPixels(b.loader, path)
	if err != nil {
		return colour.Swatch{}, err
	}

	swatch := colour.Swatch{Texture: path}
	if re, ok := b.extractor.(resultExtractor); ok {
		d, err := re.ExtractResult(pixels)
		if err != nil {
			return colour.Swatch{}, err
		}
		swatch.Colour = d.Colour
		swatch.Score = d.Run.Score
	} else {
		c, err := b.extractor.Extract(pixels)
		if err != nil {
			return colour.Swatch{}, err
		}
		swatch.Colour = c
	}

	logger.Debug("found dominant colour",
		"texture", filepath.Base(path),
		"colour", swatch.Colour.Hex(),
		"alpha", swatch.Colour.Alpha,
		"elapsed", time.Since(start))

	return swatch, nil
}

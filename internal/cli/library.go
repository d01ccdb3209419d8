package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jmylchreest/tessera/internal/colour"
	"github.com/jmylchreest/tessera/internal/mosaic"
)

// openLibrary resolves ref and builds its colour index. The returned source
// must be closed once the textures are no longer needed.
func (a *app) openLibrary(ctx context.Context, ref string) (*mosaic.Library, *mosaic.Source, error) {
	extractor, err := colour.NewExtractor(a.settings.ExtractorConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	metric, err := colour.NewMetric(a.settings.Metric)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	src, err := mosaic.OpenSource(ctx, ref, mosaic.SourceOptions{
		CacheDir: a.settings.CacheDir,
		Subdir:   a.settings.Subdir,
		Logger:   a.logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open library: %w", err)
	}

	cfg := a.settings.ExtractorConfig()
	a.logger.Info("building library",
		"source", ref,
		"textures", len(src.Files),
		"algorithm", cfg.Algorithm,
		"runs", cfg.Runs,
		"clusters", cfg.Clusters)

	lib, err := mosaic.NewLibraryBuilder().
		WithExtractor(extractor).
		WithMetric(metric).
		WithLogger(a.logger).
		Build(ctx, src.Files)
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}

	return lib, src, nil
}

// textureName returns path relative to the library directory when possible.
func textureName(src *mosaic.Source, path string) string {
	if rel, err := filepath.Rel(src.Dir, path); err == nil {
		return rel
	}
	return path
}

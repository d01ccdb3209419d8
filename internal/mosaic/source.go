package mosaic

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tessera/internal/compression"
	imgio "github.com/jmylchreest/tessera/internal/image"
	"github.com/jmylchreest/tessera/internal/util/imagecache"
)

// SourceOptions configures how a library reference is resolved.
type SourceOptions struct {
	// CacheDir holds downloaded texture packs. Empty uses the default cache.
	CacheDir string
	// Subdir restricts archive extraction to one directory inside the pack.
	Subdir string
	// Fetch overrides how remote packs are downloaded.
	Fetch imagecache.Fetcher
	// Logger receives progress messages. Defaults to a null logger.
	Logger hclog.Logger
}

// Source is a resolved texture library: a directory and its textures in name order.
type Source struct {
	Dir   string
	Files []string

	cleanup func() error
}

// Close removes any temporary files created while resolving the source.
func (s *Source) Close() error {
	if s.cleanup == nil {
		return nil
	}
	err := s.cleanup()
	s.cleanup = nil
	return err
}

// OpenSource resolves ref, a directory, a texture-pack archive or an HTTP(S)
// URL of an archive, into a list of texture files.
func OpenSource(ctx context.Context, ref string, opts SourceOptions) (*Source, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("source")

	if ref == "" {
		return nil, fmt.Errorf("library path cannot be empty")
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if !compression.IsArchive(ref) {
			return nil, fmt.Errorf("remote libraries must be archives (.zip, .tar.gz, .tar.xz, .tar.bz2): %s", ref)
		}
		logger.Debug("fetching texture pack", "url", ref)
		path, err := imagecache.DownloadAndCache(ctx, ref, imagecache.CacheOptions{
			CacheDir: opts.CacheDir,
			Fetch:    opts.Fetch,
		})
		if err != nil {
			return nil, err
		}
		return openArchive(path, opts.Subdir, logger)
	}

	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to access library: %w", err)
	}

	if info.IsDir() {
		files, err := imgio.ScanDirectoryForImages(ref)
		if err != nil {
			return nil, err
		}
		return &Source{Dir: ref, Files: files}, nil
	}

	if compression.IsArchive(ref) {
		return openArchive(ref, opts.Subdir, logger)
	}

	return nil, fmt.Errorf("library must be a directory or an archive: %s", ref)
}

// openArchive unpacks an archive into a temporary directory removed by Source.Close.
func openArchive(path, subdir string, logger hclog.Logger) (*Source, error) {
	dir, err := os.MkdirTemp("", "tessera-pack-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(dir) }

	result, err := compression.ExtractTextures(path, dir, compression.ExtractOptions{Subdir: subdir})
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("failed to extract texture pack %s: %w", path, err)
	}
	logger.Debug("extracted texture pack", "archive", path, "textures", len(result.Files), "skipped", result.Skipped)

	files, err := imgio.ScanDirectoryForImages(dir)
	if err != nil {
		_ = cleanup()
		return nil, err
	}

	return &Source{Dir: dir, Files: files, cleanup: cleanup}, nil
}

// Package compression extracts texture packs distributed as archives.
//
// Only image files are extracted. Nested directories in the archive are
// flattened into the destination so a pack can be used as a library directory.
package compression

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/tessera/internal/image"
	"github.com/jmylchreest/tessera/internal/security"
)

const (
	// DefaultMaxFileBytes limits the decompressed size of a single texture.
	DefaultMaxFileBytes = 64 * 1024 * 1024

	// DefaultMaxTotalBytes limits the decompressed size of a whole pack.
	DefaultMaxTotalBytes = 1024 * 1024 * 1024
)

// Format identifies a supported archive format.
type Format string

const (
	FormatZip   Format = "zip"
	FormatTarGz Format = "tar.gz"
	FormatTarXz Format = "tar.xz"
	FormatTarBz Format = "tar.bz2"
)

// ExtractOptions configures texture extraction.
type ExtractOptions struct {
	// Subdir restricts extraction to entries below this archive path,
	// e.g. "assets/minecraft/textures/block". Empty extracts every image.
	Subdir string

	// MaxFileBytes limits a single extracted file. Zero uses DefaultMaxFileBytes.
	MaxFileBytes int64

	// MaxTotalBytes limits all extracted files. Zero uses DefaultMaxTotalBytes.
	MaxTotalBytes int64
}

// ExtractResult contains the result of an extraction operation.
type ExtractResult struct {
	// Dir is the directory the textures were written to.
	Dir string
	// Files lists the extracted textures in archive order.
	Files []string
	// Skipped counts archive entries that were not images or were outside Subdir.
	Skipped int
}

// DetectFormat returns the archive format implied by a file name or URL.
func DetectFormat(name string) (Format, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip, true
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz, true
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return FormatTarXz, true
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz"), strings.HasSuffix(lower, ".tbz2"):
		return FormatTarBz, true
	}
	return "", false
}

// IsArchive reports whether name has a supported archive extension.
func IsArchive(name string) bool {
	_, ok := DetectFormat(name)
	return ok
}

// ExtractTextures unpacks the image files of the archive at archivePath into destDir.
func ExtractTextures(archivePath, destDir string, opts ExtractOptions) (*ExtractResult, error) {
	format, ok := DetectFormat(archivePath)
	if !ok {
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}

	data, err := os.ReadFile(archivePath) // #nosec G304 - User-specified archive path
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	return ExtractTexturesFromBytes(data, format, destDir, opts)
}

// ExtractTexturesFromBytes unpacks image files from archive data of the given format.
func ExtractTexturesFromBytes(data []byte, format Format, destDir string, opts ExtractOptions) (*ExtractResult, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil { // #nosec G301 - Extraction directory needs standard permissions
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	w := newTextureWriter(destDir, opts)

	var err error
	switch format {
	case FormatZip:
		err = extractFromZip(data, w)
	case FormatTarGz, FormatTarXz, FormatTarBz:
		err = extractFromTar(data, format, w)
	default:
		err = fmt.Errorf("unsupported archive format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	if len(w.result.Files) == 0 {
		return nil, fmt.Errorf("no supported image files found in archive")
	}
	return &w.result, nil
}

// textureWriter decides which entries to keep and writes them with unique,
// flattened names.
type textureWriter struct {
	destDir   string
	subdir    string
	maxFile   int64
	remaining int64
	used      map[string]bool
	result    ExtractResult
}

func newTextureWriter(destDir string, opts ExtractOptions) *textureWriter {
	maxFile := opts.MaxFileBytes
	if maxFile <= 0 {
		maxFile = DefaultMaxFileBytes
	}
	maxTotal := opts.MaxTotalBytes
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotalBytes
	}

	subdir := strings.Trim(path.Clean("/"+opts.Subdir), "/")

	return &textureWriter{
		destDir:   destDir,
		subdir:    subdir,
		maxFile:   maxFile,
		remaining: maxTotal,
		used:      make(map[string]bool),
		result:    ExtractResult{Dir: destDir},
	}
}

// accept validates an archive entry name and reports whether it should be extracted.
func (w *textureWriter) accept(name string) (bool, error) {
	if err := security.ValidateFilePath(name, w.destDir); err != nil {
		return false, fmt.Errorf("invalid archive entry %q: %w", name, err)
	}

	if !image.IsImageFile(name) {
		w.result.Skipped++
		return false, nil
	}

	if w.subdir != "" && path.Dir(path.Clean(name)) != w.subdir {
		w.result.Skipped++
		return false, nil
	}

	return true, nil
}

// target returns a destination path for name that does not collide with an
// earlier entry.
func (w *textureWriter) target(name string) string {
	base := path.Base(name)
	candidate := base
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 2; w.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	w.used[candidate] = true
	return filepath.Join(w.destDir, candidate)
}

// record registers a written file and charges it against the total budget.
func (w *textureWriter) record(destPath string, written int64) error {
	w.remaining -= written
	if w.remaining < 0 {
		return fmt.Errorf("archive exceeds maximum extracted size")
	}
	w.result.Files = append(w.result.Files, destPath)
	return nil
}

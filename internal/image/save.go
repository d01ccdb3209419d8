package image

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// IsSupportedOutput reports whether Save can encode to path's extension.
func IsSupportedOutput(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// Save encodes img to path, choosing PNG or JPEG from the file extension.
func Save(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedOutput(path) {
		return fmt.Errorf("unsupported output format: %s (supported: .png, .jpg, .jpeg)", ext)
	}

	out, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	var encodeErr error
	switch ext {
	case ".png":
		encodeErr = png.Encode(out, img)
	default:
		encodeErr = jpeg.Encode(out, img, &jpeg.Options{Quality: 92})
	}
	closeErr := out.Close()

	if encodeErr != nil {
		return fmt.Errorf("failed to encode %s: %w", path, encodeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output file: %w", closeErr)
	}
	return nil
}

package compression

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jmylchreest/tessera/internal/security"
)

// extractFromZip extracts textures from a zip archive.
func extractFromZip(data []byte, w *textureWriter) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to create zip reader: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		ok, err := w.accept(f.Name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if err := extractZipFile(f, w); err != nil {
			return err
		}
	}

	return nil
}

func extractZipFile(f *zip.File, w *textureWriter) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
	}
	defer rc.Close()

	destPath := w.target(f.Name)
	written, err := writeLimited(destPath, rc, w.maxFile)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return w.record(destPath, written)
}

// writeLimited copies r into a new file at destPath, failing when more than maxBytes are read.
func writeLimited(destPath string, r io.Reader, maxBytes int64) (int64, error) {
	out, err := os.Create(destPath) // #nosec G304 - Destination path built from a validated entry name
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, copyErr := io.Copy(out, security.NewLimitedReader(r, maxBytes))
	closeErr := out.Close()

	if copyErr != nil {
		return written, copyErr
	}
	if closeErr != nil {
		return written, fmt.Errorf("failed to close file: %w", closeErr)
	}
	return written, nil
}

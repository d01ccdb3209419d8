package compression

import (
	"archive/tar"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// tarReader wraps archive data in the decompressor for format.
func tarReader(data []byte, format Format) (*tar.Reader, func(), error) {
	noop := func() {}
	switch format {
	case FormatTarGz:
		gzr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return tar.NewReader(gzr), func() { _ = gzr.Close() }, nil
	case FormatTarXz:
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return tar.NewReader(xzr), noop, nil
	case FormatTarBz:
		return tar.NewReader(bzip2.NewReader(bytes.NewReader(data))), noop, nil
	}
	return nil, noop, fmt.Errorf("not a tar format: %s", format)
}

// extractFromTar extracts textures from a compressed tar archive.
func extractFromTar(data []byte, format Format, w *textureWriter) error {
	tr, closeFn, err := tarReader(data, format)
	if err != nil {
		return err
	}
	defer closeFn()

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar archive: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		ok, err := w.accept(header.Name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		destPath := w.target(header.Name)
		written, err := writeLimited(destPath, tr, w.maxFile)
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", header.Name, err)
		}
		if err := w.record(destPath, written); err != nil {
			return err
		}
	}
}

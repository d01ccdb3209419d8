package compression

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

type archiveEntry struct {
	name string
	body string
}

func buildZip(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func writeTar(t *testing.T, w *tar.Writer, entries []archiveEntry) {
	t.Helper()
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if err := w.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write tar header: %v", err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatalf("failed to write tar entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close tar: %v", err)
	}
}

func buildTarGz(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	writeTar(t, tar.NewWriter(gzw), entries)
	if err := gzw.Close(); err != nil {
		t.Fatalf("failed to close gzip: %v", err)
	}
	return buf.Bytes()
}

func buildTarXz(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("failed to create xz writer: %v", err)
	}
	writeTar(t, tar.NewWriter(xzw), entries)
	if err := xzw.Close(); err != nil {
		t.Fatalf("failed to close xz: %v", err)
	}
	return buf.Bytes()
}

var packEntries = []archiveEntry{
	{"pack.mcmeta", "{}"},
	{"assets/textures/block/stone.png", "stone"},
	{"assets/textures/block/dirt.png", "dirt"},
	{"assets/textures/item/stone.png", "item-stone"},
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		want   Format
		wantOK bool
	}{
		{"pack.zip", FormatZip, true},
		{"PACK.ZIP", FormatZip, true},
		{"pack.tar.gz", FormatTarGz, true},
		{"pack.tgz", FormatTarGz, true},
		{"https://example.com/pack.tar.xz", FormatTarXz, true},
		{"pack.tar.bz2", FormatTarBz, true},
		{"pack.tar", "", false},
		{"stone.png", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectFormat(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DetectFormat(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
			if IsArchive(tt.name) != tt.wantOK {
				t.Errorf("IsArchive(%q) = %v, want %v", tt.name, !tt.wantOK, tt.wantOK)
			}
		})
	}
}

func TestExtractTexturesFormats(t *testing.T) {
	builders := map[Format]func(*testing.T, []archiveEntry) []byte{
		FormatZip:   buildZip,
		FormatTarGz: buildTarGz,
		FormatTarXz: buildTarXz,
	}

	for format, build := range builders {
		t.Run(string(format), func(t *testing.T) {
			dest := t.TempDir()
			result, err := ExtractTexturesFromBytes(build(t, packEntries), format, dest, ExtractOptions{})
			if err != nil {
				t.Fatalf("ExtractTexturesFromBytes() error = %v", err)
			}

			if len(result.Files) != 3 {
				t.Fatalf("Expected 3 textures, got %d: %v", len(result.Files), result.Files)
			}
			if result.Skipped != 1 {
				t.Errorf("Expected 1 skipped entry, got %d", result.Skipped)
			}

			want := []string{"stone.png", "dirt.png", "stone-2.png"}
			for i, name := range want {
				if filepath.Base(result.Files[i]) != name {
					t.Errorf("Files[%d] = %s, want %s", i, filepath.Base(result.Files[i]), name)
				}
			}

			data, err := os.ReadFile(filepath.Join(dest, "stone-2.png"))
			if err != nil {
				t.Fatalf("failed to read extracted file: %v", err)
			}
			if string(data) != "item-stone" {
				t.Errorf("stone-2.png content = %q, want item-stone", data)
			}
		})
	}
}

func TestExtractTexturesSubdir(t *testing.T) {
	dest := t.TempDir()
	result, err := ExtractTexturesFromBytes(buildZip(t, packEntries), FormatZip, dest, ExtractOptions{Subdir: "assets/textures/block/"})
	if err != nil {
		t.Fatalf("ExtractTexturesFromBytes() error = %v", err)
	}

	if len(result.Files) != 2 {
		t.Fatalf("Expected 2 textures, got %v", result.Files)
	}
	if filepath.Base(result.Files[0]) != "stone.png" || filepath.Base(result.Files[1]) != "dirt.png" {
		t.Errorf("unexpected files: %v", result.Files)
	}
}

func TestExtractTexturesErrors(t *testing.T) {
	t.Run("path traversal", func(t *testing.T) {
		data := buildZip(t, []archiveEntry{{"../evil.png", "x"}})
		if _, err := ExtractTexturesFromBytes(data, FormatZip, t.TempDir(), ExtractOptions{}); err == nil {
			t.Error("Expected error for path traversal entry")
		}
	})

	t.Run("no images", func(t *testing.T) {
		data := buildTarGz(t, []archiveEntry{{"readme.txt", "hello"}})
		if _, err := ExtractTexturesFromBytes(data, FormatTarGz, t.TempDir(), ExtractOptions{}); err == nil {
			t.Error("Expected error for archive without images")
		}
	})

	t.Run("file too large", func(t *testing.T) {
		data := buildZip(t, []archiveEntry{{"big.png", "0123456789"}})
		if _, err := ExtractTexturesFromBytes(data, FormatZip, t.TempDir(), ExtractOptions{MaxFileBytes: 4}); err == nil {
			t.Error("Expected error for oversized entry")
		}
	})

	t.Run("total too large", func(t *testing.T) {
		data := buildZip(t, []archiveEntry{{"a.png", "0123"}, {"b.png", "4567"}})
		if _, err := ExtractTexturesFromBytes(data, FormatZip, t.TempDir(), ExtractOptions{MaxTotalBytes: 6}); err == nil {
			t.Error("Expected error when pack exceeds total size")
		}
	})

	t.Run("corrupt data", func(t *testing.T) {
		if _, err := ExtractTexturesFromBytes([]byte("not an archive"), FormatTarXz, t.TempDir(), ExtractOptions{}); err == nil {
			t.Error("Expected error for corrupt archive")
		}
	})

	t.Run("unsupported file", func(t *testing.T) {
		if _, err := ExtractTextures(filepath.Join(t.TempDir(), "pack.rar"), t.TempDir(), ExtractOptions{}); err == nil {
			t.Error("Expected error for unsupported extension")
		}
	})
}

func TestExtractTexturesFromFile(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "pack.tgz")
	if err := os.WriteFile(archive, buildTarGz(t, packEntries), 0o644); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}

	result, err := ExtractTextures(archive, filepath.Join(dir, "out"), ExtractOptions{})
	if err != nil {
		t.Fatalf("ExtractTextures() error = %v", err)
	}
	if result.Dir != filepath.Join(dir, "out") {
		t.Errorf("Dir = %s", result.Dir)
	}
	if len(result.Files) != 3 {
		t.Errorf("Expected 3 textures, got %d", len(result.Files))
	}
}

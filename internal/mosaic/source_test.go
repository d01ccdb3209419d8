package mosaic

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func buildTexturePack(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string][]byte{
		"pack/textures/red.png":  encodePNG(t, solidImage(4, 4, red)),
		"pack/textures/blue.png": encodePNG(t, solidImage(4, 4, blue)),
		"pack/readme.txt":        []byte("hello"),
	}
	for _, name := range []string{"pack/textures/red.png", "pack/textures/blue.png", "pack/readme.txt"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := w.Write(files[name]); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestOpenSourceDirectory(t *testing.T) {
	dir, paths := rgbTextures(t)

	src, err := OpenSource(context.Background(), dir, SourceOptions{})
	if err != nil {
		t.Fatalf("OpenSource() error = %v", err)
	}
	defer src.Close()

	if src.Dir != dir {
		t.Errorf("Dir = %s, want %s", src.Dir, dir)
	}
	if len(src.Files) != len(paths) {
		t.Fatalf("Expected %d files, got %d", len(paths), len(src.Files))
	}
	for i := range paths {
		if src.Files[i] != paths[i] {
			t.Errorf("Files[%d] = %s, want %s", i, src.Files[i], paths[i])
		}
	}
}

func TestOpenSourceArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "pack.zip")
	if err := os.WriteFile(archive, buildTexturePack(t), 0o644); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}

	src, err := OpenSource(context.Background(), archive, SourceOptions{})
	if err != nil {
		t.Fatalf("OpenSource() error = %v", err)
	}

	if len(src.Files) != 2 {
		t.Fatalf("Expected 2 textures, got %v", src.Files)
	}
	// Sorted by name.
	if filepath.Base(src.Files[0]) != "blue.png" || filepath.Base(src.Files[1]) != "red.png" {
		t.Errorf("unexpected files: %v", src.Files)
	}

	dir := src.Dir
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("Expected temporary directory to be removed, stat error = %v", err)
	}
}

func TestOpenSourceURL(t *testing.T) {
	pack := buildTexturePack(t)
	fetched := ""
	fetch := func(_ context.Context, url string) ([]byte, error) {
		fetched = url
		return pack, nil
	}

	url := "https://example.com/packs/pack.zip"
	src, err := OpenSource(context.Background(), url, SourceOptions{
		CacheDir: t.TempDir(),
		Subdir:   "pack/textures",
		Fetch:    fetch,
	})
	if err != nil {
		t.Fatalf("OpenSource() error = %v", err)
	}
	defer src.Close()

	if fetched != url {
		t.Errorf("Expected fetch of %s, got %q", url, fetched)
	}
	if len(src.Files) != 2 {
		t.Errorf("Expected 2 textures, got %v", src.Files)
	}
}

func TestOpenSourceErrors(t *testing.T) {
	dir := t.TempDir()
	plain := writeTexture(t, dir, "single.png", red)

	tests := []struct {
		name string
		ref  string
	}{
		{"empty", ""},
		{"missing", filepath.Join(dir, "missing")},
		{"plain image", plain},
		{"url without archive", "https://example.com/texture.png"},
		{"empty directory", t.TempDir()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if src, err := OpenSource(context.Background(), tt.ref, SourceOptions{}); err == nil {
				src.Close()
				t.Errorf("Expected error for %q", tt.ref)
			}
		})
	}
}

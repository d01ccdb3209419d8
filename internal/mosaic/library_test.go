package mosaic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/tessera/internal/colour"
)

func TestLibraryBuild(t *testing.T) {
	_, paths := rgbTextures(t)

	var progress []int
	lib, err := NewLibraryBuilder().
		WithExtractor(fastExtractor(t)).
		WithProgress(func(done, total int, _ colour.Swatch) {
			if total != 3 {
				t.Errorf("Expected total 3, got %d", total)
			}
			progress = append(progress, done)
		}).
		Build(context.Background(), paths)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if lib.Len() != 3 {
		t.Fatalf("Expected 3 textures, got %d", lib.Len())
	}
	if len(progress) != 3 || progress[2] != 3 {
		t.Errorf("unexpected progress calls: %v", progress)
	}
	if lib.Metric().Name() != string(colour.MetricCIEDE2000) {
		t.Errorf("Expected default metric ciede2000, got %s", lib.Metric().Name())
	}

	swatches := lib.Swatches()
	wantHex := []string{"#ff0000", "#00ff00", "#0000ff"}
	for i, s := range swatches {
		if s.Texture != paths[i] {
			t.Errorf("swatch %d texture = %s, want %s", i, s.Texture, paths[i])
		}
		if s.Colour.Hex() != wantHex[i] {
			t.Errorf("swatch %d colour = %s, want %s", i, s.Colour.Hex(), wantHex[i])
		}
	}

	swatches[0].Texture = "mutated"
	if lib.Swatches()[0].Texture != paths[0] {
		t.Error("Swatches() should return a copy")
	}
}

func TestLibraryNearestRedScenario(t *testing.T) {
	_, paths := rgbTextures(t)
	lib, err := NewLibraryBuilder().WithExtractor(fastExtractor(t)).Build(context.Background(), paths)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	q := colour.ToLab(colour.Pixel{R: 0.9, G: 0.1, B: 0, A: 1})
	got, err := lib.Nearest(q)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if got != paths[0] {
		t.Errorf("Expected %s, got %s", paths[0], got)
	}

	entry, dist, err := lib.NearestSwatch(colour.ToLab(colour.Pixel{B: 1, A: 1}))
	if err != nil {
		t.Fatalf("NearestSwatch() error = %v", err)
	}
	if entry.ID != paths[2] || dist > 1e-6 {
		t.Errorf("Expected exact blue match, got %s at %f", entry.ID, dist)
	}
}

func TestLibraryBuildAbortsOnBadTexture(t *testing.T) {
	dir, paths := rgbTextures(t)
	broken := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(broken, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("failed to write broken texture: %v", err)
	}

	_, err := NewLibraryBuilder().WithExtractor(fastExtractor(t)).Build(context.Background(), append(paths, broken))
	if err == nil {
		t.Fatal("Expected error for undecodable texture")
	}
	if !errors.Is(err, colour.ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken.png") {
		t.Errorf("Expected error to name the texture, got %v", err)
	}
}

func TestLibraryBuildTransparentTexture(t *testing.T) {
	dir := t.TempDir()
	path := writeTexture(t, dir, "clear.png", blue)
	empty := writeTexture(t, dir, "empty.png", colourTransparent)

	_, err := NewLibraryBuilder().WithExtractor(fastExtractor(t)).Build(context.Background(), []string{path, empty})
	if !errors.Is(err, colour.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for fully transparent texture, got %v", err)
	}
}

func TestLibraryBuildCancelled(t *testing.T) {
	_, paths := rgbTextures(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLibraryBuilder().Build(ctx, paths)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLibraryBuildWithAverageExtractor(t *testing.T) {
	_, paths := rgbTextures(t)
	cfg := colour.DefaultExtractorConfig()
	cfg.Algorithm = colour.AlgorithmAverage
	extractor, err := colour.NewExtractor(cfg)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}

	lib, err := NewLibraryBuilder().
		WithExtractor(extractor).
		WithMetric(colour.CIE76{}).
		Build(context.Background(), paths)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if lib.Metric().Name() != string(colour.MetricCIE76) {
		t.Errorf("Expected cie76, got %s", lib.Metric().Name())
	}
	for _, s := range lib.Swatches() {
		if s.Score != 0 {
			t.Errorf("Expected zero score for average extractor, got %f", s.Score)
		}
	}
}

func TestLibraryBuildEmpty(t *testing.T) {
	lib, err := NewLibraryBuilder().Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := lib.Nearest(colour.Lab{L: 50, Alpha: 1}); err == nil {
		t.Error("Expected error querying an empty library")
	}
}

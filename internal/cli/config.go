package cli

import (
	"fmt"
	"math"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/tessera/internal/colour"
	"github.com/jmylchreest/tessera/internal/mosaic"
)

// Settings holds the options shared by the library commands.
type Settings struct {
	Extractor colour.ExtractorConfig
	// MaxIterations caps each k-means run; 0 means unbounded.
	MaxIterations int
	Metric        colour.MetricName
	TileSize      int
	// Width downscales render targets to this many tiles across; 0 keeps the target size.
	Width    int
	CacheDir string
	// Subdir selects one directory inside texture-pack archives.
	Subdir string
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Extractor: colour.DefaultExtractorConfig(),
		Metric:    colour.MetricCIEDE2000,
		TileSize:  mosaic.DefaultTileSize,
	}
}

// ExtractorConfig returns the extractor configuration with the iteration cap resolved.
func (s Settings) ExtractorConfig() colour.ExtractorConfig {
	cfg := s.Extractor
	cfg.MaxIterations = s.MaxIterations
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = math.MaxInt
	}
	return cfg
}

// envBindings maps flags to the environment variables that provide their defaults.
var envBindings = []struct {
	flag string
	env  string
}{
	{"runs", "TESSERA_RUNS"},
	{"clusters", "TESSERA_CLUSTERS"},
	{"seed", "TESSERA_SEED"},
	{"convergence", "TESSERA_CONVERGENCE"},
	{"alpha-policy", "TESSERA_ALPHA_POLICY"},
	{"metric", "TESSERA_METRIC"},
	{"tile-size", "TESSERA_TILE_SIZE"},
	{"cache-dir", "TESSERA_CACHE_DIR"},
}

// applyEnv sets every bound flag that was not given on the command line from
// its environment variable. Flags override the environment, which overrides
// the built-in defaults.
func applyEnv(fs *pflag.FlagSet, lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		f := fs.Lookup(b.flag)
		if f == nil || f.Changed {
			continue
		}

		value, ok := lookup(b.env)
		if !ok || value == "" {
			continue
		}

		if err := fs.Set(b.flag, value); err != nil {
			return fmt.Errorf("invalid %s: %w", b.env, err)
		}
	}
	return nil
}

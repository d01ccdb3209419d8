package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/tessera/internal/colour"
)

// metricValue is a pflag.Value accepting the supported colour metrics.
type metricValue struct {
	target *colour.MetricName
}

func (v *metricValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v *metricValue) Set(s string) error {
	name := colour.MetricName(strings.ToLower(s))
	if _, err := colour.NewMetric(name); err != nil {
		return err
	}
	*v.target = name
	return nil
}

func (v *metricValue) Type() string { return "metric" }

// alphaPolicyValue is a pflag.Value accepting the supported alpha policies.
type alphaPolicyValue struct {
	target *colour.AlphaPolicy
}

func (v *alphaPolicyValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v *alphaPolicyValue) Set(s string) error {
	policy := colour.AlphaPolicy(strings.ToLower(s))
	if !slices.Contains(colour.ValidAlphaPolicies(), policy) {
		return fmt.Errorf("unknown alpha policy: %s (valid policies: %v)", s, colour.ValidAlphaPolicies())
	}
	*v.target = policy
	return nil
}

func (v *alphaPolicyValue) Type() string { return "policy" }

// algorithmValue is a pflag.Value accepting the supported extraction algorithms.
type algorithmValue struct {
	target *colour.Algorithm
}

func (v *algorithmValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v *algorithmValue) Set(s string) error {
	alg := colour.Algorithm(strings.ToLower(s))
	if !colour.IsValidAlgorithm(alg) {
		return fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", s, colour.ValidAlgorithms())
	}
	*v.target = alg
	return nil
}

func (v *algorithmValue) Type() string { return "algorithm" }

// enumValue is a pflag.Value restricted to a fixed set of strings.
type enumValue struct {
	target  *string
	allowed []string
}

func newEnumValue(target *string, allowed ...string) *enumValue {
	return &enumValue{target: target, allowed: allowed}
}

func (v *enumValue) String() string {
	if v.target == nil {
		return ""
	}
	return *v.target
}

func (v *enumValue) Set(s string) error {
	s = strings.ToLower(s)
	if !slices.Contains(v.allowed, s) {
		return fmt.Errorf("must be one of %s", strings.Join(v.allowed, ", "))
	}
	*v.target = s
	return nil
}

func (v *enumValue) Type() string { return "string" }

// addExtractorFlags registers the dominant colour extraction flags.
func addExtractorFlags(fs *pflag.FlagSet, s *Settings) {
	cfg := &s.Extractor
	fs.VarP(&algorithmValue{target: &cfg.Algorithm}, "algorithm", "a", "colour reduction algorithm (kmeans, average)")
	fs.IntVarP(&cfg.Runs, "runs", "n", cfg.Runs, "number of k-means runs; the lowest scoring run is kept")
	fs.IntVarP(&cfg.Clusters, "clusters", "k", cfg.Clusters, "number of clusters per run")
	fs.Float64Var(&cfg.Convergence, "convergence", cfg.Convergence, "stop a run when its score changes by less than this")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed of the first run; run i uses seed+i")
	fs.IntVar(&s.MaxIterations, "max-iterations", s.MaxIterations, "iteration cap per run (0 = unbounded)")
	fs.Var(&alphaPolicyValue{target: &cfg.AlphaPolicy}, "alpha-policy", "pixels taken into account (skip-transparent, opaque-only, all)")
}

// addLibraryFlags registers the flags used to resolve and index a texture library.
func addLibraryFlags(fs *pflag.FlagSet, s *Settings) {
	addExtractorFlags(fs, s)
	fs.VarP(&metricValue{target: &s.Metric}, "metric", "m", "colour difference metric (ciede2000, cie94, cie76)")
	fs.StringVar(&s.CacheDir, "cache-dir", s.CacheDir, "directory for downloaded texture packs (default: user cache)")
	fs.StringVar(&s.Subdir, "archive-dir", s.Subdir, "only use textures in this directory of a texture-pack archive")
}

package colour

import (
	"fmt"
	"math"

	"github.com/muesli/clusters"
)

// Extractor reduces a texture's pixels to a single representative colour.
type Extractor interface {
	// Extract returns the representative colour of pixels.
	Extract(pixels []Pixel) (Lab, error)
}

// Algorithm represents the colour reduction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans keeps the most populous cluster of the best of several k-means runs.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmAverage takes the mean of all pixels in L*a*b*.
	AlgorithmAverage Algorithm = "average"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
		AlgorithmAverage,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// AlphaPolicy decides which pixels take part in extraction.
type AlphaPolicy string

const (
	// AlphaSkipTransparent drops fully transparent pixels.
	AlphaSkipTransparent AlphaPolicy = "skip-transparent"
	// AlphaOpaqueOnly drops every pixel that is not fully opaque.
	AlphaOpaqueOnly AlphaPolicy = "opaque-only"
	// AlphaAll keeps every pixel.
	AlphaAll AlphaPolicy = "all"
)

// ValidAlphaPolicies returns the supported alpha policies.
func ValidAlphaPolicies() []AlphaPolicy {
	return []AlphaPolicy{AlphaSkipTransparent, AlphaOpaqueOnly, AlphaAll}
}

// Keep reports whether a pixel with the given alpha takes part in extraction.
func (p AlphaPolicy) Keep(alpha float64) bool {
	switch p {
	case AlphaOpaqueOnly:
		return alpha >= 1
	case AlphaAll:
		return true
	default:
		return alpha > 0
	}
}

// ExtractorConfig holds configuration for dominant colour extraction.
type ExtractorConfig struct {
	Algorithm Algorithm
	// Runs is the number of k-means restarts; the lowest scoring run is kept.
	Runs int
	// Clusters is the number of clusters per run.
	Clusters int
	// Convergence stops a run once its score changes by less than this fraction between iterations.
	Convergence float64
	// Seed is the base seed; run i is seeded with Seed+i.
	Seed int64
	// MaxIterations caps the assignment passes of a single run.
	MaxIterations int
	AlphaPolicy   AlphaPolicy
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:     AlgorithmKMeans,
		Runs:          100,
		Clusters:      5,
		Convergence:   0.0025,
		Seed:          0,
		MaxIterations: math.MaxInt,
		AlphaPolicy:   AlphaSkipTransparent,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s (valid algorithms: %v)", c.Algorithm, ValidAlgorithms())
	}
	if c.Runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", c.Runs)
	}
	if c.Clusters < 1 {
		return fmt.Errorf("cluster count must be at least 1, got %d", c.Clusters)
	}
	if c.Clusters > 256 {
		return fmt.Errorf("cluster count too large: %d (maximum: 256)", c.Clusters)
	}
	if c.Convergence < 0 || math.IsNaN(c.Convergence) {
		return fmt.Errorf("convergence threshold must be a non-negative number, got %v", c.Convergence)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1, got %d", c.MaxIterations)
	}
	switch c.AlphaPolicy {
	case AlphaSkipTransparent, AlphaOpaqueOnly, AlphaAll:
	default:
		return fmt.Errorf("invalid alpha policy: %s (valid policies: %v)", c.AlphaPolicy, ValidAlphaPolicies())
	}
	return nil
}

// NewExtractor creates an Extractor for the configured algorithm.
func NewExtractor(config ExtractorConfig) (Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Algorithm {
	case AlgorithmAverage:
		return &AverageExtractor{policy: config.AlphaPolicy}, nil
	default:
		return &DominantExtractor{config: config}, nil
	}
}

// DominantExtractor finds the dominant colour of a texture with best-of-N k-means.
type DominantExtractor struct {
	config ExtractorConfig
}

// NewDominantExtractor creates a DominantExtractor, validating the configuration.
func NewDominantExtractor(config ExtractorConfig) (*DominantExtractor, error) {
	config.Algorithm = AlgorithmKMeans
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &DominantExtractor{config: config}, nil
}

// Config returns the extractor configuration.
func (e *DominantExtractor) Config() ExtractorConfig {
	return e.config
}

// Dominant is the full outcome of a dominant colour extraction.
type Dominant struct {
	// Colour is the centroid of the most populous cluster of the kept run.
	Colour Lab
	// Run is the kept (lowest scoring) k-means run.
	Run RunResult
	// RunIndex is the position of the kept run among all runs.
	RunIndex int
	// Scores holds the score of every run, in run order.
	Scores []float64
	// Pixels is the number of pixels that took part after the alpha policy.
	Pixels int
}

// Extract implements Extractor.
func (e *DominantExtractor) Extract(pixels []Pixel) (Lab, error) {
	d, err := e.ExtractResult(pixels)
	if err != nil {
		return Lab{}, err
	}
	return d.Colour, nil
}

// ExtractResult runs k-means Runs times with seeds Seed+i and reduces the
// lowest scoring run to its most populous centroid. Equal scores keep the
// earlier run.
func (e *DominantExtractor) ExtractResult(pixels []Pixel) (*Dominant, error) {
	points, err := toObservations(pixels, e.config.AlphaPolicy)
	if err != nil {
		return nil, err
	}

	params := kmeansParams{
		k:             e.config.Clusters,
		maxIterations: e.config.MaxIterations,
		convergence:   e.config.Convergence,
	}

	scores := make([]float64, e.config.Runs)
	var best RunResult
	bestIndex := -1
	for i := range e.config.Runs {
		run := kmeans(points, params, e.config.Seed+int64(i))
		scores[i] = run.Score
		if bestIndex < 0 || run.Score < best.Score {
			best = run
			bestIndex = i
		}
	}

	return &Dominant{
		Colour:   best.Centroids[best.Dominant()],
		Run:      best,
		RunIndex: bestIndex,
		Scores:   scores,
		Pixels:   len(points),
	}, nil
}

// toObservations converts the pixels kept by policy to clustering observations.
func toObservations(pixels []Pixel, policy AlphaPolicy) (clusters.Observations, error) {
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: no pixels to extract from", ErrInvalidInput)
	}

	points := make(clusters.Observations, 0, len(pixels))
	for _, p := range pixels {
		if !policy.Keep(p.A) {
			continue
		}
		points = append(points, newLabPoint(ToLab(p)))
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: all %d pixels excluded by alpha policy %q", ErrInvalidInput, len(pixels), policy)
	}
	return points, nil
}

// AverageExtractor reduces pixels to their mean L*a*b* colour.
type AverageExtractor struct {
	policy AlphaPolicy
}

// Extract implements Extractor.
func (e *AverageExtractor) Extract(pixels []Pixel) (Lab, error) {
	points, err := toObservations(pixels, e.policy)
	if err != nil {
		return Lab{}, err
	}

	center, err := points.Center()
	if err != nil {
		return Lab{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	alpha := 0.0
	for _, p := range points {
		alpha += p.(labPoint).alpha
	}
	return Lab{L: center[0], A: center[1], B: center[2], Alpha: alpha / float64(len(points))}, nil
}

package colour

import (
	"fmt"
	"math"
	"strings"
)

// AlphaWeight scales alpha differences into colour difference units so that a
// fully transparent colour is as far from its opaque twin as black is from white.
const AlphaWeight = 100.0

// Metric measures the perceptual difference between two colours.
type Metric interface {
	// Name returns the identifier used on the command line.
	Name() string
	// Distance returns the difference between a and b; zero means identical.
	Distance(a, b Lab) float64
}

// BoundedMetric is a Metric that can bound the distance between two colours
// from below given only their offset along one axis. Spatial indexes use it
// to prune subtrees without losing exactness.
type BoundedMetric interface {
	Metric
	AxisLowerBound(axis int, delta float64) float64
}

// MetricName identifies a supported colour difference formula.
type MetricName string

const (
	// MetricCIEDE2000 is the CIE Delta E 2000 formula.
	MetricCIEDE2000 MetricName = "ciede2000"
	// MetricCIE94 is the CIE Delta E 1994 (graphic arts) formula.
	MetricCIE94 MetricName = "cie94"
	// MetricCIE76 is Euclidean distance in L*a*b*.
	MetricCIE76 MetricName = "cie76"
)

// ValidMetrics returns the supported metric names.
func ValidMetrics() []MetricName {
	return []MetricName{MetricCIEDE2000, MetricCIE94, MetricCIE76}
}

// NewMetric returns the metric registered under name.
func NewMetric(name MetricName) (Metric, error) {
	switch MetricName(strings.ToLower(string(name))) {
	case MetricCIEDE2000, "":
		return CIEDE2000{}, nil
	case MetricCIE94:
		return CIE94{}, nil
	case MetricCIE76:
		return CIE76{}, nil
	default:
		return nil, fmt.Errorf("unknown metric: %s (valid metrics: %v)", name, ValidMetrics())
	}
}

// DefaultMetric returns the metric used when none is configured.
func DefaultMetric() Metric {
	return CIEDE2000{}
}

// CIEDE2000 weighs lightness, chroma and hue differences per CIE Delta E 2000.
type CIEDE2000 struct{}

// Name implements Metric.
func (CIEDE2000) Name() string { return string(MetricCIEDE2000) }

// Distance implements Metric.
func (CIEDE2000) Distance(a, b Lab) float64 {
	return a.colorful().DistanceCIEDE2000(b.colorful())*100 + alphaDistance(a, b)
}

// CIE94 implements the CIE Delta E 1994 formula.
type CIE94 struct{}

// Name implements Metric.
func (CIE94) Name() string { return string(MetricCIE94) }

// Distance implements Metric.
func (CIE94) Distance(a, b Lab) float64 {
	return a.colorful().DistanceCIE94(b.colorful())*100 + alphaDistance(a, b)
}

// CIE76 is plain Euclidean distance in L*a*b*.
type CIE76 struct{}

// Name implements Metric.
func (CIE76) Name() string { return string(MetricCIE76) }

// Distance implements Metric.
func (CIE76) Distance(a, b Lab) float64 {
	dl, da, db := a.L-b.L, a.A-b.A, a.B-b.B
	return math.Sqrt(dl*dl+da*da+db*db) + alphaDistance(a, b)
}

// AxisLowerBound implements BoundedMetric.
func (CIE76) AxisLowerBound(axis int, delta float64) float64 {
	if axis == 3 {
		return math.Abs(delta) * AlphaWeight
	}
	return math.Abs(delta)
}

func alphaDistance(a, b Lab) float64 {
	if a.Alpha == b.Alpha {
		return 0
	}
	return math.Abs(a.Alpha-b.Alpha) * AlphaWeight
}

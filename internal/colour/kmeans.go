package colour

import (
	"math"
	"math/rand"

	"github.com/muesli/clusters"
)

// labPoint is a clustering observation: the L*a*b* coordinates of one pixel.
// Alpha is carried alongside but does not take part in clustering.
type labPoint struct {
	coords clusters.Coordinates
	alpha  float64
}

func newLabPoint(c Lab) labPoint {
	return labPoint{coords: clusters.Coordinates{c.L, c.A, c.B}, alpha: c.Alpha}
}

// Coordinates implements clusters.Observation.
func (p labPoint) Coordinates() clusters.Coordinates {
	return p.coords
}

// Distance implements clusters.Observation as squared Euclidean distance.
func (p labPoint) Distance(point clusters.Coordinates) float64 {
	dl := p.coords[0] - point[0]
	da := p.coords[1] - point[1]
	db := p.coords[2] - point[2]
	return dl*dl + da*da + db*db
}

// RunResult is the outcome of one k-means run.
type RunResult struct {
	// Centroids are the cluster centres. Alpha is the mean alpha of each cluster's members.
	Centroids []Lab
	// Populations holds the number of pixels assigned to each centroid.
	Populations []int
	// Assignments maps each input pixel to its centroid index.
	Assignments []int
	// Score is the mean squared distance from each pixel to its centroid. Lower is better.
	Score float64
	// Seed is the random seed the run was initialised with.
	Seed int64
	// Iterations is the number of assignment passes performed.
	Iterations int
}

// kmeansParams holds the per-run clustering settings.
type kmeansParams struct {
	k             int
	maxIterations int
	convergence   float64
}

// kmeans clusters the points with Lloyd's algorithm, initialised by k-means++
// using a generator seeded with seed. The same points, parameters and seed
// always produce the same result.
func kmeans(points clusters.Observations, p kmeansParams, seed int64) RunResult {
	rng := rand.New(rand.NewSource(seed))
	cs := initialiseCentroidsKMeansPlusPlus(points, p.k, rng)

	assignments := make([]int, len(points))
	n := float64(len(points))
	previous := math.Inf(1)
	score := 0.0
	iterations := 0

	for iterations < p.maxIterations {
		iterations++

		cs.Reset()
		score = 0
		changed := 0
		for i, point := range points {
			nearest := cs.Nearest(point)
			if nearest != assignments[i] {
				changed++
			}
			assignments[i] = nearest
			cs[nearest].Append(point)
			score += point.Distance(cs[nearest].Center)
		}
		score /= n

		// Stop once the mean squared error moves by less than the threshold
		// as a fraction of its previous value, or once no pixel changed
		// cluster (a fixed point).
		if iterations > 1 && (math.Abs(previous-score) < p.convergence*previous || changed == 0) || iterations == p.maxIterations {
			break
		}
		previous = score

		// Empty clusters keep their previous centre.
		cs.Recenter()
	}

	return newRunResult(cs, assignments, score, seed, iterations)
}

// initialiseCentroidsKMeansPlusPlus picks k initial centres. The first is a
// uniformly random point; each further centre is drawn with probability
// proportional to its squared distance from the closest centre chosen so far.
func initialiseCentroidsKMeansPlusPlus(points clusters.Observations, k int, rng *rand.Rand) clusters.Clusters {
	cs := make(clusters.Clusters, 0, k)
	cs = append(cs, clusters.Cluster{Center: copyCoordinates(points[rng.Intn(len(points))].Coordinates())})

	distances := make([]float64, len(points))
	for len(cs) < k {
		total := 0.0
		for i, point := range points {
			minDist := math.MaxFloat64
			for _, c := range cs {
				if d := point.Distance(c.Center); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist
			total += minDist
		}

		// Every point already coincides with a centre: duplicate one.
		if total == 0 {
			cs = append(cs, clusters.Cluster{Center: copyCoordinates(points[rng.Intn(len(points))].Coordinates())})
			continue
		}

		target := rng.Float64() * total
		chosen := len(points) - 1
		cumulative := 0.0
		for i, d := range distances {
			cumulative += d
			if cumulative >= target && d > 0 {
				chosen = i
				break
			}
		}
		cs = append(cs, clusters.Cluster{Center: copyCoordinates(points[chosen].Coordinates())})
	}

	return cs
}

func newRunResult(cs clusters.Clusters, assignments []int, score float64, seed int64, iterations int) RunResult {
	centroids := make([]Lab, len(cs))
	populations := make([]int, len(cs))
	for i, c := range cs {
		alpha := 0.0
		for _, o := range c.Observations {
			alpha += o.(labPoint).alpha
		}
		if len(c.Observations) > 0 {
			alpha /= float64(len(c.Observations))
		} else {
			alpha = 1
		}
		centroids[i] = Lab{L: c.Center[0], A: c.Center[1], B: c.Center[2], Alpha: alpha}
		populations[i] = len(c.Observations)
	}

	return RunResult{
		Centroids:   centroids,
		Populations: populations,
		Assignments: assignments,
		Score:       score,
		Seed:        seed,
		Iterations:  iterations,
	}
}

// Dominant returns the index of the most populous centroid. Equal populations
// resolve to the lower index.
func (r RunResult) Dominant() int {
	best := 0
	for i, n := range r.Populations {
		if n > r.Populations[best] {
			best = i
		}
	}
	return best
}

// SortedByPopulation returns centroid indexes ordered by descending population.
func (r RunResult) SortedByPopulation() []int {
	order := make([]int, len(r.Populations))
	for i := range order {
		order[i] = i
	}
	// Insertion sort keeps equal populations in index order.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && r.Populations[order[j]] > r.Populations[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

func copyCoordinates(c clusters.Coordinates) clusters.Coordinates {
	out := make(clusters.Coordinates, len(c))
	copy(out, c)
	return out
}

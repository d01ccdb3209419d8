// Package index provides an exact perceptual nearest-neighbour index over
// representative texture colours.
package index

import (
	"errors"
	"slices"

	"github.com/jmylchreest/tessera/internal/colour"
)

// ErrEmptyIndex is returned when querying an index that holds no entries.
var ErrEmptyIndex = errors.New("empty index")

// Entry pairs a representative colour with an opaque texture identifier.
// The index stores and returns identifiers but never interprets them.
type Entry[ID any] struct {
	Colour colour.Lab
	ID     ID
}

// Index is a k-d tree over L*a*b*+alpha coordinates. It is immutable once
// built and safe for concurrent queries.
//
// Subtrees are pruned only for metrics implementing colour.BoundedMetric
// (CIE76). Under CIEDE2000, the default, and CIE94 every query visits every
// node, so lookups are linear in the number of entries.
type Index[ID any] struct {
	entries []Entry[ID]
	nodes   []node
	root    int
	metric  colour.Metric
	bounded colour.BoundedMetric
}

// node is a k-d tree node. Children are node indexes, -1 when absent.
type node struct {
	entry       int
	axis        int
	left, right int
}

// Option configures an Index at build time.
type Option func(*options)

type options struct {
	metric colour.Metric
}

// WithMetric sets the colour difference metric used for queries.
func WithMetric(m colour.Metric) Option {
	return func(o *options) {
		if m != nil {
			o.metric = m
		}
	}
}

// Build constructs an index over entries. Entries are copied; insertion order
// decides ties between equidistant entries.
func Build[ID any](entries []Entry[ID], opts ...Option) *Index[ID] {
	o := options{metric: colour.DefaultMetric()}
	for _, opt := range opts {
		opt(&o)
	}

	ix := &Index[ID]{
		entries: slices.Clone(entries),
		nodes:   make([]node, 0, len(entries)),
		root:    -1,
		metric:  o.metric,
	}
	if b, ok := o.metric.(colour.BoundedMetric); ok {
		ix.bounded = b
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	ix.root = ix.build(order, 0)
	return ix
}

// build recursively splits order at the median of the current axis.
func (ix *Index[ID]) build(order []int, depth int) int {
	if len(order) == 0 {
		return -1
	}

	axis := depth % colour.Lab{}.Axes()
	slices.SortFunc(order, func(a, b int) int {
		va, vb := ix.entries[a].Colour.Axis(axis), ix.entries[b].Colour.Axis(axis)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		default:
			return a - b
		}
	})

	mid := len(order) / 2
	n := len(ix.nodes)
	ix.nodes = append(ix.nodes, node{entry: order[mid], axis: axis})

	left := ix.build(order[:mid], depth+1)
	right := ix.build(order[mid+1:], depth+1)
	ix.nodes[n].left = left
	ix.nodes[n].right = right
	return n
}

// Len returns the number of entries in the index.
func (ix *Index[ID]) Len() int {
	return len(ix.entries)
}

// Entries returns a copy of the entries in insertion order.
func (ix *Index[ID]) Entries() []Entry[ID] {
	return slices.Clone(ix.entries)
}

// Metric returns the metric the index answers queries with.
func (ix *Index[ID]) Metric() colour.Metric {
	return ix.metric
}

// Nearest returns the identifier of the entry perceptually closest to q.
func (ix *Index[ID]) Nearest(q colour.Lab) (ID, error) {
	e, _, err := ix.NearestEntry(q)
	return e.ID, err
}

// NearestEntry returns the entry closest to q together with its distance.
// Among equidistant entries the one inserted first wins.
func (ix *Index[ID]) NearestEntry(q colour.Lab) (Entry[ID], float64, error) {
	if len(ix.entries) == 0 {
		var zero Entry[ID]
		return zero, 0, ErrEmptyIndex
	}

	best := candidate{entry: -1}
	ix.search(ix.root, q, &best)
	return ix.entries[best.entry], best.dist, nil
}

type candidate struct {
	entry int
	dist  float64
}

func (c *candidate) offer(entry int, dist float64) {
	if c.entry < 0 || dist < c.dist || (dist == c.dist && entry < c.entry) {
		c.entry = entry
		c.dist = dist
	}
}

// search descends the near side first. The far side is skipped only when the
// metric proves no entry there can be at least as close as the current best.
func (ix *Index[ID]) search(n int, q colour.Lab, best *candidate) {
	if n < 0 {
		return
	}
	nd := ix.nodes[n]
	c := ix.entries[nd.entry].Colour
	best.offer(nd.entry, ix.metric.Distance(q, c))

	delta := q.Axis(nd.axis) - c.Axis(nd.axis)
	near, far := nd.left, nd.right
	if delta > 0 {
		near, far = far, near
	}

	ix.search(near, q, best)
	if ix.bounded != nil && ix.bounded.AxisLowerBound(nd.axis, delta) > best.dist {
		return
	}
	ix.search(far, q, best)
}

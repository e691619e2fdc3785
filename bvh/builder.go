// Package bvh builds a binary hierarchy of oriented bounding boxes over a
// triangle soup.
//
// The tree lives in two flat arrays: a node arena addressed by integer
// handles and a single vertex pool. Building reorders triangles inside the
// pool so that every node covers a contiguous range of it; a node's range
// spans all the triangles below it and a leaf holds exactly one triangle.
package bvh

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/akmonengine/bvcull/fit"
	"github.com/akmonengine/bvcull/log"
	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
)

// NoNode marks an absent child.
const NoNode = -1

// ErrMalformedInput is returned when the vertex slice holds fewer than three
// vertices or a count that is not a multiple of three.
var ErrMalformedInput = errors.New("bvh: vertex count must be a positive multiple of 3")

// Node is a tree node. First and Count select the node's vertices in the
// tree pool.
type Node struct {
	OBB volume.OBB

	First int
	Count int

	Left  int
	Right int
}

// Option configures Build.
type Option func(*builder)

// WithLogger replaces the builder logger.
func WithLogger(logger log.Logger) Option {
	return func(b *builder) {
		b.logger = logger
	}
}

type builder struct {
	logger log.Logger
	tree   *Tree

	maxDepth     int
	fallbacks    int
	medianSplits int
}

// Build constructs the hierarchy for consecutive triangles in verts. The
// input is copied; the caller keeps ownership of verts.
func Build(verts []mgl64.Vec3, opts ...Option) (*Tree, error) {
	if len(verts) < 3 || len(verts)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrMalformedInput, len(verts))
	}

	b := &builder{
		logger: log.New("bvh"),
		tree: &Tree{
			verts: append([]mgl64.Vec3(nil), verts...),
			nodes: make([]Node, 0, 2*len(verts)/3-1),
		},
	}
	for _, opt := range opts {
		opt(b)
	}

	start := time.Now()
	b.partition(0, len(verts), 0)
	b.tree.depth = b.maxDepth

	if b.fallbacks > 0 {
		b.logger.Warningf("%d node(s) fell back to axis-aligned boxes", b.fallbacks)
	}
	if b.medianSplits > 0 {
		b.logger.Warningf("%d node(s) had no separating axis and were split at the median", b.medianSplits)
	}
	b.logger.Debugf(
		"BVH build time: %d µs, triangles: %d, nodes: %d, maxDepth: %d",
		time.Since(start).Microseconds(), len(verts)/3, len(b.tree.nodes), b.maxDepth,
	)

	return b.tree, nil
}

// partition builds the node covering pool[first:first+count] and returns
// its handle.
func (b *builder) partition(first, count, depth int) int {
	b.maxDepth = max(b.maxDepth, depth)
	verts := b.tree.verts[first : first+count]

	handle := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, Node{First: first, Count: count, Left: NoNode, Right: NoNode})

	if count == 3 {
		b.tree.nodes[handle].OBB = fit.Triangle(verts[0], verts[1], verts[2])
		return handle
	}

	obb, err := fit.Vertices(verts)
	if err != nil {
		b.fallbacks++
		b.logger.Debugf("node %d: %v", handle, err)
	}
	b.tree.nodes[handle].OBB = obb

	leftCount, median := split(verts, obb)
	if median {
		b.medianSplits++
	}
	left := b.partition(first, leftCount, depth+1)
	right := b.partition(first+leftCount, count-leftCount, depth+1)

	b.tree.nodes[handle].Left = left
	b.tree.nodes[handle].Right = right

	return handle
}

// split reorders the triangles of verts so the left group comes first and
// returns the left group size in vertices. Both groups are non-empty.
// median reports that no axis separated the triangles.
//
// Axes are tried from the longest box extent to the shortest; triangles
// whose centroid projects below the mean projection go left. When no axis
// separates the triangles, they are ordered along the longest axis and cut
// in half.
func split(verts []mgl64.Vec3, obb volume.OBB) (left int, median bool) {
	tris := triangles{verts: verts, keys: make([]float64, len(verts)/3)}

	axes := rankAxes(obb)
	for _, axis := range axes {
		tris.project(axis)

		var mean float64
		for _, k := range tris.keys {
			mean += k
		}
		mean /= float64(len(tris.keys))

		n := 0
		for i, k := range tris.keys {
			if k < mean {
				tris.Swap(i, n)
				n++
			}
		}
		if n > 0 && n < len(tris.keys) {
			return 3 * n, false
		}
	}

	tris.project(axes[0])
	sort.Stable(tris)
	return 3 * (len(tris.keys) / 2), true
}

// rankAxes orders the box axes by decreasing half extent. Ties keep U, V, W
// order.
func rankAxes(obb volume.OBB) [3]mgl64.Vec3 {
	order := [3]int{0, 1, 2}
	sort.SliceStable(order[:], func(i, j int) bool {
		return obb.HalfExtents[order[i]] > obb.HalfExtents[order[j]]
	})

	return [3]mgl64.Vec3{obb.Axis(order[0]), obb.Axis(order[1]), obb.Axis(order[2])}
}

// triangles sorts vertex triples by a per-triangle key.
type triangles struct {
	verts []mgl64.Vec3
	keys  []float64
}

func (t triangles) project(axis mgl64.Vec3) {
	for i := range t.keys {
		c := t.verts[3*i].Add(t.verts[3*i+1]).Add(t.verts[3*i+2]).Mul(1.0 / 3.0)
		t.keys[i] = c.Dot(axis)
	}
}

func (t triangles) Len() int           { return len(t.keys) }
func (t triangles) Less(i, j int) bool { return t.keys[i] < t.keys[j] }

func (t triangles) Swap(i, j int) {
	if i == j {
		return
	}
	t.keys[i], t.keys[j] = t.keys[j], t.keys[i]
	for k := 0; k < 3; k++ {
		t.verts[3*i+k], t.verts[3*j+k] = t.verts[3*j+k], t.verts[3*i+k]
	}
}

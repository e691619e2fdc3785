package bvh

import (
	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
)

// Tree is a built hierarchy. The root handle is Root(); handles are stable
// for the lifetime of the tree.
type Tree struct {
	nodes []Node
	verts []mgl64.Vec3
	depth int
}

// Stats summarises the shape of a tree.
type Stats struct {
	Nodes     int
	Leaves    int
	MaxDepth  int
	Triangles int
}

// Root returns the handle of the root node.
func (t *Tree) Root() int {
	if t == nil || len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// Node returns the node for handle h.
func (t *Tree) Node(h int) Node {
	return t.nodes[h]
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Depth returns the depth of the deepest leaf; a single-leaf tree has depth 0.
func (t *Tree) Depth() int {
	return t.depth
}

// IsLeaf reports whether h has no children.
func (t *Tree) IsLeaf(h int) bool {
	n := t.nodes[h]
	return n.Left == NoNode && n.Right == NoNode
}

// Vertices returns the triangles covered by h. The slice aliases the tree
// pool and must not be modified.
func (t *Tree) Vertices(h int) []mgl64.Vec3 {
	n := t.nodes[h]
	return t.verts[n.First : n.First+n.Count]
}

// Pool returns every vertex of the tree, in leaf order.
func (t *Tree) Pool() []mgl64.Vec3 {
	return t.verts
}

// Walk visits nodes depth first, parents before children. Children of a
// node are skipped when fn returns false for it.
func (t *Tree) Walk(fn func(h, depth int) bool) {
	if t.Root() == NoNode {
		return
	}
	t.walk(t.Root(), 0, fn)
}

func (t *Tree) walk(h, depth int, fn func(h, depth int) bool) {
	if !fn(h, depth) {
		return
	}
	n := t.nodes[h]
	if n.Left != NoNode {
		t.walk(n.Left, depth+1, fn)
	}
	if n.Right != NoNode {
		t.walk(n.Right, depth+1, fn)
	}
}

// Level returns the handles of the nodes found exactly depth levels below
// the root, left to right.
func (t *Tree) Level(depth int) []int {
	var handles []int
	t.Walk(func(h, d int) bool {
		if d == depth {
			handles = append(handles, h)
			return false
		}
		return true
	})

	return handles
}

// Stats counts nodes, leaves and triangles.
func (t *Tree) Stats() Stats {
	stats := Stats{MaxDepth: t.depth, Triangles: len(t.verts) / 3}
	t.Walk(func(h, _ int) bool {
		stats.Nodes++
		if t.IsLeaf(h) {
			stats.Leaves++
		}
		return true
	})

	return stats
}

// Pick follows ray down the tree placed in the world by transform and
// returns the leaf whose box the ray enters first, with the entry
// parameter. ok is false when the ray misses every leaf.
func (t *Tree) Pick(ray volume.Ray, transform volume.Transform) (leaf int, dist float64, ok bool) {
	if t.Root() == NoNode {
		return NoNode, 0, false
	}

	dist, ok = ray.IntersectOBB(t.nodes[t.Root()].OBB.Transform(transform))
	if !ok {
		return NoNode, 0, false
	}

	return t.pick(t.Root(), ray, transform)
}

func (t *Tree) pick(h int, ray volume.Ray, transform volume.Transform) (int, float64, bool) {
	n := t.nodes[h]
	if t.IsLeaf(h) {
		dist, ok := ray.IntersectOBB(n.OBB.Transform(transform))
		return h, dist, ok
	}

	type candidate struct {
		h    int
		dist float64
	}
	var hits []candidate
	for _, child := range [2]int{n.Left, n.Right} {
		if child == NoNode {
			continue
		}
		if dist, ok := ray.IntersectOBB(t.nodes[child].OBB.Transform(transform)); ok {
			hits = append(hits, candidate{child, dist})
		}
	}
	if len(hits) == 2 && hits[1].dist < hits[0].dist {
		hits[0], hits[1] = hits[1], hits[0]
	}

	best, bestDist, found := NoNode, 0.0, false
	for _, c := range hits {
		if found && c.dist > bestDist {
			break
		}
		leaf, dist, ok := t.pick(c.h, ray, transform)
		if ok && (!found || dist < bestDist) {
			best, bestDist, found = leaf, dist, true
		}
	}

	return best, bestDist, found
}

// Package fit computes oriented bounding boxes for triangle soups.
//
// Boxes are fitted by principal component analysis of the triangle
// surface: the covariance of the surface, each triangle weighted by its
// area, is diagonalised and its eigenvectors are used as the box axes.
// Triangles are the unit of weighting, so a densely tessellated region does
// not pull the axes towards it the way a vertex point cloud would.
package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/bvcull/linalg"
	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidVertexCount is returned when the vertex slice does not hold a
// whole, non-zero number of triangles.
var ErrInvalidVertexCount = errors.New("fit: vertex count must be a positive multiple of 3")

// ErrNotConverged is wrapped by Vertices when the eigen-solver gave up.
var ErrNotConverged = linalg.ErrNotConverged

var (
	xAxis = mgl64.Vec3{1, 0, 0}
	yAxis = mgl64.Vec3{0, 1, 0}
)

// Triangle returns the tight box of a single triangle: U along its longest
// edge, V in the triangle plane towards the opposite vertex, W = U x V.
// Degenerate triangles get a valid orthonormal frame and zero extents along
// the collapsed directions.
func Triangle(a, b, c mgl64.Vec3) volume.OBB {
	e01, e02, e12 := b.Sub(a), c.Sub(a), c.Sub(b)
	l01, l02, l12 := e01.LenSqr(), e02.LenSqr(), e12.LenSqr()

	// origin, longest edge, opposite vertex
	o, edge, opp := a, e01, c
	switch {
	case l02 > l01 && l02 >= l12:
		o, edge, opp = a, e02, b
	case l12 > l01 && l12 > l02:
		o, edge, opp = b, e12, a
	}

	u, _ := linalg.SafeNormalize(edge, xAxis)
	d := opp.Sub(o)
	v, ok := linalg.SafeNormalize(d.Sub(u.Mul(d.Dot(u))), yAxis)
	if !ok {
		v = linalg.Perpendicular(u)
	}
	w, _ := linalg.SafeNormalize(u.Cross(v), mgl64.Vec3{0, 0, 1})

	return project([]mgl64.Vec3{a, b, c}, u, v, w)
}

// Vertices fits a box to consecutive triangles in verts.
//
// When the eigen-solver does not converge the axis-aligned box of verts is
// returned with an error wrapping linalg.ErrNotConverged; the box is still
// valid and encloses every vertex. A soup with zero total area also gets
// the axis-aligned box, without error.
func Vertices(verts []mgl64.Vec3) (volume.OBB, error) {
	if len(verts) < 3 || len(verts)%3 != 0 {
		return volume.OBB{}, fmt.Errorf("%w: got %d", ErrInvalidVertexCount, len(verts))
	}
	if len(verts) == 3 {
		return Triangle(verts[0], verts[1], verts[2]), nil
	}

	cov, _, area := linalg.Covariance(verts)
	if area <= 0 {
		return AxisAligned(verts), nil
	}

	_, vecs, err := linalg.Jacobi(cov)
	if err != nil {
		return AxisAligned(verts), fmt.Errorf("fit: %d vertices: %w", len(verts), err)
	}

	u, v := principalAxes(vecs.Col(0), vecs.Col(1), vecs.Col(2))
	w, ok := linalg.SafeNormalize(u.Cross(v), mgl64.Vec3{0, 0, 1})
	if !ok {
		return AxisAligned(verts), nil
	}

	return project(verts, u, v, w), nil
}

// AxisAligned returns the world-aligned box enclosing verts.
func AxisAligned(verts []mgl64.Vec3) volume.OBB {
	return volume.OBBFromAABB(volume.AABBFromPoints(verts))
}

// principalAxes orders three eigenvectors into U and V: U is the one with
// the largest |x|, V the remaining one with the largest |y|. Ties go to the
// lower index. U is flipped to have U.x >= 0 and V to have V.y >= 0.
func principalAxes(e0, e1, e2 mgl64.Vec3) (u, v mgl64.Vec3) {
	e := [3]mgl64.Vec3{e0, e1, e2}

	ui := 0
	for i := 1; i < 3; i++ {
		if math.Abs(e[i].X()) > math.Abs(e[ui].X()) {
			ui = i
		}
	}

	vi := -1
	for i := 0; i < 3; i++ {
		if i == ui {
			continue
		}
		if vi < 0 || math.Abs(e[i].Y()) > math.Abs(e[vi].Y()) {
			vi = i
		}
	}

	u, _ = linalg.SafeNormalize(e[ui], xAxis)
	v, _ = linalg.SafeNormalize(e[vi], yAxis)
	if u.X() < 0 {
		u = u.Mul(-1)
	}
	if v.Y() < 0 {
		v = v.Mul(-1)
	}

	return u, v
}

// project builds the box with axes u, v, w spanning the projections of
// verts.
func project(verts []mgl64.Vec3, u, v, w mgl64.Vec3) volume.OBB {
	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	for _, p := range verts {
		proj := mgl64.Vec3{p.Dot(u), p.Dot(v), p.Dot(w)}
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], proj[i])
			max[i] = math.Max(max[i], proj[i])
		}
	}

	return volume.OBB{
		U:           u,
		V:           v,
		W:           w,
		Center:      mgl64.Mat3FromCols(u, v, w).Mul3x1(min.Add(max).Mul(0.5)),
		HalfExtents: max.Sub(min).Mul(0.5),
	}
}

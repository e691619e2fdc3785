package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OBB is an oriented bounding box: three orthonormal axes U, V, W forming a
// right-handed frame, a center expressed in the frame the box was built in
// and non-negative half extents along each axis.
type OBB struct {
	U, V, W     mgl64.Vec3
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// OBBFromAABB returns the oriented box equal to a, with world axes.
func OBBFromAABB(a AABB) OBB {
	return OBB{
		U:           mgl64.Vec3{1, 0, 0},
		V:           mgl64.Vec3{0, 1, 0},
		W:           mgl64.Vec3{0, 0, 1},
		Center:      a.Center,
		HalfExtents: a.HalfExtents,
	}
}

// Axes returns the box axes as the columns of a rotation matrix.
func (o OBB) Axes() mgl64.Mat3 {
	return mgl64.Mat3FromCols(o.U, o.V, o.W)
}

// Axis returns U, V or W for i = 0, 1, 2.
func (o OBB) Axis(i int) mgl64.Vec3 {
	switch i {
	case 0:
		return o.U
	case 1:
		return o.V
	}
	return o.W
}

// Support returns the corner of the box furthest along direction.
func (o OBB) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := o.HalfExtents.X(), o.HalfExtents.Y(), o.HalfExtents.Z()

	if direction.Dot(o.U) < 0 {
		hx = -hx
	}
	if direction.Dot(o.V) < 0 {
		hy = -hy
	}
	if direction.Dot(o.W) < 0 {
		hz = -hz
	}

	return o.Center.Add(o.U.Mul(hx)).Add(o.V.Mul(hy)).Add(o.W.Mul(hz))
}

// Classify tests the box against a single plane using its positive and
// negative support vertices.
func (o OBB) Classify(p Plane) Classification {
	return classify(
		p.SignedDistance(o.Support(p.Normal.Mul(-1))),
		p.SignedDistance(o.Support(p.Normal)),
	)
}

// Corners returns the eight corners of the box.
func (o OBB) Corners() [8]mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for i := range corners {
		hx, hy, hz := o.HalfExtents.X(), o.HalfExtents.Y(), o.HalfExtents.Z()
		if i&1 == 0 {
			hx = -hx
		}
		if i&2 == 0 {
			hy = -hy
		}
		if i&4 == 0 {
			hz = -hz
		}
		corners[i] = o.Center.Add(o.U.Mul(hx)).Add(o.V.Mul(hy)).Add(o.W.Mul(hz))
	}

	return corners
}

// AABB returns the axis-aligned box enclosing the oriented box.
func (o OBB) AABB() AABB {
	corners := o.Corners()
	return AABBFromPoints(corners[:])
}

// ContainsPoint checks if a point is inside the box
func (o OBB) ContainsPoint(point mgl64.Vec3) bool {
	d := point.Sub(o.Center)
	return math.Abs(d.Dot(o.U)) <= o.HalfExtents.X() &&
		math.Abs(d.Dot(o.V)) <= o.HalfExtents.Y() &&
		math.Abs(d.Dot(o.W)) <= o.HalfExtents.Z()
}

// Local expresses a world point in the box frame, relative to its center.
func (o OBB) Local(point mgl64.Vec3) mgl64.Vec3 {
	d := point.Sub(o.Center)
	return mgl64.Vec3{d.Dot(o.U), d.Dot(o.V), d.Dot(o.W)}
}

// Transform returns the box carried into world space by t. Axes are
// rotated and renormalised, the center is transformed as a point and the
// half extents are scaled.
func (o OBB) Transform(t Transform) OBB {
	return OBB{
		U:           t.Direction(o.U),
		V:           t.Direction(o.V),
		W:           t.Direction(o.W),
		Center:      t.Point(o.Center),
		HalfExtents: o.HalfExtents.Mul(t.absScale()),
	}
}

// Volume returns the box volume.
func (o OBB) Volume() float64 {
	return 8 * o.HalfExtents.X() * o.HalfExtents.Y() * o.HalfExtents.Z()
}

package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// AABBFromMinMax builds a box from its two extreme corners.
func AABBFromMinMax(min, max mgl64.Vec3) AABB {
	return AABB{
		Center:      min.Add(max).Mul(0.5),
		HalfExtents: max.Sub(min).Mul(0.5),
	}
}

// AABBFromPoints returns the smallest axis-aligned box enclosing points.
func AABBFromPoints(points []mgl64.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min, max := points[0], points[0]
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], p[i])
			max[i] = math.Max(max[i], p[i])
		}
	}

	return AABBFromMinMax(min, max)
}

func (a AABB) Min() mgl64.Vec3 {
	return a.Center.Sub(a.HalfExtents)
}

func (a AABB) Max() mgl64.Vec3 {
	return a.Center.Add(a.HalfExtents)
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	min, max := a.Min(), a.Max()
	return point.X() >= min.X() && point.X() <= max.X() &&
		point.Y() >= min.Y() && point.Y() <= max.Y() &&
		point.Z() >= min.Z() && point.Z() <= max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// Overlap on every axis when centers are closer than the summed extents
	for i := 0; i < 3; i++ {
		if math.Abs(a.Center[i]-other.Center[i]) > a.HalfExtents[i]+other.HalfExtents[i] {
			return false
		}
	}
	return true
}

// Support returns the corner of the box furthest along direction.
func (a AABB) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := a.HalfExtents.X(), a.HalfExtents.Y(), a.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return a.Center.Add(mgl64.Vec3{hx, hy, hz})
}

// Classify tests the box against a single plane using its positive and
// negative support vertices.
func (a AABB) Classify(p Plane) Classification {
	return classify(
		p.SignedDistance(a.Support(p.Normal.Mul(-1))),
		p.SignedDistance(a.Support(p.Normal)),
	)
}

// Transform returns the axis-aligned box enclosing the box carried into
// world space by t.
func (a AABB) Transform(t Transform) AABB {
	rot := t.Rotation.Mat4().Mat3()
	s := t.absScale()

	var half mgl64.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			half[i] += math.Abs(rot.At(i, j)) * a.HalfExtents[j]
		}
	}

	return AABB{
		Center:      t.Point(a.Center),
		HalfExtents: half.Mul(s),
	}
}

package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// SphereFromPoints returns the sphere centered on the midpoint of the points'
// extent that encloses all of them. It is not minimal.
func SphereFromPoints(points []mgl64.Vec3) Sphere {
	if len(points) == 0 {
		return Sphere{}
	}

	center := AABBFromPoints(points).Center
	var r2 float64
	for _, p := range points {
		r2 = math.Max(r2, p.Sub(center).LenSqr())
	}

	return Sphere{Center: center, Radius: math.Sqrt(r2)}
}

// Classify tests the sphere against a single plane.
func (s Sphere) Classify(p Plane) Classification {
	d := p.SignedDistance(s.Center)
	return classify(d-s.Radius, d+s.Radius)
}

// Transform returns the sphere carried into world space by t.
func (s Sphere) Transform(t Transform) Sphere {
	return Sphere{
		Center: t.Point(s.Center),
		Radius: s.Radius * t.absScale(),
	}
}

// ContainsPoint checks if a point is inside the sphere
func (s Sphere) ContainsPoint(point mgl64.Vec3) bool {
	return point.Sub(s.Center).LenSqr() <= s.Radius*s.Radius
}

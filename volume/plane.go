// Package volume defines the bounding volumes used for visibility tests:
// spheres, axis-aligned boxes and oriented boxes, together with planes,
// rays and the transforms that carry model-space volumes into the world.
package volume

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Classification is the result of testing a volume against a half-space.
type Classification int8

const (
	// Outside means the volume lies entirely in the rejected half-space.
	Outside Classification = iota
	// Straddling means the volume crosses the plane.
	Straddling
	// Inside means the volume lies entirely in the kept half-space. A volume
	// touching the plane from the kept side is Inside.
	Inside
)

func (c Classification) String() string {
	switch c {
	case Outside:
		return "outside"
	case Straddling:
		return "straddling"
	case Inside:
		return "inside"
	}
	return fmt.Sprintf("Classification(%d)", int8(c))
}

// Plane is the set of points p with Normal·p + Distance = 0. Normal is unit
// length and points into the kept half-space.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// NewPlane builds the plane through point with the given normal, which is
// normalised.
func NewPlane(normal, point mgl64.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Distance: -n.Dot(point)}
}

// Normalized rescales an arbitrary plane equation so that Normal is unit
// length. A zero normal is returned unchanged.
func (p Plane) Normalized() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / l), Distance: p.Distance / l}
}

// SignedDistance returns the distance from point to the plane, positive on
// the kept side.
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Distance
}

// classify reports where the extreme points of a volume along the plane
// normal fall. dmax is the signed distance of the point furthest along the
// normal, dmin of the point furthest against it.
func classify(dmin, dmax float64) Classification {
	if dmax < 0 {
		return Outside
	}
	if dmin >= 0 {
		return Inside
	}
	return Straddling
}

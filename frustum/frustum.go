// Package frustum builds the six-plane view volume of a camera.
package frustum

import (
	"fmt"

	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
)

// PlaneIndex selects one of the six frustum planes. The order is the order
// in which planes are tested.
type PlaneIndex uint8

const (
	Left PlaneIndex = iota
	Right
	Near
	Far
	Bottom
	Top

	// PlaneCount is the number of frustum planes.
	PlaneCount = 6
)

var planeNames = [PlaneCount]string{"left", "right", "near", "far", "bottom", "top"}

func (i PlaneIndex) String() string {
	if int(i) < PlaneCount {
		return planeNames[i]
	}
	return fmt.Sprintf("PlaneIndex(%d)", uint8(i))
}

// Frustum is a convex volume bounded by six planes whose normals point
// inwards.
type Frustum struct {
	Planes [PlaneCount]volume.Plane
}

// FromMatrix extracts the frustum from a combined projection * view matrix
// using OpenGL clip conventions (-w <= x, y, z <= w). Planes are in the
// space the view matrix maps from, usually world space.
func FromMatrix(projView mgl64.Mat4) Frustum {
	r0, r1, r2, r3 := projView.Row(0), projView.Row(1), projView.Row(2), projView.Row(3)

	var f Frustum
	f.Planes[Left] = plane(r3.Add(r0))
	f.Planes[Right] = plane(r3.Sub(r0))
	f.Planes[Near] = plane(r3.Add(r2))
	f.Planes[Far] = plane(r3.Sub(r2))
	f.Planes[Bottom] = plane(r3.Add(r1))
	f.Planes[Top] = plane(r3.Sub(r1))

	return f
}

func plane(v mgl64.Vec4) volume.Plane {
	return volume.Plane{Normal: v.Vec3(), Distance: v.W()}.Normalized()
}

// Plane returns the plane at index i.
func (f *Frustum) Plane(i PlaneIndex) volume.Plane {
	return f.Planes[i]
}

// ContainsPoint reports whether point is on the inner side of every plane.
func (f *Frustum) ContainsPoint(point mgl64.Vec3) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(point) < 0 {
			return false
		}
	}
	return true
}

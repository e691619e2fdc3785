package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line. Direction need not be unit length; hit distances are
// expressed in multiples of it.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlane returns the parameter where the ray crosses the plane.
func (r Ray) IntersectPlane(p Plane) (float64, bool) {
	denom := p.Normal.Dot(r.Direction)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}

	t := -p.SignedDistance(r.Origin) / denom
	return t, t >= 0
}

// IntersectSphere returns the first parameter where the ray enters the
// sphere, or 0 when the origin is already inside.
func (r Ray) IntersectSphere(s Sphere) (float64, bool) {
	m := r.Origin.Sub(s.Center)
	a := r.Direction.Dot(r.Direction)
	b := m.Dot(r.Direction)
	c := m.Dot(m) - s.Radius*s.Radius
	if a == 0 {
		return 0, c <= 0
	}
	if c <= 0 {
		return 0, true
	}

	disc := b*b - a*c
	if disc < 0 || b > 0 {
		return 0, false
	}

	return (-b - math.Sqrt(disc)) / a, true
}

// IntersectAABB returns the entry parameter of the ray into the box using
// the slab method, or 0 when the origin is already inside.
func (r Ray) IntersectAABB(a AABB) (float64, bool) {
	return slabs(r.Origin.Sub(a.Center), r.Direction, a.HalfExtents)
}

// IntersectOBB moves the ray into the box frame and runs the slab test
// there.
func (r Ray) IntersectOBB(o OBB) (float64, bool) {
	dir := mgl64.Vec3{r.Direction.Dot(o.U), r.Direction.Dot(o.V), r.Direction.Dot(o.W)}
	return slabs(o.Local(r.Origin), dir, o.HalfExtents)
}

func slabs(origin, dir, half mgl64.Vec3) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < -half[i] || origin[i] > half[i] {
				return 0, false
			}
			continue
		}

		inv := 1 / dir[i]
		t1 := (-half[i] - origin[i]) * inv
		t2 := (half[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}

	return tmin, true
}

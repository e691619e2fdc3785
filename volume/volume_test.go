package volume

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func unitOBB(center mgl64.Vec3) OBB {
	return OBB{
		U:           mgl64.Vec3{1, 0, 0},
		V:           mgl64.Vec3{0, 1, 0},
		W:           mgl64.Vec3{0, 0, 1},
		Center:      center,
		HalfExtents: mgl64.Vec3{1, 1, 1},
	}
}

// farPlane faces -z at distance 5: points with z <= 5 are kept.
var farPlane = Plane{Normal: mgl64.Vec3{0, 0, -1}, Distance: 5}

// =============================================================================
// Plane classification
// =============================================================================

func TestClassify_FarPlane(t *testing.T) {
	tests := []struct {
		name     string
		center   mgl64.Vec3
		expected Classification
	}{
		{name: "cube at origin", center: mgl64.Vec3{0, 0, 0}, expected: Inside},
		{name: "cube beyond far plane", center: mgl64.Vec3{0, 0, 10}, expected: Outside},
		{name: "cube crossing far plane", center: mgl64.Vec3{0, 0, 5}, expected: Straddling},
		{name: "cube face on far plane", center: mgl64.Vec3{0, 0, 4}, expected: Inside},
		{name: "cube face on far plane from outside", center: mgl64.Vec3{0, 0, 6}, expected: Straddling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obb := unitOBB(tt.center)
			if got := obb.Classify(farPlane); got != tt.expected {
				t.Errorf("OBB: expected %v, got %v", tt.expected, got)
			}

			aabb := AABB{Center: tt.center, HalfExtents: mgl64.Vec3{1, 1, 1}}
			if got := aabb.Classify(farPlane); got != tt.expected {
				t.Errorf("AABB: expected %v, got %v", tt.expected, got)
			}

			sphere := Sphere{Center: tt.center, Radius: 1}
			if got := sphere.Classify(farPlane); got != tt.expected {
				t.Errorf("Sphere: expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestClassify_RotatedOBBMatchesCorners(t *testing.T) {
	rot := mgl64.QuatRotate(0.7, mgl64.Vec3{1, 2, 3}.Normalize())
	obb := OBB{
		U:           rot.Rotate(mgl64.Vec3{1, 0, 0}),
		V:           rot.Rotate(mgl64.Vec3{0, 1, 0}),
		W:           rot.Rotate(mgl64.Vec3{0, 0, 1}),
		Center:      mgl64.Vec3{0.5, -1, 2},
		HalfExtents: mgl64.Vec3{3, 1, 0.25},
	}

	planes := []Plane{
		NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-10, 0, 0}),
		NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{10, 0, 0}),
		NewPlane(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0.5, -1, 2}),
		NewPlane(mgl64.Vec3{0, -1, 1}, mgl64.Vec3{0, 2, 0}),
		NewPlane(mgl64.Vec3{-1, 0.2, -0.4}, mgl64.Vec3{3, 3, 3}),
	}

	for i, p := range planes {
		dmin, dmax := math.Inf(1), math.Inf(-1)
		for _, c := range obb.Corners() {
			d := p.SignedDistance(c)
			dmin = math.Min(dmin, d)
			dmax = math.Max(dmax, d)
		}

		expected := Straddling
		if dmax < 0 {
			expected = Outside
		} else if dmin >= 0 {
			expected = Inside
		}

		if got := obb.Classify(p); got != expected {
			t.Errorf("plane %d: expected %v, got %v", i, expected, got)
		}
	}
}

func TestClassification_String(t *testing.T) {
	if Outside.String() != "outside" || Straddling.String() != "straddling" || Inside.String() != "inside" {
		t.Errorf("Unexpected names %v %v %v", Outside, Straddling, Inside)
	}
	if Classification(9).String() != "Classification(9)" {
		t.Errorf("Unexpected name %v", Classification(9))
	}
}

func TestPlane_Normalized(t *testing.T) {
	p := Plane{Normal: mgl64.Vec3{0, 0, 2}, Distance: 4}.Normalized()

	if p.Normal != (mgl64.Vec3{0, 0, 1}) || p.Distance != 2 {
		t.Errorf("Expected {0 0 1} 2, got %v %v", p.Normal, p.Distance)
	}

	zero := Plane{Distance: 3}
	if zero.Normalized() != zero {
		t.Errorf("Expected zero plane unchanged")
	}
}

// =============================================================================
// Transforms
// =============================================================================

func TestOBBTransform(t *testing.T) {
	obb := OBB{
		U:           mgl64.Vec3{1, 0, 0},
		V:           mgl64.Vec3{0, 1, 0},
		W:           mgl64.Vec3{0, 0, 1},
		Center:      mgl64.Vec3{1, 0, 0},
		HalfExtents: mgl64.Vec3{2, 1, 0.5},
	}
	tr := Transform{
		Position: mgl64.Vec3{0, 0, -3},
		Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
		Scale:    2,
	}

	world := obb.Transform(tr)

	if !world.U.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("Expected U {0 1 0}, got %v", world.U)
	}
	if !world.V.ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, 1e-12) {
		t.Errorf("Expected V {-1 0 0}, got %v", world.V)
	}
	if !world.W.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("Expected W {0 0 1}, got %v", world.W)
	}
	if !world.Center.ApproxEqualThreshold(mgl64.Vec3{0, 2, -3}, 1e-12) {
		t.Errorf("Expected center {0 2 -3}, got %v", world.Center)
	}
	if world.HalfExtents != (mgl64.Vec3{4, 2, 1}) {
		t.Errorf("Expected half extents {4 2 1}, got %v", world.HalfExtents)
	}
}

func TestTransform_MatrixMatchesPoint(t *testing.T) {
	tr := Transform{
		Position: mgl64.Vec3{1, 2, 3},
		Rotation: mgl64.QuatRotate(1.1, mgl64.Vec3{0, 1, 1}.Normalize()),
		Scale:    1.5,
	}
	p := mgl64.Vec3{-2, 0.5, 4}

	viaMatrix := tr.Matrix().Mul4x1(p.Vec4(1)).Vec3()
	if !viaMatrix.ApproxEqualThreshold(tr.Point(p), 1e-12) {
		t.Errorf("Expected %v, got %v", tr.Point(p), viaMatrix)
	}

	if id := NewTransform(); id.Point(p) != p {
		t.Errorf("Expected identity transform to keep %v, got %v", p, id.Point(p))
	}
}

func TestAABBTransform(t *testing.T) {
	aabb := AABB{Center: mgl64.Vec3{1, 0, 0}, HalfExtents: mgl64.Vec3{2, 1, 1}}
	tr := Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}),
		Scale:    1,
	}

	world := aabb.Transform(tr)

	s := math.Sqrt2 / 2
	if !world.Center.ApproxEqualThreshold(mgl64.Vec3{s, s, 0}, 1e-12) {
		t.Errorf("Expected center {%v %v 0}, got %v", s, s, world.Center)
	}
	expected := mgl64.Vec3{3 * s, 3 * s, 1}
	if !world.HalfExtents.ApproxEqualThreshold(expected, 1e-12) {
		t.Errorf("Expected half extents %v, got %v", expected, world.HalfExtents)
	}

	// The enclosing box must contain every transformed corner
	obb := OBBFromAABB(aabb)
	for _, c := range obb.Corners() {
		d := tr.Point(c).Sub(world.Center)
		for i := 0; i < 3; i++ {
			if math.Abs(d[i]) > world.HalfExtents[i]+1e-9 {
				t.Errorf("Transformed corner %v outside %v", tr.Point(c), world)
			}
		}
	}
}

func TestSphereTransform_NegativeScale(t *testing.T) {
	s := Sphere{Center: mgl64.Vec3{1, 0, 0}, Radius: 2}
	tr := NewTransform()
	tr.Scale = -3

	world := s.Transform(tr)
	if world.Radius != 6 {
		t.Errorf("Expected radius 6, got %v", world.Radius)
	}
	if world.Center != (mgl64.Vec3{-3, 0, 0}) {
		t.Errorf("Expected center {-3 0 0}, got %v", world.Center)
	}
}

// =============================================================================
// Containment and construction
// =============================================================================

func TestAABBContainsPoint(t *testing.T) {
	aabb := AABBFromMinMax(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 2})

	tests := []struct {
		name     string
		point    mgl64.Vec3
		expected bool
	}{
		{name: "center", point: mgl64.Vec3{1, 1, 1}, expected: true},
		{name: "corner", point: mgl64.Vec3{2, 2, 2}, expected: true},
		{name: "on face", point: mgl64.Vec3{0, 1, 1}, expected: true},
		{name: "outside X", point: mgl64.Vec3{2.1, 1, 1}, expected: false},
		{name: "outside negative Z", point: mgl64.Vec3{1, 1, -0.1}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aabb.ContainsPoint(tt.point); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAABBOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     AABB
		expected bool
	}{
		{
			name:     "separated on X",
			a:        AABBFromMinMax(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:        AABBFromMinMax(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{3, 1, 1}),
			expected: false,
		},
		{
			name:     "touching faces",
			a:        AABBFromMinMax(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:        AABBFromMinMax(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 1, 1}),
			expected: true,
		},
		{
			name:     "contained",
			a:        AABBFromMinMax(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 4, 4}),
			b:        AABBFromMinMax(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2}),
			expected: true,
		},
		{
			name:     "separated on Z only",
			a:        AABBFromMinMax(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:        AABBFromMinMax(mgl64.Vec3{0, 0, -3}, mgl64.Vec3{1, 1, -2}),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			// Test symmetry
			if got := tt.b.Overlaps(tt.a); got != tt.expected {
				t.Errorf("Expected %v (symmetry test), got %v", tt.expected, got)
			}
		})
	}
}

func TestSphereFromPoints(t *testing.T) {
	points := []mgl64.Vec3{{-1, 0, 0}, {1, 0, 0}, {0, 2, 0}, {0, 0, 0}}
	s := SphereFromPoints(points)

	for _, p := range points {
		if !s.ContainsPoint(p) {
			t.Errorf("Expected %v inside %v", p, s)
		}
	}
	if (SphereFromPoints(nil) != Sphere{}) {
		t.Errorf("Expected zero sphere for no points")
	}
}

func TestOBBContainsPointAndAABB(t *testing.T) {
	rot := mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1})
	obb := OBB{
		U:           rot.Rotate(mgl64.Vec3{1, 0, 0}),
		V:           rot.Rotate(mgl64.Vec3{0, 1, 0}),
		W:           mgl64.Vec3{0, 0, 1},
		HalfExtents: mgl64.Vec3{1, 1, 1},
	}

	if !obb.ContainsPoint(mgl64.Vec3{0, 1.4, 0}) {
		t.Errorf("Expected point along rotated diagonal inside")
	}
	if obb.ContainsPoint(mgl64.Vec3{1, 1, 0}) {
		t.Errorf("Expected box corner region outside rotated box")
	}

	aabb := obb.AABB()
	if !aabb.HalfExtents.ApproxEqualThreshold(mgl64.Vec3{math.Sqrt2, math.Sqrt2, 1}, 1e-12) {
		t.Errorf("Expected enclosing half extents {√2 √2 1}, got %v", aabb.HalfExtents)
	}
	if obb.Volume() != 8 {
		t.Errorf("Expected volume 8, got %v", obb.Volume())
	}
}

// =============================================================================
// Rays
// =============================================================================

func TestRayIntersections(t *testing.T) {
	ray := Ray{Origin: mgl64.Vec3{0, 0, -10}, Direction: mgl64.Vec3{0, 0, 1}}
	miss := Ray{Origin: mgl64.Vec3{5, 0, -10}, Direction: mgl64.Vec3{0, 0, 1}}
	away := Ray{Origin: mgl64.Vec3{0, 0, -10}, Direction: mgl64.Vec3{0, 0, -1}}

	sphere := Sphere{Radius: 1}
	aabb := AABB{HalfExtents: mgl64.Vec3{1, 1, 1}}
	rot := mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 1, 0})
	obb := OBB{
		U:           rot.Rotate(mgl64.Vec3{1, 0, 0}),
		V:           mgl64.Vec3{0, 1, 0},
		W:           rot.Rotate(mgl64.Vec3{0, 0, 1}),
		HalfExtents: mgl64.Vec3{1, 1, 1},
	}

	tests := []struct {
		name   string
		hit    func(r Ray) (float64, bool)
		tEnter float64
	}{
		{name: "sphere", hit: func(r Ray) (float64, bool) { return r.IntersectSphere(sphere) }, tEnter: 9},
		{name: "aabb", hit: func(r Ray) (float64, bool) { return r.IntersectAABB(aabb) }, tEnter: 9},
		{name: "obb", hit: func(r Ray) (float64, bool) { return r.IntersectOBB(obb) }, tEnter: 10 - math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tHit, ok := tt.hit(ray)
			if !ok {
				t.Fatalf("Expected hit")
			}
			if math.Abs(tHit-tt.tEnter) > 1e-9 {
				t.Errorf("Expected t=%v, got %v", tt.tEnter, tHit)
			}
			if _, ok := tt.hit(miss); ok {
				t.Errorf("Expected offset ray to miss")
			}
			if _, ok := tt.hit(away); ok {
				t.Errorf("Expected ray pointing away to miss")
			}
		})
	}

	tPlane, ok := ray.IntersectPlane(farPlane)
	if !ok || tPlane != 15 {
		t.Errorf("Expected far plane hit at 15, got %v %v", tPlane, ok)
	}
	if _, ok := ray.IntersectPlane(Plane{Normal: mgl64.Vec3{1, 0, 0}}); ok {
		t.Errorf("Expected parallel ray to miss plane")
	}
	if p := ray.At(tPlane); p != (mgl64.Vec3{0, 0, 5}) {
		t.Errorf("Expected {0 0 5}, got %v", p)
	}
}

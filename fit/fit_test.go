package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
)

const tolerance = 1e-6

func boxTriangles(h mgl64.Vec3) []mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for i := range corners {
		corners[i] = h
		if i&1 == 0 {
			corners[i][0] = -h.X()
		}
		if i&2 == 0 {
			corners[i][1] = -h.Y()
		}
		if i&4 == 0 {
			corners[i][2] = -h.Z()
		}
	}

	faces := [6][4]int{{0, 2, 6, 4}, {1, 5, 7, 3}, {0, 4, 5, 1}, {2, 3, 7, 6}, {0, 1, 3, 2}, {4, 6, 7, 5}}
	verts := make([]mgl64.Vec3, 0, 36)
	for _, f := range faces {
		verts = append(verts,
			corners[f[0]], corners[f[1]], corners[f[2]],
			corners[f[0]], corners[f[2]], corners[f[3]],
		)
	}

	return verts
}

func assertFrame(t *testing.T, obb volume.OBB) {
	t.Helper()

	for i := 0; i < 3; i++ {
		a := obb.Axis(i)
		if math.IsNaN(a.Len()) || math.Abs(a.Len()-1) > tolerance {
			t.Errorf("Axis %d is not unit length: %v", i, a)
		}
		for j := i + 1; j < 3; j++ {
			if math.Abs(a.Dot(obb.Axis(j))) > tolerance {
				t.Errorf("Axes %d and %d are not orthogonal", i, j)
			}
		}
	}
	if det := obb.U.Cross(obb.V).Dot(obb.W); math.Abs(det-1) > tolerance {
		t.Errorf("Expected right-handed frame, got det %v", det)
	}
	for i := 0; i < 3; i++ {
		if obb.HalfExtents[i] < 0 {
			t.Errorf("Expected non-negative half extents, got %v", obb.HalfExtents)
		}
	}
}

func assertEncloses(t *testing.T, obb volume.OBB, verts []mgl64.Vec3) {
	t.Helper()

	for _, p := range verts {
		local := obb.Local(p)
		for i := 0; i < 3; i++ {
			if math.Abs(local[i]) > obb.HalfExtents[i]+tolerance {
				t.Errorf("Vertex %v outside box %+v", p, obb)
				return
			}
		}
	}
}

// =============================================================================
// Single triangle
// =============================================================================

func TestTriangle(t *testing.T) {
	tests := []struct {
		name  string
		verts [3]mgl64.Vec3
		half  mgl64.Vec3
	}{
		{
			name:  "right triangle",
			verts: [3]mgl64.Vec3{{0, 0, 0}, {4, 0, 0}, {0, 3, 0}},
			half:  mgl64.Vec3{2.5, 1.2, 0},
		},
		{
			name:  "longest edge first",
			verts: [3]mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {2, 1, 0}},
			half:  mgl64.Vec3{5, 0.5, 0},
		},
		{
			name:  "tilted in space",
			verts: [3]mgl64.Vec3{{1, 1, 1}, {1, 5, 1}, {1, 3, 4}},
			half:  mgl64.Vec3{2, 1.5, 0},
		},
		{
			name:  "collinear",
			verts: [3]mgl64.Vec3{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}},
			half:  mgl64.Vec3{math.Sqrt2, 0, 0},
		},
		{
			name:  "coincident",
			verts: [3]mgl64.Vec3{{3, 3, 3}, {3, 3, 3}, {3, 3, 3}},
			half:  mgl64.Vec3{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obb := Triangle(tt.verts[0], tt.verts[1], tt.verts[2])

			assertFrame(t, obb)
			assertEncloses(t, obb, tt.verts[:])
			if !obb.HalfExtents.ApproxEqualThreshold(tt.half, tolerance) {
				t.Errorf("Expected half extents %v, got %v", tt.half, obb.HalfExtents)
			}
		})
	}
}

func TestTriangle_UAlongLongestEdge(t *testing.T) {
	obb := Triangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 3, 0})

	expected := mgl64.Vec3{-4, 3, 0}.Mul(0.2)
	if math.Abs(math.Abs(obb.U.Dot(expected))-1) > tolerance {
		t.Errorf("Expected U parallel to %v, got %v", expected, obb.U)
	}
	if math.Abs(math.Abs(obb.W.Z())-1) > tolerance {
		t.Errorf("Expected W along the triangle normal, got %v", obb.W)
	}
}

// =============================================================================
// PCA fit
// =============================================================================

func TestVertices_InvalidCount(t *testing.T) {
	counts := []int{0, 1, 2, 4, 5, 7}

	for _, n := range counts {
		_, err := Vertices(make([]mgl64.Vec3, n))
		if !errors.Is(err, ErrInvalidVertexCount) {
			t.Errorf("%d vertices: expected ErrInvalidVertexCount, got %v", n, err)
		}
	}
}

func TestVertices_SingleTriangleIsExact(t *testing.T) {
	verts := []mgl64.Vec3{{0, 0, 0}, {4, 0, 0}, {0, 3, 0}}

	obb, err := Vertices(verts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if obb != Triangle(verts[0], verts[1], verts[2]) {
		t.Errorf("Expected single triangle fit, got %+v", obb)
	}
}

func TestVertices_RotatedBox(t *testing.T) {
	half := mgl64.Vec3{2, 1, 0.5}
	rot := mgl64.QuatRotate(0.6, mgl64.Vec3{1, 2, -1}.Normalize())
	offset := mgl64.Vec3{5, -3, 7}

	verts := boxTriangles(half)
	for i, v := range verts {
		verts[i] = rot.Rotate(v).Add(offset)
	}

	obb, err := Vertices(verts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	assertFrame(t, obb)
	assertEncloses(t, obb, verts)

	if !obb.Center.ApproxEqualThreshold(offset, 1e-4) {
		t.Errorf("Expected center %v, got %v", offset, obb.Center)
	}

	// Each fitted axis matches one box axis, with the matching extent
	for i := 0; i < 3; i++ {
		a := obb.Axis(i)
		matched := false
		for j := 0; j < 3; j++ {
			var local mgl64.Vec3
			local[j] = 1
			if math.Abs(math.Abs(a.Dot(rot.Rotate(local)))-1) < 1e-4 {
				matched = true
				if math.Abs(obb.HalfExtents[i]-half[j]) > 1e-4 {
					t.Errorf("Axis %d: expected half extent %v, got %v", i, half[j], obb.HalfExtents[i])
				}
			}
		}
		if !matched {
			t.Errorf("Axis %d (%v) does not match any box axis", i, a)
		}
	}
}

func TestVertices_AxisConventions(t *testing.T) {
	rot := mgl64.QuatRotate(2.5, mgl64.Vec3{-1, 0.3, 0.8}.Normalize())
	verts := boxTriangles(mgl64.Vec3{3, 1.5, 0.7})
	for i, v := range verts {
		verts[i] = rot.Rotate(v)
	}

	obb, err := Vertices(verts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if obb.U.X() < 0 {
		t.Errorf("Expected U.x >= 0, got %v", obb.U)
	}
	if obb.V.Y() < 0 {
		t.Errorf("Expected V.y >= 0, got %v", obb.V)
	}
	if math.Abs(obb.U.X()) < math.Abs(obb.W.X())-tolerance {
		t.Errorf("Expected U to have the largest |x|, got U=%v W=%v", obb.U, obb.W)
	}
}

func TestVertices_AreaWeighted(t *testing.T) {
	// One large triangle along x and many tiny triangles far out on y.
	// A point-cloud fit would follow y, the surface fit follows x.
	verts := []mgl64.Vec3{{-10, 0, 0}, {10, 0, 0}, {0, 1, 0}}
	for i := 0; i < 10; i++ {
		y := 20.0
		if i%2 == 0 {
			y = -20
		}
		x := float64(i) * 0.1
		verts = append(verts,
			mgl64.Vec3{x, y, 0},
			mgl64.Vec3{x + 0.01, y, 0},
			mgl64.Vec3{x, y + 0.01, 0},
		)
	}

	obb, err := Vertices(verts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if math.Abs(obb.U.X()) < 0.99 {
		t.Errorf("Expected U along x, got %v", obb.U)
	}
	assertEncloses(t, obb, verts)
}

func TestVertices_ZeroAreaFallsBackToAxisAligned(t *testing.T) {
	verts := []mgl64.Vec3{
		{0, 0, 0}, {1, 1, 1}, {2, 2, 2},
		{3, 3, 3}, {3, 3, 3}, {3, 3, 3},
	}

	obb, err := Vertices(verts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if obb != AxisAligned(verts) {
		t.Errorf("Expected axis-aligned fallback, got %+v", obb)
	}
	assertFrame(t, obb)
	assertEncloses(t, obb, verts)
}

func TestVertices_TranslationInvariant(t *testing.T) {
	verts := boxTriangles(mgl64.Vec3{1, 2, 3})
	moved := make([]mgl64.Vec3, len(verts))
	offset := mgl64.Vec3{-7, 11, 0.5}
	for i, v := range verts {
		moved[i] = v.Add(offset)
	}

	a, errA := Vertices(verts)
	b, errB := Vertices(moved)
	if errA != nil || errB != nil {
		t.Fatalf("Expected no errors, got %v %v", errA, errB)
	}

	if !b.Center.ApproxEqualThreshold(a.Center.Add(offset), 1e-6) {
		t.Errorf("Expected center %v, got %v", a.Center.Add(offset), b.Center)
	}
	if !b.HalfExtents.ApproxEqualThreshold(a.HalfExtents, 1e-6) {
		t.Errorf("Expected half extents %v, got %v", a.HalfExtents, b.HalfExtents)
	}
}

func TestPrincipalAxes_TieBreak(t *testing.T) {
	u, v := principalAxes(mgl64.Vec3{0, 0, -1}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, -1, 0})

	if u != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Expected U {1 0 0}, got %v", u)
	}
	if v != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Expected V {0 1 0}, got %v", v)
	}
}

func TestAxisAligned(t *testing.T) {
	verts := []mgl64.Vec3{{-1, 0, 2}, {3, 4, 2}, {0, 0, 6}}
	obb := AxisAligned(verts)

	if obb.Center != (mgl64.Vec3{1, 2, 4}) || obb.HalfExtents != (mgl64.Vec3{2, 2, 2}) {
		t.Errorf("Unexpected axis-aligned box %+v", obb)
	}
	if obb.Axes() != mgl64.Ident3() {
		t.Errorf("Expected identity axes, got %v", obb.Axes())
	}
}

func TestVertices_Idempotent(t *testing.T) {
	rot := mgl64.QuatRotate(0.7, mgl64.Vec3{1, 2, 3}.Normalize())
	verts := boxTriangles(mgl64.Vec3{4, 2, 1})
	for i, v := range verts {
		verts[i] = rot.Rotate(v).Add(mgl64.Vec3{3, -1, 2})
	}
	input := append([]mgl64.Vec3(nil), verts...)

	first, err := Vertices(verts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := Vertices(verts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first != second {
		t.Errorf("Expected identical boxes, got %+v and %+v", first, second)
	}
	for i := range input {
		if verts[i] != input[i] {
			t.Fatalf("Vertex %d modified: %v -> %v", i, input[i], verts[i])
		}
	}
}

func TestVertices_NotConvergedFallsBackToAxisAligned(t *testing.T) {
	verts := boxTriangles(mgl64.Vec3{1, 2, 3})
	verts = append(verts, mgl64.Vec3{0, 0, math.NaN()}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})

	obb, err := Vertices(verts)
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("Expected ErrNotConverged, got %v", err)
	}

	if obb.U != (mgl64.Vec3{1, 0, 0}) || obb.V != (mgl64.Vec3{0, 1, 0}) || obb.W != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Expected world axes, got %v %v %v", obb.U, obb.V, obb.W)
	}
	if obb.HalfExtents.X() != 1 || obb.HalfExtents.Y() != 2 {
		t.Errorf("Expected x and y half extents 1 and 2, got %v", obb.HalfExtents)
	}
	if obb.Center.X() != 0 || obb.Center.Y() != 0 {
		t.Errorf("Expected x and y center 0, got %v", obb.Center)
	}
}

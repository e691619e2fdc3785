package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform places a model in the world: a uniform scale, then a rotation,
// then a translation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    float64
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    1,
	}
}

// Matrix returns translate * rotate * scale.
func (t Transform) Matrix() mgl64.Mat4 {
	s := t.Scale
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(s, s, s))
}

// Point maps a model-space point into world space.
func (t Transform) Point(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Position)
}

// Direction rotates a model-space direction into world space and
// renormalises it. Scale does not apply to directions.
func (t Transform) Direction(d mgl64.Vec3) mgl64.Vec3 {
	r := t.Rotation.Rotate(d)
	if l := r.Len(); l > 0 {
		return r.Mul(1 / l)
	}
	return r
}

func (t Transform) absScale() float64 {
	return math.Abs(t.Scale)
}

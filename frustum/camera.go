package frustum

import "github.com/go-gl/mathgl/mgl64"

// Camera is a perspective camera. FovY is in radians.
type Camera struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3

	FovY   float64
	Aspect float64
	Near   float64
	Far    float64
}

// NewCamera returns a camera at eye looking at target with +Y up.
func NewCamera(eye, target mgl64.Vec3, fovY, aspect, near, far float64) Camera {
	return Camera{
		Eye:    eye,
		Target: target,
		Up:     mgl64.Vec3{0, 1, 0},
		FovY:   fovY,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Target, c.Up)
}

func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// Frustum returns the world-space view volume of the camera.
func (c Camera) Frustum() Frustum {
	return FromMatrix(c.Projection().Mul4(c.View()))
}

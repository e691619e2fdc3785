package bvcull

import (
	"github.com/akmonengine/bvcull/asset"
	"github.com/akmonengine/bvcull/frustum"
	"github.com/akmonengine/bvcull/volume"
)

// CullState is the per-object memory of the culler. Plane is the last
// plane that rejected the object, or Left when none has yet.
type CullState struct {
	Plane  frustum.PlaneIndex
	Result volume.Classification
	Tested bool
}

// Visible reports whether the last test let the object through.
func (s CullState) Visible() bool {
	return s.Tested && s.Result != volume.Outside
}

// RenderContext is the render-side state of one object: its model, world
// transform, world-space bounding volumes and cull state.
type RenderContext struct {
	Model     *asset.Model
	Transform volume.Transform

	Sphere volume.Sphere
	AABB   volume.AABB
	OBB    volume.OBB

	State CullState
}

// NewRenderContext places model in the world with transform.
func NewRenderContext(model *asset.Model, transform volume.Transform) *RenderContext {
	ctx := &RenderContext{Model: model}
	ctx.SetTransform(transform)
	return ctx
}

// SetTransform moves the object and refreshes its world volumes.
func (c *RenderContext) SetTransform(transform volume.Transform) {
	c.Transform = transform
	c.UpdateBounds()
}

// UpdateBounds carries the model-space volumes into world space with the
// current transform.
func (c *RenderContext) UpdateBounds() {
	if c.Model == nil {
		return
	}
	c.Sphere = c.Model.Sphere.Transform(c.Transform)
	c.AABB = c.Model.AABB.Transform(c.Transform)
	c.OBB = c.Model.OBB.Transform(c.Transform)
}

// Pick casts ray against the object hierarchy and returns the leaf it
// enters first.
func (c *RenderContext) Pick(ray volume.Ray) (leaf int, dist float64, ok bool) {
	if c.Model == nil || c.Model.Tree == nil {
		return -1, 0, false
	}
	return c.Model.Tree.Pick(ray, c.Transform)
}

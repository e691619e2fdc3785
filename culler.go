// Package bvcull decides, frame by frame, which objects of a scene lie in
// the camera frustum and hands the visible ones to a draw batcher.
//
// Each object is tested through one bounding volume, selected by the
// culler Scheme. With plane coherency enabled the culler remembers, per
// object, the frustum plane that rejected it last and tests that plane
// first on the next frame.
package bvcull

import (
	"fmt"
	"strings"

	"github.com/akmonengine/bvcull/frustum"
	"github.com/akmonengine/bvcull/volume"
)

// Scheme selects the bounding volume tested against the frustum.
type Scheme uint8

const (
	SchemeOBB Scheme = iota
	SchemeAABB
	SchemeSphere
)

var schemeNames = map[Scheme]string{
	SchemeSphere: "sphere",
	SchemeAABB:   "aabb",
	SchemeOBB:    "obb",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scheme(%d)", uint8(s))
}

// ParseScheme maps "sphere", "aabb" or "obb" to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	for s, n := range schemeNames {
		if strings.EqualFold(name, n) {
			return s, nil
		}
	}
	return SchemeOBB, fmt.Errorf("bvcull: unknown scheme %q", name)
}

// allInside has one bit set per frustum plane.
const allInside = 1<<frustum.PlaneCount - 1

// Culler classifies objects against a frustum. The zero value tests
// oriented boxes with plane coherency.
type Culler struct {
	scheme Scheme
	full   bool
}

// NewCuller returns a culler using scheme, with plane coherency if
// coherent is set.
func NewCuller(scheme Scheme, coherent bool) *Culler {
	return &Culler{scheme: scheme, full: !coherent}
}

func (c *Culler) SetScheme(scheme Scheme) {
	c.scheme = scheme
}

func (c *Culler) SetCoherency(coherent bool) {
	c.full = !coherent
}

func (c *Culler) Scheme() Scheme {
	return c.scheme
}

func (c *Culler) Coherent() bool {
	return !c.full
}

// Test classifies ctx against f, updates its CullState and counts the work
// done in stats.
func (c *Culler) Test(ctx *RenderContext, f *frustum.Frustum, stats *FrameStats) volume.Classification {
	stats.Requested++

	var result volume.Classification
	if c.full {
		result = c.testFull(ctx, f, stats)
	} else {
		result = c.testCoherent(ctx, f, stats)
	}

	switch result {
	case volume.Inside:
		stats.Rendered++
		stats.Inside++
	case volume.Straddling:
		stats.Rendered++
	}

	ctx.State.Result = result
	ctx.State.Tested = true

	return result
}

// Cull tests ctx and submits it to batcher unless it is outside f.
func (c *Culler) Cull(ctx *RenderContext, f *frustum.Frustum, stats *FrameStats, batcher DrawBatcher) volume.Classification {
	result := c.Test(ctx, f, stats)
	if result != volume.Outside {
		batcher.Submit(ctx.Transform.Matrix(), ctx.Model)
	}
	return result
}

func (c *Culler) classify(ctx *RenderContext, p volume.Plane) volume.Classification {
	switch c.scheme {
	case SchemeAABB:
		return ctx.AABB.Classify(p)
	case SchemeOBB:
		return ctx.OBB.Classify(p)
	}
	return ctx.Sphere.Classify(p)
}

// testFull walks the planes in order and stops at the first one that
// rejects the volume.
func (c *Culler) testFull(ctx *RenderContext, f *frustum.Frustum, stats *FrameStats) volume.Classification {
	inCode := 0
	for i := frustum.PlaneIndex(0); i < frustum.PlaneCount; i++ {
		stats.PlaneTests++
		switch c.classify(ctx, f.Planes[i]) {
		case volume.Outside:
			ctx.State.Plane = i
			return volume.Outside
		case volume.Inside:
			inCode |= 1 << i
		}
	}

	if inCode == allInside {
		return volume.Inside
	}
	return volume.Straddling
}

// testCoherent starts with the plane cached in the object state. The cache
// only changes when another plane rejects the volume.
func (c *Culler) testCoherent(ctx *RenderContext, f *frustum.Frustum, stats *FrameStats) volume.Classification {
	first := ctx.State.Plane
	if first >= frustum.PlaneCount {
		first = frustum.Left
	}

	inCode := 0
	stats.PlaneTests++
	switch c.classify(ctx, f.Planes[first]) {
	case volume.Outside:
		return volume.Outside
	case volume.Inside:
		inCode |= 1 << first
	}

	for i := frustum.PlaneIndex(0); i < frustum.PlaneCount; i++ {
		if i == first {
			continue
		}
		stats.PlaneTests++
		switch c.classify(ctx, f.Planes[i]) {
		case volume.Outside:
			ctx.State.Plane = i
			return volume.Outside
		case volume.Inside:
			inCode |= 1 << i
		}
	}

	if inCode == allInside {
		return volume.Inside
	}
	return volume.Straddling
}

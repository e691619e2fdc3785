// Package asset loads renderable models together with the bounding volumes
// used to cull them.
package asset

import (
	"errors"
	"fmt"

	"github.com/akmonengine/bvcull/bvh"
	"github.com/akmonengine/bvcull/fit"
	"github.com/akmonengine/bvcull/log"
	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
)

var logger = log.New("asset")

// ErrIndexOutOfRange is returned when an index does not address a vertex.
var ErrIndexOutOfRange = errors.New("asset: index out of range")

// MassInfo carries the rigid-body properties stored with a model.
type MassInfo struct {
	Mass          float64
	CenterOfMass  mgl64.Vec3
	InertiaTensor mgl64.Mat3
}

// Model is an indexed triangle mesh with model-space bounding volumes and
// the OBB hierarchy built over its triangles.
type Model struct {
	Name string

	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	TexCoords []mgl64.Vec2
	// Indices select Positions three at a time. A nil slice means the
	// positions are already laid out as triangles.
	Indices []uint32

	Sphere volume.Sphere
	AABB   volume.AABB
	OBB    volume.OBB

	Mass *MassInfo
	Tree *bvh.Tree
}

// NewModel computes the bounds and hierarchy of a mesh.
func NewModel(name string, positions []mgl64.Vec3, indices []uint32, opts ...bvh.Option) (*Model, error) {
	m := &Model{Name: name, Positions: positions, Indices: indices}

	if err := m.ComputeBounds(); err != nil {
		return nil, err
	}
	if err := m.BuildTree(opts...); err != nil {
		return nil, err
	}

	return m, nil
}

// Triangles expands the indexed mesh into consecutive triangle vertices.
func (m *Model) Triangles() ([]mgl64.Vec3, error) {
	if m.Indices == nil {
		return m.Positions, nil
	}

	verts := make([]mgl64.Vec3, len(m.Indices))
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return nil, fmt.Errorf("%w: %d at %d (%d vertices)", ErrIndexOutOfRange, idx, i, len(m.Positions))
		}
		verts[i] = m.Positions[idx]
	}

	return verts, nil
}

// Bounds selects bounding volumes.
type Bounds uint8

const (
	BoundSphere Bounds = 1 << iota
	BoundAABB
	BoundOBB

	AllBounds = BoundSphere | BoundAABB | BoundOBB
)

// fitOBB fits the oriented box of a triangle soup.
var fitOBB = fit.Vertices

// ComputeBounds fits the sphere, axis-aligned box and oriented box of the
// model triangles.
func (m *Model) ComputeBounds() error {
	return m.ComputeBoundsOf(AllBounds)
}

// ComputeBoundsOf fits only the volumes selected by which and leaves the
// others untouched.
func (m *Model) ComputeBoundsOf(which Bounds) error {
	if which&AllBounds == 0 {
		return nil
	}

	verts, err := m.Triangles()
	if err != nil {
		return err
	}

	if which&BoundOBB != 0 {
		obb, err := fitOBB(verts)
		if err != nil {
			if !errors.Is(err, fit.ErrNotConverged) {
				return fmt.Errorf("asset: model %q: %w", m.Name, err)
			}
			logger.Warningf("model %q: %v; using an axis-aligned box", m.Name, err)
		}
		m.OBB = obb
	}
	if which&BoundAABB != 0 {
		m.AABB = volume.AABBFromPoints(verts)
	}
	if which&BoundSphere != 0 {
		m.Sphere = volume.SphereFromPoints(verts)
	}

	return nil
}

// BuildTree (re)builds the OBB hierarchy of the model triangles.
func (m *Model) BuildTree(opts ...bvh.Option) error {
	verts, err := m.Triangles()
	if err != nil {
		return err
	}

	tree, err := bvh.Build(verts, opts...)
	if err != nil {
		return fmt.Errorf("asset: model %q: %w", m.Name, err)
	}
	m.Tree = tree

	return nil
}

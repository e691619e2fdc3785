package bvcull

import (
	"math"

	"github.com/akmonengine/bvcull/bvh"
	"github.com/akmonengine/bvcull/frustum"
	"github.com/akmonengine/bvcull/volume"
)

const DEFAULT_WORKERS = 1

// Scene runs the per-frame visibility pass over a set of objects.
type Scene struct {
	Objects []*RenderContext
	Culler  *Culler
	Batcher DrawBatcher
	Workers int

	Events Events

	// Grid, when set, indexes the world AABBs of the objects for Query.
	Grid *SpatialGrid

	results []volume.Classification
	partial []FrameStats
}

// NewScene returns an empty scene culling with c and submitting to batcher.
func NewScene(c *Culler, batcher DrawBatcher) *Scene {
	return &Scene{
		Culler:  c,
		Batcher: batcher,
		Workers: DEFAULT_WORKERS,
		Events:  NewEvents(),
	}
}

// AddObject adds an object to the scene
func (s *Scene) AddObject(obj *RenderContext) {
	s.Objects = append(s.Objects, obj)
}

// RemoveObject removes an object from the scene
func (s *Scene) RemoveObject(obj *RenderContext) {
	k := -1
	for i, o := range s.Objects {
		if o == obj {
			k = i
			break
		}
	}

	if k != -1 {
		s.Objects = append(s.Objects[:k], s.Objects[k+1:]...)
	}

	s.Events.forget(obj)
}

// Frame refreshes every object's world volumes, culls them against f,
// submits the visible ones in scene order and dispatches visibility
// events. It returns the statistics of the frame.
func (s *Scene) Frame(f *frustum.Frustum) FrameStats {
	s.Workers = max(DEFAULT_WORKERS, s.Workers)
	if s.Culler == nil {
		s.Culler = NewCuller(SchemeOBB, true)
	}

	s.results = resize(s.results, len(s.Objects))
	s.partial = resize(s.partial, s.Workers)
	clear(s.partial)

	// Phase 1: world volumes and plane tests, objects are independent
	task(s.Workers, s.Objects, func(worker, i int, obj *RenderContext) {
		obj.UpdateBounds()
		s.results[i] = s.Culler.Test(obj, f, &s.partial[worker])
	})

	if s.Grid != nil {
		s.Grid.Clear()
		for i, obj := range s.Objects {
			s.Grid.Insert(i, obj.AABB)
		}
	}

	var stats FrameStats
	for _, p := range s.partial {
		stats.Add(p)
	}

	// Phase 2: submission, sequential so batches keep scene order
	if s.Batcher != nil {
		for i, obj := range s.Objects {
			if s.results[i] != volume.Outside {
				s.Batcher.Submit(obj.Transform.Matrix(), obj.Model)
			}
		}
	}

	s.Events.recordVisibility(s.Objects, s.results)
	s.Events.flush()

	return stats
}

// Query returns the objects whose world AABB, as of the last frame,
// overlaps box.
func (s *Scene) Query(box volume.AABB) []*RenderContext {
	var found []*RenderContext
	if s.Grid == nil {
		for _, obj := range s.Objects {
			if obj.AABB.Overlaps(box) {
				found = append(found, obj)
			}
		}
		return found
	}

	for _, i := range s.Grid.Candidates(box) {
		if i < len(s.Objects) && s.Objects[i].AABB.Overlaps(box) {
			found = append(found, s.Objects[i])
		}
	}
	return found
}

// Pick returns the object whose hierarchy ray enters first.
func (s *Scene) Pick(ray volume.Ray) (obj *RenderContext, leaf int, dist float64) {
	leaf = bvh.NoNode
	dist = math.Inf(1)
	for _, o := range s.Objects {
		if _, ok := ray.IntersectAABB(o.AABB); !ok {
			continue
		}
		if l, d, ok := o.Pick(ray); ok && d < dist {
			obj, leaf, dist = o, l, d
		}
	}
	return obj, leaf, dist
}

func resize[T any](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}

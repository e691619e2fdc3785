package bvcull

import (
	"github.com/akmonengine/bvcull/asset"
	"github.com/go-gl/mathgl/mgl64"
)

// DrawBatcher receives the objects that survived culling. Implementations
// belong to the renderer.
type DrawBatcher interface {
	Submit(transform mgl64.Mat4, model *asset.Model)
}

// Batch is a set of models drawn with the same world transform.
type Batch struct {
	Transform mgl64.Mat4
	Models    []*asset.Model
}

// Batcher groups submissions by transform, keeping the order in which each
// transform was first seen. It is not safe for concurrent use.
type Batcher struct {
	batches []Batch
	index   map[mgl64.Mat4]int
	count   int
}

func NewBatcher() *Batcher {
	return &Batcher{index: make(map[mgl64.Mat4]int)}
}

func (b *Batcher) Submit(transform mgl64.Mat4, model *asset.Model) {
	if b.index == nil {
		b.index = make(map[mgl64.Mat4]int)
	}

	i, ok := b.index[transform]
	if !ok {
		i = len(b.batches)
		b.index[transform] = i
		b.batches = append(b.batches, Batch{Transform: transform})
	}
	b.batches[i].Models = append(b.batches[i].Models, model)
	b.count++
}

// Batches returns the batches collected since the last Reset.
func (b *Batcher) Batches() []Batch {
	return b.batches
}

// Len returns the number of submissions since the last Reset.
func (b *Batcher) Len() int {
	return b.count
}

// Reset drops every batch, keeping allocated storage.
func (b *Batcher) Reset() {
	b.batches = b.batches[:0]
	clear(b.index)
	b.count = 0
}

package bvcull

import (
	"math"
	"sort"

	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinate of a grid cell.
type CellKey struct {
	X, Y, Z int
}

type cell struct {
	objects []int
}

// SpatialGrid is a uniform hashed grid over the world AABBs of scene
// objects. Distinct cells may share a bucket; queries filter by overlap.
type SpatialGrid struct {
	cellSize float64
	cells    []cell
	cellMask int
}

// NewSpatialGrid creates a grid of cellSize cells hashed into numCells
// buckets, rounded up to a power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]cell, numCells)
	for i := range cells {
		cells[i].objects = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert records index in every cell box touches.
func (sg *SpatialGrid) Insert(index int, box volume.AABB) {
	sg.visit(box, func(c *cell) {
		c.objects = append(c.objects, index)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].objects = sg.cells[i].objects[:0]
	}
}

// Candidates returns, sorted and without duplicates, the indices stored in
// the cells box touches. The result may hold objects that do not overlap
// box.
func (sg *SpatialGrid) Candidates(box volume.AABB) []int {
	var found []int
	sg.visit(box, func(c *cell) {
		found = append(found, c.objects...)
	})

	if len(found) < 2 {
		return found
	}
	sort.Ints(found)

	k := 1
	for i := 1; i < len(found); i++ {
		if found[i] != found[k-1] {
			found[k] = found[i]
			k++
		}
	}
	return found[:k]
}

func (sg *SpatialGrid) visit(box volume.AABB, fn func(c *cell)) {
	minCell := sg.worldToCell(box.Min())
	maxCell := sg.worldToCell(box.Max())

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(&sg.cells[sg.hashCell(CellKey{x, y, z})])
			}
		}
	}
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}

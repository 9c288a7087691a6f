package world

import (
	"math"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/geom"
)

// cellKey addresses one grid cell of the structure index.
type cellKey struct {
	cx, cy, cz int32
}

// StructureIndex is the census of live structures. Overlap queries use a
// spatial hash keyed on the building grid: each structure is filed under every
// cell its closed bounds touch, so any two intersecting boxes share a cell.
// Accessed only from the game loop goroutine.
type StructureIndex struct {
	store    *ecs.PtrComponentStore[Structure]
	cells    map[cellKey][]ecs.EntityID
	cellSize float64
	linear   bool
	seen     map[ecs.EntityID]struct{} // reusable query buffer
}

// NewStructureIndex creates an index with the given cell size. linear disables
// the buckets and scans every structure instead.
func NewStructureIndex(cellSize float64, linear bool) *StructureIndex {
	if cellSize <= 0 {
		cellSize = 64
	}
	return &StructureIndex{
		store:    ecs.NewPtrComponentStore[Structure](),
		cells:    make(map[cellKey][]ecs.EntityID),
		cellSize: cellSize,
		linear:   linear,
		seen:     make(map[ecs.EntityID]struct{}),
	}
}

func (x *StructureIndex) cellRange(b geom.AABB) (lo, hi cellKey) {
	c := func(v float64) int32 { return int32(math.Floor(v / x.cellSize)) }
	lo = cellKey{c(b.Min.X), c(b.Min.Y), c(b.Min.Z)}
	hi = cellKey{c(b.Max.X), c(b.Max.Y), c(b.Max.Z)}
	return lo, hi
}

func (x *StructureIndex) eachCell(b geom.AABB, fn func(cellKey)) {
	lo, hi := x.cellRange(b)
	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			for cz := lo.cz; cz <= hi.cz; cz++ {
				fn(cellKey{cx, cy, cz})
			}
		}
	}
}

// Add links a structure into the census.
func (x *StructureIndex) Add(s *Structure) {
	x.store.Set(s.ID, s)
	if x.linear {
		return
	}
	x.eachCell(s.Bounds, func(k cellKey) {
		x.cells[k] = append(x.cells[k], s.ID)
	})
}

// Remove unlinks a structure. It satisfies ecs.Removable so the entity
// registry can clear it on slot release.
func (x *StructureIndex) Remove(id ecs.EntityID) {
	s, ok := x.store.Get(id)
	if !ok {
		return
	}
	x.store.Remove(id)
	if x.linear {
		return
	}
	x.eachCell(s.Bounds, func(k cellKey) {
		ids := x.cells[k]
		for i, v := range ids {
			if v == id {
				ids = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(x.cells, k)
		} else {
			x.cells[k] = ids
		}
	})
}

func (x *StructureIndex) Get(id ecs.EntityID) (*Structure, bool) {
	return x.store.Get(id)
}

// Count returns the number of live structures.
func (x *StructureIndex) Count() int {
	return x.store.Len()
}

// Each visits structures in placement order. Returning false stops the walk.
func (x *StructureIndex) Each(fn func(*Structure) bool) {
	x.store.Each(func(_ ecs.EntityID, s *Structure) bool {
		return fn(s)
	})
}

// Query visits every structure whose bounds may intersect b, each at most
// once. Callers still run the exact box test.
func (x *StructureIndex) Query(b geom.AABB, fn func(*Structure) bool) {
	if x.linear {
		x.Each(fn)
		return
	}
	clear(x.seen)
	stop := false
	x.eachCell(b, func(k cellKey) {
		if stop {
			return
		}
		for _, id := range x.cells[k] {
			if _, dup := x.seen[id]; dup {
				continue
			}
			x.seen[id] = struct{}{}
			s, ok := x.store.Get(id)
			if !ok {
				continue
			}
			if !fn(s) {
				stop = true
				return
			}
		}
	})
}

// FirstOverlap returns the first structure whose bounds intersect b
// (inclusive on every axis), or nil.
func (x *StructureIndex) FirstOverlap(b geom.AABB) *Structure {
	var hit *Structure
	x.Query(b, func(s *Structure) bool {
		if b.Overlaps(s.Bounds) {
			hit = s
			return false
		}
		return true
	})
	return hit
}

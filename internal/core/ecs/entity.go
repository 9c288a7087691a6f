package ecs

// EntityID encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// EntityPool manages a fixed number of entity slots with generational indices
// and a free list. Slot 0 is reserved so a zero EntityID never names a live entity.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
	capacity    uint32
	live        int
}

// NewEntityPool creates a pool holding at most capacity live entities.
func NewEntityPool(capacity int) *EntityPool {
	if capacity < 1 {
		capacity = 1
	}
	return &EntityPool{
		generations: make([]uint32, 1, capacity+1),
		freeList:    make([]uint32, 0, 64),
		nextIndex:   1,
		capacity:    uint32(capacity),
	}
}

// Create allocates a slot. ok is false when every slot is in use.
func (p *EntityPool) Create() (id EntityID, ok bool) {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		p.live++
		return NewEntityID(idx, p.generations[idx]), true
	}
	if p.nextIndex > p.capacity {
		return 0, false
	}
	idx := p.nextIndex
	p.nextIndex++
	p.generations = append(p.generations, 0)
	p.live++
	return NewEntityID(idx, p.generations[idx]), true
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

func (p *EntityPool) Destroy(id EntityID) {
	idx := id.Index()
	if idx == 0 || idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // already destroyed (stale reference)
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
	p.live--
}

// Live returns the number of allocated slots.
func (p *EntityPool) Live() int { return p.live }

// Capacity returns the maximum number of live entities.
func (p *EntityPool) Capacity() int { return int(p.capacity) }

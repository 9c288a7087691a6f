package ecs

// World owns the fixed-capacity entity pool, the component stores that must
// forget an entity when it dies, and the deferred destroy queue.
//
// Destruction is deferred so that a referent killed mid-tick (a structure
// destroyed by damage, say) keeps a valid ID until every system has run;
// the slot is released by the cleanup phase.
type World struct {
	pool     *EntityPool
	registry *Registry
	queue    []EntityID
	queued   map[EntityID]struct{}
}

func NewWorld(maxEntities int) *World {
	return &World{
		pool:     NewEntityPool(maxEntities),
		registry: NewRegistry(),
		queue:    make([]EntityID, 0, 64),
		queued:   make(map[EntityID]struct{}, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// CreateEntity allocates a slot; ok is false when the pool is exhausted.
func (w *World) CreateEntity() (EntityID, bool) {
	return w.pool.Create()
}

// Alive reports whether id is live. Queued entities stay alive until flushed.
func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues a live entity for the cleanup phase. Repeated
// and stale marks are ignored.
func (w *World) MarkForDestruction(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	if _, dup := w.queued[id]; dup {
		return
	}
	w.queued[id] = struct{}{}
	w.queue = append(w.queue, id)
}

func (w *World) PendingDestruction() int { return len(w.queue) }

// FlushDestroyQueue clears every queued entity from the registered stores,
// frees its slot in queue order and returns how many were released.
func (w *World) FlushDestroyQueue() int {
	n := len(w.queue)
	for _, id := range w.queue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
	}
	w.queue = w.queue[:0]
	clear(w.queued)
	return n
}

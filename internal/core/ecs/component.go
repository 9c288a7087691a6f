package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Registry tracks all component stores and supports bulk cleanup on entity destroy.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{stores: make([]Removable, 0, 8)}
}

// Register adds a component store to the registry.
func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// PtrComponentStore is a generic typed store for ECS components. Iteration
// follows insertion order so every tick walks entities in the same sequence.
type PtrComponentStore[T any] struct {
	index map[EntityID]int
	ids   []EntityID
	data  []*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		index: make(map[EntityID]int, 256),
		ids:   make([]EntityID, 0, 256),
		data:  make([]*T, 0, 256),
	}
}

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.data[i] = c
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.data = append(s.data, c)
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.data[i], true
}

// Remove deletes the component, preserving the order of the remaining entries.
func (s *PtrComponentStore[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	copy(s.ids[i:], s.ids[i+1:])
	copy(s.data[i:], s.data[i+1:])
	s.ids = s.ids[:len(s.ids)-1]
	s.data[len(s.data)-1] = nil
	s.data = s.data[:len(s.data)-1]
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.ids)
}

// Each visits components in insertion order. Returning false stops the walk.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T) bool) {
	for i, id := range s.ids {
		if !fn(id, s.data[i]) {
			return
		}
	}
}

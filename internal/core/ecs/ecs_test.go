package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityPool_CapacityExhaustion(t *testing.T) {
	p := NewEntityPool(2)

	a, ok := p.Create()
	require.True(t, ok)
	b, ok := p.Create()
	require.True(t, ok)
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())

	_, ok = p.Create()
	assert.False(t, ok, "pool of two must refuse a third entity")
	assert.Equal(t, 2, p.Live())

	p.Destroy(a)
	assert.False(t, p.Alive(a))
	c, ok := p.Create()
	require.True(t, ok)
	assert.Equal(t, a.Index(), c.Index())
	assert.Equal(t, a.Generation()+1, c.Generation())
	assert.True(t, p.Alive(c))
}

func TestEntityPool_DestroyStaleIsNoop(t *testing.T) {
	p := NewEntityPool(4)
	a, _ := p.Create()
	p.Destroy(a)
	p.Destroy(a)
	assert.Equal(t, 0, p.Live())
}

func TestWorld_FlushDestroyQueue(t *testing.T) {
	w := NewWorld(8)
	store := NewPtrComponentStore[int]()
	w.Registry().Register(store)

	id, ok := w.CreateEntity()
	require.True(t, ok)
	v := 7
	store.Set(id, &v)

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	assert.Equal(t, 1, w.PendingDestruction())
	assert.True(t, w.Alive(id), "destruction is deferred until flush")

	assert.Equal(t, 1, w.FlushDestroyQueue())
	assert.False(t, w.Alive(id))
	assert.False(t, store.Has(id))
	assert.Equal(t, 0, w.PendingDestruction())

	// A stale ID never reaches the queue, so its reused slot survives.
	reused, ok := w.CreateEntity()
	require.True(t, ok)
	require.Equal(t, id.Index(), reused.Index())
	w.MarkForDestruction(id)
	assert.Equal(t, 0, w.PendingDestruction())
	assert.True(t, w.Alive(reused))
}

func TestPtrComponentStore_InsertionOrder(t *testing.T) {
	s := NewPtrComponentStore[string]()
	a, b, c := NewEntityID(1, 0), NewEntityID(2, 0), NewEntityID(3, 0)
	va, vb, vc := "a", "b", "c"
	s.Set(c, &vc)
	s.Set(a, &va)
	s.Set(b, &vb)
	s.Remove(a)

	var got []string
	s.Each(func(_ EntityID, v *string) bool {
		got = append(got, *v)
		return true
	})
	assert.Equal(t, []string{"c", "b"}, got)

	v, ok := s.Get(b)
	require.True(t, ok)
	assert.Equal(t, "b", *v)
	assert.Equal(t, 2, s.Len())
}

package world

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/core/event"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
)

func testArena() *data.ArenaMap {
	return &data.ArenaMap{
		Name: "test",
		Brushes: []data.Brush{
			{Name: "ground", Bounds: geom.AABB{Min: geom.V(-1024, -1024, -64), Max: geom.V(1024, 1024, 0)}},
		},
		Spawns: []data.SpawnPoint{{Origin: geom.V(0, 0, 24)}},
	}
}

func newTestState(t *testing.T, maxEntities int) *State {
	t.Helper()
	return NewState(Options{MaxEntities: maxEntities, Arena: testArena()})
}

func placeWall(t *testing.T, s *State, origin geom.Vec3) *Structure {
	t.Helper()
	id, ok := s.ECS().CreateEntity()
	require.True(t, ok)
	def := data.DefinitionFor(data.PieceWall)
	st := &Structure{
		ID:         id,
		PieceType:  data.PieceWall,
		Owner:      NoOwner,
		Origin:     origin,
		Bounds:     def.Bounds(origin),
		Health:     def.Health,
		Solid:      true,
		TakeDamage: true,
	}
	s.LinkStructure(st)
	return st
}

func TestBuildStateToggleSelectRotate(t *testing.T) {
	var b BuildState
	b.Reset()
	assert.Equal(t, data.PieceWall, b.SelectedType)

	assert.False(t, b.Select(data.PieceRamp), "select ignored while inactive")
	assert.False(t, b.Rotate())
	assert.Equal(t, 0, b.Rotation)

	require.True(t, b.Toggle())
	assert.True(t, b.Select(data.PieceRamp))
	assert.False(t, b.Select(data.PieceNone))
	assert.False(t, b.Select(data.NumPieceTypes))
	assert.Equal(t, data.PieceRamp, b.SelectedType)

	for _, want := range []int{90, 180, 270, 0} {
		require.True(t, b.Rotate())
		assert.Equal(t, want, b.Rotation)
	}
	b.Rotate()
	assert.Equal(t, geom.Angles{Yaw: 90}, b.Angles())

	assert.False(t, b.Toggle())
	assert.True(t, b.Toggle(), "re-entering resets the selection")
	assert.Equal(t, data.PieceWall, b.SelectedType)
	assert.Equal(t, 0, b.Rotation)
}

func TestBuildStateCooldown(t *testing.T) {
	var b BuildState
	b.Reset()
	assert.False(t, b.CoolingDown(0), "fresh state has no cooldown")

	b.MarkPlaced(time.Second)
	assert.True(t, b.CoolingDown(time.Second+50*time.Millisecond))
	assert.False(t, b.CoolingDown(time.Second+data.Cooldown))

	b.Reset()
	assert.False(t, b.CoolingDown(time.Second))
}

func TestStructureIndexOverlap(t *testing.T) {
	s := newTestState(t, 16)
	w := placeWall(t, s, geom.V(0, 0, 0))

	idx := s.Structures()
	assert.Equal(t, 1, idx.Count())

	def := data.DefinitionFor(data.PieceWall)
	assert.Same(t, w, idx.FirstOverlap(def.Bounds(geom.V(0, 0, 0))))
	assert.Same(t, w, idx.FirstOverlap(def.Bounds(geom.V(64, 0, 0))), "touching faces overlap")
	assert.Nil(t, idx.FirstOverlap(def.Bounds(geom.V(128, 0, 0))))

	idx.Remove(w.ID)
	assert.Equal(t, 0, idx.Count())
	assert.Nil(t, idx.FirstOverlap(def.Bounds(geom.V(0, 0, 0))))
}

// The bucketed census must answer exactly like a full scan.
func TestStructureIndexMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	hashed := NewStructureIndex(data.GridSize, false)
	linear := NewStructureIndex(data.GridSize, true)
	pool := ecs.NewEntityPool(512)

	randOrigin := func() geom.Vec3 {
		return geom.V(float64(rng.Intn(33)-16)*32, float64(rng.Intn(33)-16)*32, float64(rng.Intn(9))*32)
	}
	for i := 0; i < 200; i++ {
		id, ok := pool.Create()
		require.True(t, ok)
		pt := data.PieceType(1 + rng.Intn(int(data.NumPieceTypes)-1))
		o := randOrigin()
		st := &Structure{ID: id, PieceType: pt, Origin: o, Bounds: data.DefinitionFor(pt).Bounds(o)}
		hashed.Add(st)
		linear.Add(st)
		if i%5 == 0 {
			hashed.Remove(id)
			linear.Remove(id)
		}
	}
	require.Equal(t, linear.Count(), hashed.Count())

	for i := 0; i < 500; i++ {
		pt := data.PieceType(1 + rng.Intn(int(data.NumPieceTypes)-1))
		b := data.DefinitionFor(pt).Bounds(randOrigin())
		assert.Equal(t, linear.FirstOverlap(b) != nil, hashed.FirstOverlap(b) != nil, "query %v", b)
	}
}

func TestStructureIndexEachKeepsPlacementOrder(t *testing.T) {
	s := newTestState(t, 16)
	a := placeWall(t, s, geom.V(0, 0, 0))
	b := placeWall(t, s, geom.V(256, 0, 0))
	c := placeWall(t, s, geom.V(512, 0, 0))
	s.Structures().Remove(b.ID)

	var got []*Structure
	s.Structures().Each(func(st *Structure) bool {
		got = append(got, st)
		return true
	})
	assert.Equal(t, []*Structure{a, c}, got)
}

func TestTraceHitsStructuresAndSkipsPass(t *testing.T) {
	s := newTestState(t, 16)
	w := placeWall(t, s, geom.V(128, 0, 0))

	start, end := geom.V(0, 0, 32), geom.V(256, 0, 32)
	tr := s.Trace(start, geom.Vec3{}, geom.Vec3{}, end, ecs.EntityID(0), MaskSolid)
	require.Less(t, tr.Fraction, 1.0)
	assert.Equal(t, w.ID, tr.Entity)
	assert.InDelta(t, 96-geom.Epsilon, tr.EndPos.X, 1e-9)

	tr = s.Trace(start, geom.Vec3{}, geom.Vec3{}, end, w.ID, MaskSolid)
	assert.Equal(t, 1.0, tr.Fraction)

	tr = s.Trace(start, geom.Vec3{}, geom.Vec3{}, end, ecs.EntityID(0), ContentsSolid)
	assert.Equal(t, 1.0, tr.Fraction, "brush-only mask ignores structures")

	tr = s.Trace(geom.V(0, 0, 32), geom.Vec3{}, geom.Vec3{}, geom.V(0, 0, -100), ecs.EntityID(0), MaskSolid)
	assert.True(t, tr.Entity.IsZero(), "brush hits carry no entity")
	assert.InDelta(t, geom.Epsilon, tr.EndPos.Z, 1e-9)
}

func TestApplyDamageDestroysAndQueuesRelease(t *testing.T) {
	bus := event.NewBus()
	s := NewState(Options{MaxEntities: 4, Events: bus})
	w := placeWall(t, s, geom.V(0, 0, 0))

	var destroyed []event.StructureDestroyed
	event.Subscribe(bus, func(e event.StructureDestroyed) { destroyed = append(destroyed, e) })

	assert.False(t, s.ApplyDamage(w, 3, 100, w.Origin))
	assert.Equal(t, 50, w.Health)
	assert.False(t, s.ApplyDamage(w, 3, 0, w.Origin), "zero damage is ignored")

	assert.True(t, s.ApplyDamage(w, 3, 60, w.Origin))
	assert.True(t, w.Destroyed)
	assert.Equal(t, 0, s.Structures().Count(), "unlinked immediately")
	assert.True(t, s.ECS().Alive(w.ID), "slot lives until end of tick")
	assert.False(t, s.ApplyDamage(w, 3, 10, w.Origin))

	s.ECS().FlushDestroyQueue()
	assert.False(t, s.ECS().Alive(w.ID))

	bus.SwapBuffers()
	bus.DispatchAll()
	require.Len(t, destroyed, 1)
	assert.Equal(t, int32(3), destroyed[0].Attacker)
	assert.Equal(t, w.Origin, destroyed[0].Origin)
}

func TestClearStructures(t *testing.T) {
	s := newTestState(t, 8)
	for i := 0; i < 3; i++ {
		placeWall(t, s, geom.V(float64(i)*256, 0, 0))
	}
	assert.Equal(t, 3, s.ClearStructures())
	assert.Equal(t, 0, s.Structures().Count())
	assert.Equal(t, 3, s.ECS().PendingDestruction())
}

func TestPlayersJoinOrder(t *testing.T) {
	s := newTestState(t, 8)
	a := &PlayerInfo{SessionID: 10, Name: "a"}
	b := &PlayerInfo{SessionID: 11, Name: "b"}
	s.AddPlayer(a)
	s.AddPlayer(b)
	assert.Equal(t, int32(1), a.ActorID)
	assert.Equal(t, int32(2), b.ActorID)
	assert.Equal(t, float64(DefaultViewHeight), a.ViewHeight)
	assert.Same(t, b, s.GetByActor(2))

	assert.Same(t, a, s.RemovePlayer(10))
	assert.Nil(t, s.RemovePlayer(10))
	assert.Equal(t, 1, s.PlayerCount())
	assert.Nil(t, s.GetBySession(10))
}

package client

import (
	"fmt"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/net/packet"
)

// Replica is the observer's copy of one committed structure.
type Replica struct {
	ID         ecs.EntityID
	PieceType  data.PieceType
	Origin     geom.Vec3
	Yaw        int
	ModelIndex int
	Health     int
}

// Bounds is the world box of the replica, rebuilt from the shared catalog.
func (r *Replica) Bounds() geom.AABB {
	def := data.DefinitionFor(r.PieceType)
	return geom.Box(r.Origin, def.Mins, def.Maxs)
}

// PlayerState is the last replicated snapshot of the local actor.
type PlayerState struct {
	Materials    int
	Active       bool
	SelectedType data.PieceType
	Rotation     int
}

// Effect is one S_EVENT as received.
type Effect struct {
	Kind      byte
	Actor     int32
	PieceType data.PieceType
	Origin    geom.Vec3
}

// Mirror is the observer's read-only view of the authoritative world, built
// purely from replication. It is always at least one packet stale.
type Mirror struct {
	actor      int32
	models     map[string]int
	structures map[ecs.EntityID]*Replica
	order      []ecs.EntityID // spawn order
	state      PlayerState

	// Optional hooks, called from Apply.
	OnPrint  func(text string)
	OnState  func(PlayerState)
	OnEffect func(Effect)
	OnDenied func()
}

func NewMirror() *Mirror {
	return &Mirror{
		models:     make(map[string]int),
		structures: make(map[ecs.EntityID]*Replica),
	}
}

func (m *Mirror) ActorID() int32      { return m.actor }
func (m *Mirror) State() PlayerState  { return m.state }
func (m *Mirror) StructureCount() int { return len(m.structures) }

// ModelHandle returns the replicated index for a model path.
func (m *Mirror) ModelHandle(path string) (int, bool) {
	i, ok := m.models[path]
	return i, ok
}

func (m *Mirror) Structure(id ecs.EntityID) (*Replica, bool) {
	r, ok := m.structures[id]
	return r, ok
}

// Each visits replicas in spawn order.
func (m *Mirror) Each(fn func(*Replica)) {
	for _, id := range m.order {
		fn(m.structures[id])
	}
}

// AppendSolids appends the bounds of every mirrored structure to dst.
func (m *Mirror) AppendSolids(dst []geom.AABB) []geom.AABB {
	for _, id := range m.order {
		dst = append(dst, m.structures[id].Bounds())
	}
	return dst
}

// Apply decodes one server packet into the mirror. A packet is decoded in
// full before anything is committed or any hook runs, so a truncated packet
// leaves the mirror untouched.
func (m *Mirror) Apply(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty packet")
	}
	op := payload[0]
	r := packet.NewReader(payload)
	truncated := func() error { return fmt.Errorf("truncated %s", packet.OpcodeName(op)) }

	switch op {
	case packet.S_WELCOME:
		actor := r.ReadD()
		if r.Short() {
			return truncated()
		}
		m.actor = actor

	case packet.S_MODEL_TABLE:
		n := int(r.ReadH())
		paths := make([]string, 0, n)
		indexes := make([]int, 0, n)
		for i := 0; i < n && !r.Short(); i++ {
			indexes = append(indexes, int(r.ReadH()))
			paths = append(paths, r.ReadS())
		}
		if r.Short() {
			return truncated()
		}
		for i, p := range paths {
			m.models[p] = indexes[i]
		}

	case packet.S_PLAYER_STATE:
		st := PlayerState{
			Materials:    int(r.ReadD()),
			Active:       r.ReadC() != 0,
			SelectedType: data.PieceType(r.ReadC()),
			Rotation:     int(r.ReadH()),
		}
		if r.Short() {
			return truncated()
		}
		m.state = st
		if m.OnState != nil {
			m.OnState(st)
		}

	case packet.S_PRINT:
		text := r.ReadS()
		if r.Short() {
			return truncated()
		}
		if m.OnPrint != nil {
			m.OnPrint(text)
		}

	case packet.S_STRUCTURE_SPAWN:
		rep := &Replica{ID: r.ReadEntity()}
		rep.PieceType = data.PieceType(r.ReadC())
		rep.Origin = r.ReadVec()
		rep.Yaw = int(r.ReadH())
		rep.ModelIndex = int(r.ReadH())
		rep.Health = int(r.ReadD())
		if r.Short() {
			return truncated()
		}
		if _, ok := m.structures[rep.ID]; !ok {
			m.order = append(m.order, rep.ID)
		}
		m.structures[rep.ID] = rep

	case packet.S_STRUCTURE_HEALTH:
		id := r.ReadEntity()
		health := int(r.ReadD())
		if r.Short() {
			return truncated()
		}
		if rep, ok := m.structures[id]; ok {
			rep.Health = health
		}

	case packet.S_STRUCTURE_REMOVE:
		id := r.ReadEntity()
		if r.Short() {
			return truncated()
		}
		m.remove(id)

	case packet.S_EVENT:
		e := Effect{
			Kind:      r.ReadC(),
			Actor:     r.ReadD(),
			PieceType: data.PieceType(r.ReadC()),
			Origin:    r.ReadVec(),
		}
		if r.Short() {
			return truncated()
		}
		if e.Kind == packet.EventFail && e.Actor == m.actor && m.OnDenied != nil {
			m.OnDenied()
		}
		if m.OnEffect != nil {
			m.OnEffect(e)
		}

	default:
		return fmt.Errorf("unknown opcode %d", op)
	}
	return nil
}

func (m *Mirror) remove(id ecs.EntityID) {
	if _, ok := m.structures[id]; !ok {
		return
	}
	delete(m.structures, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

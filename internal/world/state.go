package world

import (
	"time"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/core/event"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/net"
)

// DefaultViewHeight is the eye offset above the player origin.
const DefaultViewHeight = 26

// PlayerInfo holds in-memory data for an actor currently in-world.
// Accessed only from the game loop goroutine, no locks needed.
type PlayerInfo struct {
	ActorID   int32
	SessionID uint64
	Session   *net.Session // nil for bots and tests
	Name      string

	Origin     geom.Vec3
	ViewAngles geom.Angles
	ViewHeight float64

	Materials int
	Build     BuildState
	Dead      bool

	Known *KnownStructures // replication bookkeeping
	Dirty bool             // player state must be resent
}

// Eye returns the trace origin of the actor's view.
func (p *PlayerInfo) Eye() geom.Vec3 {
	return p.Origin.Add(geom.V(0, 0, p.ViewHeight))
}

// KnownStructures tracks what a session has been told about. The replication
// system diffs it against the live census each tick.
type KnownStructures struct {
	Health map[ecs.EntityID]int
}

func NewKnownStructures() *KnownStructures {
	return &KnownStructures{Health: make(map[ecs.EntityID]int)}
}

// Reset forgets everything, forcing a full resend.
func (k *KnownStructures) Reset() {
	clear(k.Health)
}

// State tracks every actor and structure currently in-world.
// Single-goroutine access only (game loop).
type State struct {
	ecs        *ecs.World
	bySession  map[uint64]*PlayerInfo
	byActor    map[int32]*PlayerInfo
	players    []*PlayerInfo // join order
	nextActor  int32
	structures *StructureIndex
	arena      *data.ArenaMap
	solids     []geom.AABB

	Models *data.ModelTable
	Events *event.Bus

	now time.Duration // game clock, advanced once per tick
	buf []*Structure  // reusable trace candidate buffer
}

// Options configures a new State.
type Options struct {
	MaxEntities  int
	LinearCensus bool
	Arena        *data.ArenaMap
	Models       *data.ModelTable
	Events       *event.Bus
}

func NewState(o Options) *State {
	if o.Models == nil {
		o.Models = data.NewModelTable()
	}
	if o.Events == nil {
		o.Events = event.NewBus()
	}
	s := &State{
		ecs:        ecs.NewWorld(o.MaxEntities),
		bySession:  make(map[uint64]*PlayerInfo),
		byActor:    make(map[int32]*PlayerInfo),
		nextActor:  1,
		structures: NewStructureIndex(data.GridSize, o.LinearCensus),
		arena:      o.Arena,
		Models:     o.Models,
		Events:     o.Events,
	}
	if o.Arena != nil {
		s.solids = o.Arena.Solids()
	}
	s.ecs.Registry().Register(s.structures)
	return s
}

func (s *State) ECS() *ecs.World              { return s.ecs }
func (s *State) Structures() *StructureIndex { return s.structures }
func (s *State) Arena() *data.ArenaMap       { return s.arena }
func (s *State) Now() time.Duration          { return s.now }

// Advance moves the game clock forward by one tick.
func (s *State) Advance(dt time.Duration) {
	s.now += dt
}

// AddPlayer registers an actor and assigns its actor ID.
func (s *State) AddPlayer(p *PlayerInfo) {
	p.ActorID = s.nextActor
	s.nextActor++
	if p.ViewHeight == 0 {
		p.ViewHeight = DefaultViewHeight
	}
	if p.Known == nil {
		p.Known = NewKnownStructures()
	}
	s.bySession[p.SessionID] = p
	s.byActor[p.ActorID] = p
	s.players = append(s.players, p)
}

// RemovePlayer removes an actor from the world. Structures it placed stay.
func (s *State) RemovePlayer(sessionID uint64) *PlayerInfo {
	p, ok := s.bySession[sessionID]
	if !ok {
		return nil
	}
	delete(s.bySession, sessionID)
	delete(s.byActor, p.ActorID)
	for i, q := range s.players {
		if q == p {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}
	return p
}

func (s *State) GetBySession(sessionID uint64) *PlayerInfo { return s.bySession[sessionID] }
func (s *State) GetByActor(actorID int32) *PlayerInfo      { return s.byActor[actorID] }
func (s *State) PlayerCount() int                          { return len(s.players) }

// AllPlayers visits actors in join order.
func (s *State) AllPlayers(fn func(*PlayerInfo)) {
	for _, p := range s.players {
		fn(p)
	}
}

// SpawnPoint returns the n-th arena spawn, or the map origin without an arena.
func (s *State) SpawnPoint(n int) data.SpawnPoint {
	if s.arena == nil || len(s.arena.Spawns) == 0 {
		return data.SpawnPoint{}
	}
	return s.arena.Spawn(n)
}

// LinkStructure adds a freshly allocated structure to the census.
func (s *State) LinkStructure(st *Structure) {
	s.structures.Add(st)
}

// RemoveStructure unlinks a structure immediately, emits the destroy effect and
// queues its entity slot for release at end of tick.
func (s *State) RemoveStructure(st *Structure, attacker int32) {
	if _, ok := s.structures.Get(st.ID); !ok {
		return
	}
	st.Destroyed = true
	st.Solid = false
	st.TakeDamage = false
	s.structures.Remove(st.ID)
	s.ecs.MarkForDestruction(st.ID)
	event.Emit(s.Events, event.StructureDestroyed{
		Entity:    st.ID,
		PieceType: uint8(st.PieceType),
		Origin:    st.Origin,
		Owner:     st.Owner,
		Attacker:  attacker,
	})
}

// ClearStructures removes every live structure and returns how many went.
func (s *State) ClearStructures() int {
	var all []*Structure
	s.structures.Each(func(st *Structure) bool {
		all = append(all, st)
		return true
	})
	for _, st := range all {
		s.RemoveStructure(st, NoOwner)
	}
	return len(all)
}

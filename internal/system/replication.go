package system

import (
	"time"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/core/event"
	coresys "github.com/quakenite/server/internal/core/system"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/handler"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/world"
)

// ReplicationSystem keeps every client's mirror of the structure census in
// sync by diffing it against the set the client already knows, and pushes the
// owner's materials and build state when they change. Effect events are
// broadcast as they are dispatched. Phase 4 (Output).
type ReplicationSystem struct {
	world *world.State
	live  map[ecs.EntityID]struct{}
}

func NewReplicationSystem(ws *world.State, bus *event.Bus) *ReplicationSystem {
	s := &ReplicationSystem{world: ws, live: make(map[ecs.EntityID]struct{})}
	event.Subscribe(bus, func(e event.StructurePlaced) {
		s.broadcastEvent(packet.EventPlace, e.Owner, e.PieceType, e.Origin)
	})
	event.Subscribe(bus, func(e event.StructureDestroyed) {
		s.broadcastEvent(packet.EventDestroy, e.Attacker, e.PieceType, e.Origin)
	})
	event.Subscribe(bus, func(e event.PlacementFailed) {
		p := ws.GetByActor(e.Actor)
		if p == nil {
			return
		}
		handler.SendEvent(p.Session, packet.EventFail, e.Actor, uint8(data.PieceNone), p.Origin)
	})
	return s
}

func (s *ReplicationSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *ReplicationSystem) Update(_ time.Duration) {
	clear(s.live)
	s.world.Structures().Each(func(st *world.Structure) bool {
		s.live[st.ID] = struct{}{}
		return true
	})

	s.world.AllPlayers(func(p *world.PlayerInfo) {
		s.syncStructures(p)
		if p.Dirty {
			handler.SendPlayerState(p.Session, p)
			p.Dirty = false
		}
	})
}

func (s *ReplicationSystem) syncStructures(p *world.PlayerInfo) {
	known := p.Known.Health
	for id := range known {
		if _, ok := s.live[id]; !ok {
			handler.SendStructureRemove(p.Session, id)
			delete(known, id)
		}
	}
	s.world.Structures().Each(func(st *world.Structure) bool {
		hp, ok := known[st.ID]
		switch {
		case !ok:
			handler.SendStructureSpawn(p.Session, st)
		case hp != st.Health:
			handler.SendStructureHealth(p.Session, st.ID, st.Health)
		default:
			return true
		}
		known[st.ID] = st.Health
		return true
	})
}

func (s *ReplicationSystem) broadcastEvent(kind byte, actor int32, pieceType uint8, origin geom.Vec3) {
	s.world.AllPlayers(func(p *world.PlayerInfo) {
		handler.SendEvent(p.Session, kind, actor, pieceType, origin)
	})
}

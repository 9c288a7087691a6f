package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/quakenite/server/internal/core/system"
	"github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/world"
)

// SessionSource is the accept side of the network server.
type SessionSource interface {
	NewSessions() <-chan *net.Session
	NotifyDead(sessionID uint64)
}

// InputSystem advances the game clock, drains packet queues from all sessions
// and dispatches them through the packet registry. Commands run in session
// order, so a later placement in the same tick sees earlier spawns.
// Phase 0 (Input).
type InputSystem struct {
	source     SessionSource
	registry   *packet.Registry
	store      *net.SessionStore
	maxPerTick int
	world      *world.State
	log        *zap.Logger
}

func NewInputSystem(
	source SessionSource,
	registry *packet.Registry,
	store *net.SessionStore,
	maxPerTick int,
	ws *world.State,
	log *zap.Logger,
) *InputSystem {
	return &InputSystem{
		source:     source,
		registry:   registry,
		store:      store,
		maxPerTick: maxPerTick,
		world:      ws,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(dt time.Duration) {
	s.world.Advance(dt)

	if s.source != nil {
		s.accept()
	}

	for _, sess := range s.store.Snapshot() {
		s.drain(sess)
		if sess.IsClosed() {
			sess.FlushOutput()
			s.handleDisconnect(sess)
			if s.source != nil {
				s.source.NotifyDead(sess.ID)
			}
			s.store.Remove(sess.ID)
		}
	}
}

func (s *InputSystem) accept() {
	for {
		select {
		case sess := <-s.source.NewSessions():
			s.store.Add(sess)
		default:
			return
		}
	}
}

// drain dispatches up to maxPerTick queued packets. Packets queued just
// before a disconnect are still processed.
func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
				s.log.Debug("packet dispatch error",
					zap.Uint64("session", sess.ID),
					zap.Error(err),
				)
			}
		default:
			return
		}
	}
}

// handleDisconnect removes the actor. Its structures stay in the world.
func (s *InputSystem) handleDisconnect(sess *net.Session) {
	p := s.world.RemovePlayer(sess.ID)
	if p == nil {
		return
	}
	s.log.Info("player left",
		zap.Uint64("session", sess.ID),
		zap.Int32("actor", p.ActorID),
		zap.String("name", p.Name))
}

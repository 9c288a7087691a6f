package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quakenite/server/internal/core/event"
	coresys "github.com/quakenite/server/internal/core/system"
	"github.com/quakenite/server/internal/persist"
	"github.com/quakenite/server/internal/world"
)

// maxLedgerBacklog caps buffered entries while the database is unreachable;
// the oldest entries are dropped beyond it.
const maxLedgerBacklog = 10000

// LedgerSystem buffers placement and destruction events and writes them to
// the build ledger every interval ticks. Phase 5 (Persist).
type LedgerSystem struct {
	world     *world.State
	writer    persist.LedgerWriter
	log       *zap.Logger
	pending   []persist.LedgerEntry
	tickCount int
	interval  int
}

func NewLedgerSystem(ws *world.State, bus *event.Bus, writer persist.LedgerWriter, log *zap.Logger, intervalTicks int) *LedgerSystem {
	if intervalTicks <= 0 {
		intervalTicks = 1
	}
	s := &LedgerSystem{world: ws, writer: writer, log: log, interval: intervalTicks}
	event.Subscribe(bus, func(e event.StructurePlaced) {
		s.add(persist.LedgerEntry{
			Kind:      persist.LedgerPlace,
			PieceType: e.PieceType,
			SlotIndex: e.Entity.Index(),
			SlotGen:   e.Entity.Generation(),
			Owner:     e.Owner,
			Attacker:  world.NoOwner,
			X:         e.Origin.X,
			Y:         e.Origin.Y,
			Z:         e.Origin.Z,
			Cost:      e.Cost,
			GameTime:  ws.Now(),
		})
	})
	event.Subscribe(bus, func(e event.StructureDestroyed) {
		s.add(persist.LedgerEntry{
			Kind:      persist.LedgerDestroy,
			PieceType: e.PieceType,
			SlotIndex: e.Entity.Index(),
			SlotGen:   e.Entity.Generation(),
			Owner:     e.Owner,
			Attacker:  e.Attacker,
			X:         e.Origin.X,
			Y:         e.Origin.Y,
			Z:         e.Origin.Z,
			GameTime:  ws.Now(),
		})
	})
	return s
}

func (s *LedgerSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *LedgerSystem) add(e persist.LedgerEntry) {
	if len(s.pending) >= maxLedgerBacklog {
		copy(s.pending, s.pending[1:])
		s.pending = s.pending[:len(s.pending)-1]
	}
	s.pending = append(s.pending, e)
}

// Pending returns the number of unwritten entries.
func (s *LedgerSystem) Pending() int { return len(s.pending) }

func (s *LedgerSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Flush writes everything buffered immediately. Called on shutdown too.
// Failed batches stay buffered for the next attempt.
func (s *LedgerSystem) Flush() {
	if len(s.pending) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writer.WriteLedger(ctx, s.pending); err != nil {
		s.log.Error("build ledger write failed", zap.Int("entries", len(s.pending)), zap.Error(err))
		return
	}
	s.log.Debug("build ledger written", zap.Int("entries", len(s.pending)))
	s.pending = s.pending[:0]
}

package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/quakenite/server/internal/core/ecs"
	coresys "github.com/quakenite/server/internal/core/system"
)

// CleanupSystem releases the entity slots of structures destroyed during the
// tick. Until it runs, a destroyed structure's ID still resolves, so effects
// and replication emitted this tick can name it. Phase 6 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if s.world.PendingDestruction() == 0 {
		return
	}
	n := s.world.FlushDestroyQueue()
	s.log.Debug("entity slots released",
		zap.Int("released", n),
		zap.Int("live", s.world.Pool().Live()),
		zap.Int("capacity", s.world.Pool().Capacity()))
}

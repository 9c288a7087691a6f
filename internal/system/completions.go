package system

import (
	"time"

	coresys "github.com/quakenite/server/internal/core/system"
)

// Completions is the game-loop side of off-loop work (handler.Async).
type Completions interface {
	Drain() int
}

// CompletionSystem runs the results of off-loop jobs, such as rcon replies,
// on the game loop. Registered after InputSystem. Phase 0 (Input).
type CompletionSystem struct {
	jobs Completions
}

func NewCompletionSystem(jobs Completions) *CompletionSystem {
	return &CompletionSystem{jobs: jobs}
}

func (s *CompletionSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *CompletionSystem) Update(_ time.Duration) {
	s.jobs.Drain()
}

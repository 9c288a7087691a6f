package system

import (
	"time"

	coresys "github.com/quakenite/server/internal/core/system"
	"github.com/quakenite/server/internal/world"
)

// ThinkSystem runs the think hook of every structure whose next think time
// has come. Phase 2 (Update).
type ThinkSystem struct {
	world *world.State
	due   []*world.Structure
}

func NewThinkSystem(ws *world.State) *ThinkSystem {
	return &ThinkSystem{world: ws}
}

func (s *ThinkSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ThinkSystem) Update(_ time.Duration) {
	now := s.world.Now()
	s.due = s.due[:0]
	s.world.Structures().Each(func(st *world.Structure) bool {
		if st.NextThink > 0 && st.NextThink <= now {
			s.due = append(s.due, st)
		}
		return true
	})
	// Collected first: a think may destroy its structure.
	for _, st := range s.due {
		if st.Destroyed || st.Behavior == nil {
			continue
		}
		st.Behavior.OnTick(st, now)
	}
}

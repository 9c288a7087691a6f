package system

import (
	"time"

	"github.com/quakenite/server/internal/core/event"
	coresys "github.com/quakenite/server/internal/core/system"
)

// EventDispatchSystem swaps the event buffers and delivers every queued
// event to its subscribers. Phase 1 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

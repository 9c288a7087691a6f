package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain session queues, run player commands
	PhasePreUpdate               // 1: dispatch last tick's events
	PhaseUpdate                  // 2: structure think
	PhasePostUpdate              // 3: derived state
	PhaseOutput                  // 4: replicate + flush packets
	PhasePersist                 // 5: ledger batch write
	PhaseCleanup                 // 6: release queued entity slots
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

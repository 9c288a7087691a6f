package system

import (
	"sort"
	"time"
)

// TickStats is the timing of the last full tick, per phase.
type TickStats struct {
	Total time.Duration
	Phase [PhaseCleanup + 1]time.Duration
}

// Slowest returns the phase that took longest.
func (s TickStats) Slowest() Phase {
	best := PhaseInput
	for p := PhaseInput; p <= PhaseCleanup; p++ {
		if s.Phase[p] > s.Phase[best] {
			best = p
		}
	}
	return best
}

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
	ticks   uint64
	last    TickStats
	now     func() time.Time
}

func NewRunner() *Runner {
	return &Runner{systems: make([]System, 0, 16), now: time.Now}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every system once and returns the wall time the tick took.
func (r *Runner) Tick(dt time.Duration) time.Duration {
	r.order()
	var stats TickStats
	start := r.now()
	mark := start
	for _, s := range r.systems {
		s.Update(dt)
		t := r.now()
		if p := s.Phase(); p >= PhaseInput && p <= PhaseCleanup {
			stats.Phase[p] += t.Sub(mark)
		}
		mark = t
	}
	stats.Total = mark.Sub(start)
	r.last = stats
	r.ticks++
	return stats.Total
}

// TickPhase runs only the systems registered for one phase. It does not count
// as a tick.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.order()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

// Ticks returns the number of completed full ticks.
func (r *Runner) Ticks() uint64 { return r.ticks }

// LastTick returns the timing of the most recent full tick.
func (r *Runner) LastTick() TickStats { return r.last }

func (r *Runner) order() {
	if r.sorted {
		return
	}
	sort.SliceStable(r.systems, func(i, j int) bool {
		return r.systems[i].Phase() < r.systems[j].Phase()
	})
	r.sorted = true
}

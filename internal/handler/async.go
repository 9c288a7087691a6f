package handler

// Async runs blocking work (password hashing, ledger queries) off the game
// loop. Each job returns a completion that Drain runs back on the loop, so
// handlers never wait and game state is only touched from the tick.
//
// At most one job per key is in flight; Go refuses the rest.
type Async struct {
	done    chan func()
	pending map[string]struct{} // game loop only
}

func NewAsync(capacity int) *Async {
	if capacity <= 0 {
		capacity = 64
	}
	return &Async{
		done:    make(chan func(), capacity),
		pending: make(map[string]struct{}),
	}
}

// Go starts work in its own goroutine unless key is already in flight.
// The func returned by work runs during a later Drain; it may be nil.
func (a *Async) Go(key string, work func() func()) bool {
	if _, busy := a.pending[key]; busy {
		return false
	}
	a.pending[key] = struct{}{}
	go func() {
		complete := work()
		a.done <- func() {
			delete(a.pending, key)
			if complete != nil {
				complete()
			}
		}
	}()
	return true
}

// Pending is the number of jobs not yet drained.
func (a *Async) Pending() int { return len(a.pending) }

// Drain runs every completion that has arrived and returns how many ran.
func (a *Async) Drain() int {
	n := 0
	for {
		select {
		case fn := <-a.done:
			fn()
			n++
		default:
			return n
		}
	}
}

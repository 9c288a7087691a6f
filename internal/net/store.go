package net

// SessionStore holds every connected session in connection order.
// Game loop only.
type SessionStore struct {
	byID  map[uint64]*Session
	order []*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{byID: make(map[uint64]*Session)}
}

func (st *SessionStore) Add(s *Session) {
	if _, ok := st.byID[s.ID]; ok {
		return
	}
	st.byID[s.ID] = s
	st.order = append(st.order, s)
}

func (st *SessionStore) Remove(id uint64) {
	if _, ok := st.byID[id]; !ok {
		return
	}
	delete(st.byID, id)
	for i, s := range st.order {
		if s.ID == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
}

func (st *SessionStore) Get(id uint64) *Session { return st.byID[id] }
func (st *SessionStore) Count() int             { return len(st.order) }

// Snapshot returns the sessions in connection order. The slice is a copy, so
// callers may remove sessions while walking it.
func (st *SessionStore) Snapshot() []*Session {
	out := make([]*Session, len(st.order))
	copy(out, st.order)
	return out
}

// ForEach visits sessions in connection order.
func (st *SessionStore) ForEach(fn func(*Session)) {
	for _, s := range st.order {
		fn(s)
	}
}

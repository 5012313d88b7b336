package blackjack

import (
	"sync"
	"sync/atomic"
	"time"
)

type entry struct {
	mu sync.Mutex
	id string
	s  Session

	// unix nanos, readable without mu so eviction never waits on a game action
	lastActivity atomic.Int64

	// set under mu when the entry leaves the map
	evicted bool
}

func (e *entry) touch(now time.Time) {
	e.lastActivity.Store(now.UnixNano())
}

// Store maps session ids to records. Callers never block on the map lock
// while holding an entry lock; lookups release it before the entry is locked
// and eviction only try-locks entries.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry

	startingBalance int64
	now             func() time.Time
}

func NewStore(startingBalance int64) *Store {
	if startingBalance <= 0 {
		startingBalance = DefaultStartingBalance
	}
	return &Store{
		sessions:        make(map[string]*entry),
		startingBalance: startingBalance,
		now:             time.Now,
	}
}

func (st *Store) lookup(id string, create bool) (*entry, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if e, ok := st.sessions[id]; ok {
		e.touch(st.now())
		return e, true
	}
	if !create {
		return nil, false
	}
	e := &entry{id: id, s: newSession(st.startingBalance)}
	e.touch(st.now())
	st.sessions[id] = e
	return e, true
}

// with runs fn under the entry lock and returns the post-call snapshot.
// fn must leave the session untouched when it returns an error.
func (st *Store) with(id string, create bool, fn func(s *Session) error) (Snapshot, error) {
	e, ok := st.acquire(id, create)
	if !ok {
		return Snapshot{}, ErrNotInitialized
	}
	defer e.mu.Unlock()

	err := fn(&e.s)
	e.touch(st.now())
	return e.snapshotLocked(), err
}

// acquire returns the live entry for id with its lock held. An entry evicted
// between the lookup and the lock is dropped and the lookup retried.
func (st *Store) acquire(id string, create bool) (*entry, bool) {
	for {
		e, ok := st.lookup(id, create)
		if !ok {
			return nil, false
		}
		e.mu.Lock()
		if !e.evicted {
			return e, true
		}
		e.mu.Unlock()
	}
}

// GetOrInit returns the session, creating a fresh idle one if absent.
func (st *Store) GetOrInit(id string) Snapshot {
	snap, _ := st.with(id, true, func(*Session) error { return nil })
	return snap
}

// Get returns the session without creating it.
func (st *Store) Get(id string) (Snapshot, error) {
	e, ok := st.acquire(id, false)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	defer e.mu.Unlock()
	e.touch(st.now())
	return e.snapshotLocked(), nil
}

// Replace overwrites the record for id, creating the entry if needed.
func (st *Store) Replace(id string, rec Session) Snapshot {
	snap, _ := st.with(id, true, func(s *Session) error {
		*s = rec.clone()
		return nil
	})
	return snap
}

// EvictOlderThan drops every session idle for longer than maxAge and returns
// how many were removed. maxAge <= 0 drops everything. A session locked by an
// in-flight call is in use and stays.
func (st *Store) EvictOlderThan(maxAge time.Duration) int {
	cutoff := st.now().Add(-maxAge).UnixNano()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, e := range st.sessions {
		if maxAge > 0 && e.lastActivity.Load() >= cutoff {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		e.evicted = true
		delete(st.sessions, id)
		e.mu.Unlock()
		removed++
	}
	return removed
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

package blackjack

import (
	"context"
	"testing"
	"time"
)

func newClockedStore() (*Store, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(1000)
	st.now = func() time.Time { return now }
	return st, &now
}

func TestStore_GetOrInitCreatesOnce(t *testing.T) {
	st, _ := newClockedStore()
	first := st.GetOrInit("s1")
	st.Replace("s1", Session{PlayerMoney: 42, Phase: PhaseIdle})
	second := st.GetOrInit("s1")

	if first.PlayerMoney != 1000 || second.PlayerMoney != 42 {
		t.Fatalf("GetOrInit must not recreate: first=%d second=%d", first.PlayerMoney, second.PlayerMoney)
	}
	if st.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", st.Len())
	}
}

func TestStore_EvictOlderThan(t *testing.T) {
	st, now := newClockedStore()
	st.GetOrInit("old")
	*now = now.Add(2 * time.Hour)
	st.GetOrInit("fresh")

	if removed := st.EvictOlderThan(time.Hour); removed != 1 {
		t.Fatalf("expected 1 eviction, got %d", removed)
	}
	if _, err := st.Get("old"); err == nil {
		t.Fatal("old session should be gone")
	}
	if _, err := st.Get("fresh"); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}

	if removed := st.EvictOlderThan(0); removed != 1 || st.Len() != 0 {
		t.Fatalf("zero max age should clear all, removed=%d len=%d", removed, st.Len())
	}
}

func TestStore_ActivityRefreshesOnAccess(t *testing.T) {
	st, now := newClockedStore()
	st.GetOrInit("s1")
	*now = now.Add(50 * time.Minute)
	st.GetOrInit("s1")
	*now = now.Add(50 * time.Minute)

	if removed := st.EvictOlderThan(time.Hour); removed != 0 {
		t.Fatalf("recently touched session evicted")
	}
}

func TestJanitor_SweepAndShutdown(t *testing.T) {
	st, now := newClockedStore()
	st.GetOrInit("a")
	st.GetOrInit("b")

	j := NewJanitor(st, time.Hour, 24*time.Hour)
	if removed := j.Sweep(); removed != 0 {
		t.Fatalf("nothing should be stale yet, removed %d", removed)
	}
	*now = now.Add(25 * time.Hour)
	st.GetOrInit("c")
	if removed := j.Sweep(); removed != 2 {
		t.Fatalf("expected 2 stale sessions, removed %d", removed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
	if st.Len() != 0 {
		t.Fatalf("shutdown sweep should drop everything, %d left", st.Len())
	}
}

func TestStore_EvictSkipsSessionInUse(t *testing.T) {
	st, now := newClockedStore()
	st.GetOrInit("busy")
	st.GetOrInit("idle")
	*now = now.Add(2 * time.Hour)

	e, _ := st.lookup("busy", false)
	*now = now.Add(2 * time.Hour)
	e.mu.Lock()
	removed := st.EvictOlderThan(time.Hour)
	e.mu.Unlock()

	if removed != 1 {
		t.Fatalf("expected only the idle session evicted, got %d", removed)
	}
	if _, err := st.Get("busy"); err != nil {
		t.Fatalf("locked session must survive the sweep: %v", err)
	}
}

func TestStore_WriteAfterEvictionLandsOnLiveRecord(t *testing.T) {
	st, _ := newClockedStore()
	stale, _ := st.lookup("s1", true)
	if removed := st.EvictOlderThan(0); removed != 1 {
		t.Fatalf("expected eviction, got %d", removed)
	}
	if !stale.evicted {
		t.Fatal("evicted entry must be marked")
	}

	st.Replace("s1", Session{PlayerMoney: 7, Phase: PhaseIdle})

	live, ok := st.acquire("s1", false)
	if !ok {
		t.Fatal("expected a live entry")
	}
	defer live.mu.Unlock()
	if live == stale || live.s.PlayerMoney != 7 {
		t.Fatalf("write went to a detached record: money=%d", live.s.PlayerMoney)
	}
}

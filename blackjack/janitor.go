package blackjack

import (
	"context"
	"log"
	"time"
)

const (
	DefaultJanitorInterval = time.Hour
	DefaultSessionMaxAge   = 24 * time.Hour
)

// Janitor periodically evicts idle sessions from a Store.
type Janitor struct {
	store    *Store
	interval time.Duration
	maxAge   time.Duration
}

func NewJanitor(store *Store, interval, maxAge time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}
	return &Janitor{store: store, interval: interval, maxAge: maxAge}
}

// Sweep runs one eviction pass.
func (j *Janitor) Sweep() int {
	removed := j.store.EvictOlderThan(j.maxAge)
	if removed > 0 {
		log.Printf("[Janitor] evicted %d idle sessions, %d remain", removed, j.store.Len())
	}
	return removed
}

// Run sweeps every interval until ctx is done, then drops all remaining
// sessions before returning.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			removed := j.store.EvictOlderThan(0)
			log.Printf("[Janitor] shutdown: dropped %d sessions", removed)
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}

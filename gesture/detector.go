package gesture

import (
	"log"
	"math"
	"math/rand"
	"sync/atomic"
	"time"
)

// Detector produces action signals. The simulator is the only implementation
// today; a camera-backed one would satisfy the same contract.
type Detector interface {
	Detect() Reading
	Reset()
	Statistics() Statistics
}

// state is published whole and never mutated after Store.
type state struct {
	label         Label
	confidence    float64
	lastDetection time.Time
	history       []Reading
}

// Simulator draws weighted random labels, smoothed so that a label does not
// flip more than once per persistence window.
type Simulator struct {
	cfg Config

	// one-slot semaphore, acquired with a deadline
	lock      chan struct{}
	resetting atomic.Bool
	state     atomic.Pointer[state]

	rng *rand.Rand // guarded by lock
	now func() time.Time
}

type Option func(*Simulator)

func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.rng = rng }
}

func NewSimulator(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Simulator{
		cfg:  cfg,
		lock: make(chan struct{}, 1),
		rng:  rand.New(rand.NewSource(seed)),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(&state{label: LabelIdle, lastDetection: s.now()})
	return s, nil
}

func (s *Simulator) acquire(timeout time.Duration) bool {
	select {
	case s.lock <- struct{}{}:
		return true
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case s.lock <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

func (s *Simulator) release() { <-s.lock }

// Detect returns the current signal. It never blocks longer than
// DetectLockTimeout and yields a zero-confidence idle reading when a reset is
// draining or the lock cannot be taken.
func (s *Simulator) Detect() Reading {
	r, _ := s.detect()
	return r
}

// detect also reports how long ago the returned label was drawn, measured
// against the state it read.
func (s *Simulator) detect() (Reading, time.Duration) {
	if s.resetting.Load() {
		return s.neutral()
	}
	if !s.acquire(s.cfg.DetectLockTimeout) {
		log.Printf("[Gesture] detect lock timeout after %s", s.cfg.DetectLockTimeout)
		return s.neutral()
	}
	defer s.release()

	now := s.now()
	cur := s.state.Load()
	elapsed := now.Sub(cur.lastDetection)
	if elapsed < s.cfg.Persistence {
		conf := math.Max(s.cfg.DecayFloor, cur.confidence-elapsed.Seconds()*s.cfg.DecayPerSecond)
		return Reading{Label: cur.label, Confidence: conf, At: now}, max(elapsed, 0)
	}

	label := s.drawLabel()
	base := s.cfg.IdleConfidence
	if label != LabelIdle {
		base = s.cfg.ActiveConfidence
	}
	conf := s.smooth(base.Min+s.rng.Float64()*(base.Max-base.Min), label, cur.history)
	r := Reading{Label: label, Confidence: conf, At: now}

	next := &state{
		label:         label,
		confidence:    conf,
		lastDetection: now,
		history:       appendBounded(cur.history, r, s.cfg.HistoryCapacity),
	}
	// a forced reset that landed meanwhile wins
	s.state.CompareAndSwap(cur, next)
	return r, 0
}

func (s *Simulator) neutral() (Reading, time.Duration) {
	now := s.now()
	return Reading{Label: LabelIdle, At: now}, max(now.Sub(s.state.Load().lastDetection), 0)
}

func (s *Simulator) drawLabel() Label {
	total := s.cfg.IdleWeight + s.cfg.HitWeight + s.cfg.StandWeight
	x := s.rng.Float64() * total
	switch {
	case x < s.cfg.IdleWeight:
		return LabelIdle
	case x < s.cfg.IdleWeight+s.cfg.HitWeight:
		return LabelHit
	default:
		return LabelStand
	}
}

func (s *Simulator) smooth(base float64, label Label, history []Reading) float64 {
	start := len(history) - s.cfg.ConsistencyLookback
	if start < 0 {
		start = 0
	}
	same := 0
	for _, h := range history[start:] {
		if h.Label == label {
			same++
		}
	}
	return math.Min(base+float64(same)*s.cfg.ConsistencyBoost, 1.0)
}

func appendBounded(history []Reading, r Reading, capacity int) []Reading {
	start := 0
	if len(history)+1 > capacity {
		start = len(history) + 1 - capacity
	}
	out := make([]Reading, 0, capacity)
	out = append(out, history[start:]...)
	return append(out, r)
}

// IsConfident reports whether the last drawn signal is an action worth
// acting on at the given threshold.
func (s *Simulator) IsConfident(threshold float64) bool {
	cur := s.state.Load()
	return s.confident(cur.label, cur.confidence, threshold)
}

func (s *Simulator) confident(label Label, conf, threshold float64) bool {
	return label != LabelIdle && conf >= threshold && conf >= s.cfg.MinConfidence
}

// Sample runs one detection and scores it against DefaultConfidence.
func (s *Simulator) Sample() Sample {
	r, age := s.detect()
	return Sample{
		Label:        r.Label,
		Confidence:   r.Confidence,
		IsConfident:  s.confident(r.Label, r.Confidence, s.cfg.DefaultConfidence),
		Quality:      QualityOf(r.Confidence),
		DetectionAge: age.Seconds(),
		Timestamp:    r.At,
	}
}

// Reset returns the detector to idle with an empty history. Detect calls
// issued while it drains return idle. If the lock is not released within
// ResetLockTimeout the reset is applied anyway.
func (s *Simulator) Reset() {
	s.resetting.Store(true)
	defer s.resetting.Store(false)

	fresh := &state{label: LabelIdle, lastDetection: s.now()}
	if !s.acquire(s.cfg.ResetLockTimeout) {
		log.Printf("[Gesture] reset lock timeout after %s, forcing reset", s.cfg.ResetLockTimeout)
		s.state.Store(fresh)
		return
	}
	defer s.release()
	s.state.Store(fresh)
	log.Printf("[Gesture] detector reset")
}

func (s *Simulator) Statistics() Statistics {
	return computeStatistics(s.state.Load().history)
}

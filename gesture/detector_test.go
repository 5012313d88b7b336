package gesture

import (
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSimulator(t *testing.T, cfg Config) (*Simulator, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, err := NewSimulator(cfg, WithClock(clock.Now), WithRand(rand.New(rand.NewSource(7))))
	if err != nil {
		t.Fatalf("NewSimulator err: %v", err)
	}
	return s, clock
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDetect_StartsInsidePersistenceWindow(t *testing.T) {
	s, _ := newTestSimulator(t, DefaultConfig())
	r := s.Detect()
	if r.Label != LabelIdle || r.Confidence != 0.1 {
		t.Fatalf("expected idle at decay floor right after construction, got %s %.2f", r.Label, r.Confidence)
	}
	if got := len(s.state.Load().history); got != 0 {
		t.Fatalf("persistence reads must not record history, got %d", got)
	}
}

func TestDetect_DebouncesWithinWindow(t *testing.T) {
	s, clock := newTestSimulator(t, DefaultConfig())
	clock.Advance(2 * time.Second)
	first := s.Detect()

	clock.Advance(500 * time.Millisecond)
	second := s.Detect()
	if second.Label != first.Label {
		t.Fatalf("label changed inside persistence window: %s -> %s", first.Label, second.Label)
	}
	want := math.Max(0.1, first.Confidence-0.05)
	if !almostEqual(second.Confidence, want) {
		t.Fatalf("expected decayed confidence %.4f, got %.4f", want, second.Confidence)
	}

	clock.Advance(600 * time.Millisecond)
	s.Detect()
	if got := len(s.state.Load().history); got != 2 {
		t.Fatalf("expected a fresh draw after the window, history=%d", got)
	}
}

func TestDetect_HistoryBoundedAndConfidenceRanges(t *testing.T) {
	s, clock := newTestSimulator(t, DefaultConfig())
	counts := map[Label]int{}
	const draws = 4000
	for i := 0; i < draws; i++ {
		clock.Advance(2 * time.Second)
		r := s.Detect()
		counts[r.Label]++
		min := 0.7
		if r.Label == LabelIdle {
			min = 0.5
		}
		if r.Confidence < min || r.Confidence > 1.0 {
			t.Fatalf("confidence %.3f out of range for %s", r.Confidence, r.Label)
		}
	}
	if got := len(s.state.Load().history); got != 10 {
		t.Fatalf("history should be capped at 10, got %d", got)
	}
	idleRate := float64(counts[LabelIdle]) / draws
	if idleRate < 0.70 || idleRate > 0.80 {
		t.Fatalf("idle rate %.3f far from weight 0.75", idleRate)
	}
	if counts[LabelHit] == 0 || counts[LabelStand] == 0 {
		t.Fatalf("expected every label to appear: %v", counts)
	}
}

func TestSmooth_BoostsConsistentLabels(t *testing.T) {
	s, _ := newTestSimulator(t, DefaultConfig())
	history := []Reading{{Label: LabelStand}, {Label: LabelHit}, {Label: LabelHit}, {Label: LabelHit}}
	if got := s.smooth(0.75, LabelHit, history); !almostEqual(got, 1.0) {
		t.Fatalf("expected boost capped at 1.0, got %.3f", got)
	}
	if got := s.smooth(0.7, LabelStand, history); !almostEqual(got, 0.7) {
		t.Fatalf("stand outside lookback must not boost, got %.3f", got)
	}
	if got := s.smooth(0.6, LabelIdle, nil); !almostEqual(got, 0.6) {
		t.Fatalf("empty history must not boost, got %.3f", got)
	}
}

func TestDetect_IdleWhileResettingOrLocked(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectLockTimeout = 10 * time.Millisecond
	s, clock := newTestSimulator(t, cfg)
	clock.Advance(2 * time.Second)

	s.resetting.Store(true)
	if r := s.Detect(); r.Label != LabelIdle || r.Confidence != 0 {
		t.Fatalf("expected neutral reading while resetting, got %+v", r)
	}
	s.resetting.Store(false)

	s.lock <- struct{}{}
	r := s.Detect()
	<-s.lock
	if r.Label != LabelIdle || r.Confidence != 0 {
		t.Fatalf("expected neutral reading on lock timeout, got %+v", r)
	}
}

func TestReset_ClearsState(t *testing.T) {
	s, clock := newTestSimulator(t, DefaultConfig())
	for i := 0; i < 5; i++ {
		clock.Advance(2 * time.Second)
		s.Detect()
	}
	s.Reset()

	cur := s.state.Load()
	if cur.label != LabelIdle || cur.confidence != 0 || len(cur.history) != 0 {
		t.Fatalf("reset left state behind: %+v", cur)
	}
	if !cur.lastDetection.Equal(clock.Now()) {
		t.Fatalf("reset should restart the persistence window")
	}
	if s.resetting.Load() {
		t.Fatal("resetting marker must be cleared")
	}
}

func TestReset_ForcedOnLockTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetLockTimeout = 10 * time.Millisecond
	s, clock := newTestSimulator(t, cfg)
	clock.Advance(2 * time.Second)
	s.Detect()

	s.lock <- struct{}{}
	s.Reset()
	<-s.lock

	if got := len(s.state.Load().history); got != 0 {
		t.Fatalf("forced reset should clear history, got %d", got)
	}
	if s.resetting.Load() {
		t.Fatal("resetting marker must be cleared after forced reset")
	}
}

func TestIsConfidentAndSample(t *testing.T) {
	s, clock := newTestSimulator(t, DefaultConfig())
	now := clock.Now()

	s.state.Store(&state{label: LabelHit, confidence: 0.85, lastDetection: now})
	if !s.IsConfident(0.8) {
		t.Fatal("hit at 0.85 should be confident at 0.8")
	}
	if s.IsConfident(0.9) {
		t.Fatal("hit at 0.85 should not be confident at 0.9")
	}
	if s.IsConfident(0.5) != true {
		t.Fatal("threshold below MinConfidence should still pass at 0.85")
	}
	s.state.Store(&state{label: LabelHit, confidence: 0.55, lastDetection: now})
	if s.IsConfident(0.5) {
		t.Fatal("confidence under MinConfidence must never be confident")
	}
	s.state.Store(&state{label: LabelIdle, confidence: 0.99, lastDetection: now})
	if s.IsConfident(0.5) {
		t.Fatal("idle is never confident")
	}

	s.state.Store(&state{label: LabelStand, confidence: 0.95, lastDetection: now})
	clock.Advance(200 * time.Millisecond)
	sample := s.Sample()
	if sample.Label != LabelStand || !almostEqual(sample.Confidence, 0.93) {
		t.Fatalf("unexpected sample: %+v", sample)
	}
	if !sample.IsConfident || sample.Quality != QualityExcellent {
		t.Fatalf("expected confident excellent sample, got %+v", sample)
	}
	if !almostEqual(sample.DetectionAge, 0.2) {
		t.Fatalf("expected detection age 0.2s, got %v", sample.DetectionAge)
	}
}

// tickingClock advances on every read so concurrent samples straddle fresh draws.
type tickingClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

func TestSample_DetectionAgeMatchesOwnReading(t *testing.T) {
	cfg := DefaultConfig()
	clock := &tickingClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: 150 * time.Millisecond}
	s, err := NewSimulator(cfg, WithClock(clock.Now), WithRand(rand.New(rand.NewSource(11))))
	if err != nil {
		t.Fatal(err)
	}

	const workers, rounds = 8, 200
	var wg sync.WaitGroup
	errs := make(chan string, workers*rounds)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				sample := s.Sample()
				if sample.DetectionAge < 0 {
					errs <- sample.Timestamp.String()
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	if n := len(errs); n > 0 {
		t.Fatalf("%d samples reported a negative detection age, first at %s", n, <-errs)
	}
}

func TestQualityOf(t *testing.T) {
	cases := []struct {
		conf float64
		want Quality
	}{
		{0.95, QualityExcellent},
		{0.9, QualityExcellent},
		{0.85, QualityGood},
		{0.6, QualityFair},
		{0.59, QualityPoor},
		{0, QualityPoor},
	}
	for _, c := range cases {
		if got := QualityOf(c.conf); got != c.want {
			t.Fatalf("QualityOf(%v) = %s, want %s", c.conf, got, c.want)
		}
	}
}

func TestNewSimulator_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryCapacity = 0
	if _, err := NewSimulator(cfg); err == nil {
		t.Fatal("expected error for zero history capacity")
	}
	cfg = DefaultConfig()
	cfg.ActiveConfidence = Range{Min: 0.9, Max: 0.7}
	if _, err := NewSimulator(cfg); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

package gesture

import (
	"fmt"
	"time"
)

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64
	Max float64
}

type Config struct {
	// draw weights, need not sum to 1
	IdleWeight  float64
	HitWeight   float64
	StandWeight float64

	IdleConfidence   Range
	ActiveConfidence Range

	// Inside this window Detect repeats the last label with decayed confidence.
	Persistence    time.Duration
	DecayPerSecond float64
	DecayFloor     float64

	// Each of the last ConsistencyLookback readings with the same label adds ConsistencyBoost.
	ConsistencyBoost    float64
	ConsistencyLookback int

	MinConfidence     float64
	DefaultConfidence float64
	HistoryCapacity   int

	DetectLockTimeout time.Duration
	ResetLockTimeout  time.Duration

	// RNG seed (0 => time-based)
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		IdleWeight:          0.75,
		HitWeight:           0.12,
		StandWeight:         0.13,
		IdleConfidence:      Range{Min: 0.5, Max: 0.8},
		ActiveConfidence:    Range{Min: 0.7, Max: 0.95},
		Persistence:         time.Second,
		DecayPerSecond:      0.1,
		DecayFloor:          0.1,
		ConsistencyBoost:    0.1,
		ConsistencyLookback: 3,
		MinConfidence:       0.6,
		DefaultConfidence:   0.8,
		HistoryCapacity:     10,
		DetectLockTimeout:   time.Second,
		ResetLockTimeout:    2 * time.Second,
	}
}

func (c Config) validate() error {
	if c.IdleWeight < 0 || c.HitWeight < 0 || c.StandWeight < 0 {
		return fmt.Errorf("gesture weights must be >= 0")
	}
	if c.IdleWeight+c.HitWeight+c.StandWeight <= 0 {
		return fmt.Errorf("gesture weights must not all be zero")
	}
	for _, r := range []Range{c.IdleConfidence, c.ActiveConfidence} {
		if r.Min < 0 || r.Max > 1 || r.Min > r.Max {
			return fmt.Errorf("invalid confidence range [%v, %v]", r.Min, r.Max)
		}
	}
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("HistoryCapacity must be > 0")
	}
	if c.DetectLockTimeout <= 0 || c.ResetLockTimeout <= 0 {
		return fmt.Errorf("lock timeouts must be > 0")
	}
	return nil
}

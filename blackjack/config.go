package blackjack

import "fmt"

const (
	DefaultStartingBalance      int64   = 1000
	DefaultDealerStandThreshold int     = 17
	DefaultBlackjackPayout      float64 = 1.5
)

type Config struct {
	// Balance given to a fresh or fully reset session.
	StartingBalance int64

	// Dealer keeps drawing while below this score.
	DealerStandThreshold int

	// Profit multiple paid on a player natural (3:2 => 1.5). Truncated toward zero.
	BlackjackPayout float64

	// RNG seed (0 => time-based)
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		StartingBalance:      DefaultStartingBalance,
		DealerStandThreshold: DefaultDealerStandThreshold,
		BlackjackPayout:      DefaultBlackjackPayout,
	}
}

func (c Config) validate() error {
	if c.StartingBalance <= 0 {
		return fmt.Errorf("StartingBalance must be > 0")
	}
	if c.DealerStandThreshold <= 0 || c.DealerStandThreshold > 21 {
		return fmt.Errorf("invalid DealerStandThreshold: %d", c.DealerStandThreshold)
	}
	if c.BlackjackPayout < 1 {
		return fmt.Errorf("BlackjackPayout must be >= 1, got %v", c.BlackjackPayout)
	}
	return nil
}

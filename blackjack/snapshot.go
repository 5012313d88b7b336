package blackjack

import (
	"time"

	"blackjack-lite/card"
)

// Snapshot is a copy of a session safe to hand to callers. The remaining deck
// is reported by size only.
type Snapshot struct {
	ID string `json:"sessionId"`

	PlayerHand  []card.Card `json:"playerHand"`
	DealerHand  []card.Card `json:"dealerHand"`
	PlayerScore int         `json:"playerScore"`
	DealerScore int         `json:"dealerScore"`
	DeckCount   int         `json:"deckCount"`

	PlayerMoney int64 `json:"playerMoney"`
	Bet         int64 `json:"currentBet"`

	Phase       Phase  `json:"gamePhase"`
	Winner      Winner `json:"winner"`
	Message     string `json:"message"`
	IsBlackjack bool   `json:"isBlackjack"`

	Round        int `json:"round"`
	RoundsWon    int `json:"roundsWon"`
	RoundsLost   int `json:"roundsLost"`
	RoundsPushed int `json:"roundsPushed"`

	LastActivity time.Time `json:"lastActivity"`
}

func (e *entry) snapshotLocked() Snapshot {
	s := &e.s
	return Snapshot{
		ID:           e.id,
		PlayerHand:   append([]card.Card{}, s.PlayerHand...),
		DealerHand:   append([]card.Card{}, s.DealerHand...),
		PlayerScore:  s.PlayerScore,
		DealerScore:  s.DealerScore,
		DeckCount:    s.Deck.Count(),
		PlayerMoney:  s.PlayerMoney,
		Bet:          s.Bet,
		Phase:        s.Phase,
		Winner:       s.Winner,
		Message:      s.Message,
		IsBlackjack:  s.IsBlackjack,
		Round:        s.Round,
		RoundsWon:    s.RoundsWon,
		RoundsLost:   s.RoundsLost,
		RoundsPushed: s.RoundsPushed,
		LastActivity: time.Unix(0, e.lastActivity.Load()),
	}
}

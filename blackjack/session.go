package blackjack

import "blackjack-lite/card"

// Session is one player's table: the live deck, both hands, the wager and
// the running tallies. It is only touched under its store entry lock.
type Session struct {
	Deck       card.CardList
	PlayerHand card.CardList
	DealerHand card.CardList

	PlayerScore int
	DealerScore int

	PlayerMoney int64
	Bet         int64

	Phase       Phase
	Winner      Winner
	Message     string
	IsBlackjack bool

	// 回合计数
	Round        int
	RoundsWon    int
	RoundsLost   int
	RoundsPushed int
}

func newSession(startingBalance int64) Session {
	return Session{
		Deck:        card.CardList{},
		PlayerHand:  card.CardList{},
		DealerHand:  card.CardList{},
		PlayerMoney: startingBalance,
		Phase:       PhaseIdle,
	}
}

func (s *Session) recomputeScores() {
	s.PlayerScore = card.Score(s.PlayerHand)
	s.DealerScore = card.Score(s.DealerHand)
}

// clearTable drops cards and wager but keeps money and counters.
func (s *Session) clearTable() {
	s.Deck = card.CardList{}
	s.PlayerHand = card.CardList{}
	s.DealerHand = card.CardList{}
	s.PlayerScore = 0
	s.DealerScore = 0
	s.Bet = 0
	s.Phase = PhaseIdle
	s.Winner = WinnerNone
	s.Message = ""
	s.IsBlackjack = false
}

func (s *Session) clone() Session {
	out := *s
	out.Deck = s.Deck.Clone()
	out.PlayerHand = s.PlayerHand.Clone()
	out.DealerHand = s.DealerHand.Clone()
	return out
}

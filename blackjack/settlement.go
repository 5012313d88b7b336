package blackjack

import (
	"fmt"
	"log"
	"math"

	"blackjack-lite/card"
)

// settleNaturalsLocked checks the opening deal. A two-card 21 on either side
// ends the round at once.
func (e *Engine) settleNaturalsLocked(id string, s *Session) *RoundResult {
	playerNatural := card.IsNatural(s.PlayerHand)
	dealerNatural := card.IsNatural(s.DealerHand)
	if !playerNatural && !dealerNatural {
		return nil
	}

	s.IsBlackjack = true
	switch {
	case playerNatural && dealerNatural:
		return e.settleRoundLocked(id, s, WinnerPush, "Both have blackjack. Push.")
	case playerNatural:
		return e.settleRoundLocked(id, s, WinnerPlayer, "Blackjack! You win.")
	default:
		return e.settleRoundLocked(id, s, WinnerDealer, "Dealer has blackjack.")
	}
}

func (e *Engine) decideWinnerLocked(id string, s *Session) *RoundResult {
	ps, ds := s.PlayerScore, s.DealerScore
	switch {
	case ps > card.BlackjackScore:
		return e.settleRoundLocked(id, s, WinnerDealer, "Bust! Dealer wins.")
	case ds > card.BlackjackScore:
		return e.settleRoundLocked(id, s, WinnerPlayer, fmt.Sprintf("Dealer busts with %d. You win!", ds))
	case ps > ds:
		return e.settleRoundLocked(id, s, WinnerPlayer, fmt.Sprintf("You win %d to %d!", ps, ds))
	case ds > ps:
		return e.settleRoundLocked(id, s, WinnerDealer, fmt.Sprintf("Dealer wins %d to %d.", ds, ps))
	default:
		return e.settleRoundLocked(id, s, WinnerPush, fmt.Sprintf("Push at %d.", ps))
	}
}

// settleRoundLocked moves money and tallies, then closes the round. The wager
// stays in PlayerMoney until here.
func (e *Engine) settleRoundLocked(id string, s *Session, winner Winner, message string) *RoundResult {
	var delta int64
	switch winner {
	case WinnerPlayer:
		if s.IsBlackjack {
			delta = e.blackjackPayout(s.Bet)
		} else {
			delta = s.Bet
		}
		s.RoundsWon++
	case WinnerDealer:
		delta = -s.Bet
		s.RoundsLost++
	case WinnerPush:
		s.RoundsPushed++
	}
	s.PlayerMoney += delta
	s.Phase = PhaseRoundOver
	s.Winner = winner
	s.Message = message

	return &RoundResult{
		SessionID:   id,
		Round:       s.Round,
		Winner:      winner,
		Bet:         s.Bet,
		Delta:       delta,
		Balance:     s.PlayerMoney,
		IsBlackjack: s.IsBlackjack,
		PlayerScore: s.PlayerScore,
		DealerScore: s.DealerScore,
		PlayerHand:  append([]card.Card{}, s.PlayerHand...),
		DealerHand:  append([]card.Card{}, s.DealerHand...),
		Message:     message,
		SettledAt:   e.store.now(),
	}
}

func (e *Engine) blackjackPayout(bet int64) int64 {
	return int64(math.Floor(float64(bet) * e.cfg.BlackjackPayout))
}

func (e *Engine) dispatchRoundHooks(result *RoundResult) {
	if result == nil {
		return
	}
	e.hooksMu.RLock()
	hooks := append([]RoundHook(nil), e.hooks...)
	e.hooksMu.RUnlock()

	e.hooksWG.Add(len(hooks))
	for _, hook := range hooks {
		go func(cb RoundHook) {
			defer e.hooksWG.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Engine %s] round hook panic: %v", result.SessionID, r)
				}
			}()
			cb(*result)
		}(hook)
	}
}


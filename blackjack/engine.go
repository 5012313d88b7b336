package blackjack

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"blackjack-lite/card"
)

// Engine applies blackjack rules to sessions held in a Store. Each operation
// runs under the target session's lock, so distinct sessions never contend.
type Engine struct {
	cfg   Config
	store *Store

	rngMu sync.Mutex
	rng   *rand.Rand

	// deals a fresh deck for each bet; tests stack it
	newDeck func() card.CardList

	hooksMu sync.RWMutex
	hooks   []RoundHook
	hooksWG sync.WaitGroup
}

func NewEngine(cfg Config, store *Store) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if store == nil {
		store = NewStore(cfg.StartingBalance)
	}
	e := &Engine{
		cfg:   cfg,
		store: store,
		rng:   rand.New(rand.NewSource(seed)),
	}
	e.newDeck = func() card.CardList { return e.shuffle(card.NewDeck()) }
	return e, nil
}

func (e *Engine) Store() *Store { return e.store }

func (e *Engine) Config() Config { return e.cfg }

// Session returns the caller's session, creating it on first contact.
func (e *Engine) Session(id string) Snapshot {
	return e.store.GetOrInit(id)
}

// Lookup returns the session without creating it.
func (e *Engine) Lookup(id string) (Snapshot, error) {
	return e.store.Get(id)
}

// PlaceBet validates the wager, deals two cards each from a fresh shuffled
// deck and settles immediately on a natural.
func (e *Engine) PlaceBet(id string, amount int64) (Snapshot, error) {
	var result *RoundResult
	snap, err := e.store.with(id, true, func(s *Session) error {
		if s.Phase == PhaseInProgress {
			return ErrWrongPhase
		}
		if amount < 1 {
			return &InvalidBetError{Reason: BetTooLow, Amount: amount, Limit: 1}
		}
		if amount > s.PlayerMoney {
			return &InvalidBetError{Reason: BetExceedsBalance, Amount: amount, Limit: s.PlayerMoney}
		}

		deck := e.newDeck()
		player, _ := deck.PopCards(2)
		dealer, _ := deck.PopCards(2)

		s.clearTable()
		s.Deck = deck
		s.PlayerHand = player
		s.DealerHand = dealer
		s.Bet = amount
		s.Round++
		s.Phase = PhaseInProgress
		s.recomputeScores()

		result = e.settleNaturalsLocked(id, s)
		return nil
	})
	e.dispatchRoundHooks(result)
	return snap, err
}

// Hit deals one card to the player. Busting settles the round for the dealer.
func (e *Engine) Hit(id string) (Snapshot, error) {
	var result *RoundResult
	snap, err := e.store.with(id, false, func(s *Session) error {
		if s.Phase != PhaseInProgress {
			return ErrWrongPhase
		}
		c, err := e.drawLocked(id, s)
		if err != nil {
			return err
		}
		s.PlayerHand.Add(c)
		s.recomputeScores()

		switch {
		case s.PlayerScore > card.BlackjackScore:
			result = e.settleRoundLocked(id, s, WinnerDealer, "Bust! Dealer wins.")
		case s.PlayerScore == card.BlackjackScore:
			s.Message = "21! You should stand."
		default:
			s.Message = ""
		}
		return nil
	})
	e.dispatchRoundHooks(result)
	return snap, err
}

// Stand plays out the dealer hand and settles the round.
func (e *Engine) Stand(id string) (Snapshot, error) {
	var result *RoundResult
	snap, err := e.store.with(id, false, func(s *Session) error {
		if s.Phase != PhaseInProgress {
			return ErrWrongPhase
		}
		for s.DealerScore < e.cfg.DealerStandThreshold {
			c, err := e.drawLocked(id, s)
			if err != nil {
				// dealer stands on whatever it holds
				log.Printf("[Engine %s] dealer draw stopped: %v", id, err)
				break
			}
			s.DealerHand.Add(c)
			s.recomputeScores()
		}
		result = e.decideWinnerLocked(id, s)
		return nil
	})
	e.dispatchRoundHooks(result)
	return snap, err
}

// NewRound clears the table but keeps money and tallies.
func (e *Engine) NewRound(id string) Snapshot {
	snap, _ := e.store.with(id, true, func(s *Session) error {
		s.clearTable()
		return nil
	})
	return snap
}

// Reset replaces the session with a fresh one at the starting balance.
func (e *Engine) Reset(id string) Snapshot {
	return e.store.Replace(id, newSession(e.cfg.StartingBalance))
}

// ApplyAction routes an external decision (a gesture, a button) into the
// engine. ActionNone only reads the state.
func (e *Engine) ApplyAction(id string, action Action) (Snapshot, error) {
	switch action {
	case ActionHit:
		e.store.GetOrInit(id)
		return e.Hit(id)
	case ActionStand:
		e.store.GetOrInit(id)
		return e.Stand(id)
	default:
		return e.Session(id), nil
	}
}

// OnRoundSettled registers a post-settlement callback. Hooks run in their own
// goroutine after the session lock is released.
func (e *Engine) OnRoundSettled(hook RoundHook) {
	if hook == nil {
		return
	}
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.hooks = append(e.hooks, hook)
}

// WaitHooks blocks until every dispatched round hook has returned or ctx is
// done. Call it after the transports stop and before closing what the hooks
// write to.
func (e *Engine) WaitHooks(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.hooksWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) shuffle(cards card.CardList) card.CardList {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return card.Shuffle(cards, e.rng)
}

// drawLocked pops the next card, rebuilding the deck from every card not
// currently in a hand when it has run dry.
func (e *Engine) drawLocked(id string, s *Session) (card.Card, error) {
	if s.Deck.Count() == 0 {
		fresh := card.Exclude(card.NewDeck(), s.PlayerHand, s.DealerHand)
		s.Deck = e.shuffle(fresh)
		log.Printf("[Engine %s] deck reshuffled: %d cards", id, s.Deck.Count())
	}
	c, ok := s.Deck.PopCard()
	if !ok {
		return card.CardInvalid, ErrDeckExhausted
	}
	return c, nil
}

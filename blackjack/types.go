package blackjack

import (
	"fmt"
	"time"

	"blackjack-lite/card"
)

// Phase 回合阶段
type Phase byte

const (
	PhaseIdle       Phase = 0
	PhaseInProgress Phase = 1
	PhaseRoundOver  Phase = 2
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseIdle:       "idle",
	PhaseInProgress: "in_progress",
	PhaseRoundOver:  "round_over",
}

func (p Phase) String() string {
	if s, ok := PhaseTypeDictionary[p]; ok {
		return s
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	if _, ok := PhaseTypeDictionary[p]; !ok {
		return nil, fmt.Errorf("unknown phase %d", p)
	}
	return []byte(p.String()), nil
}

// Winner is only meaningful in PhaseRoundOver.
type Winner byte

const (
	WinnerNone   Winner = 0
	WinnerPlayer Winner = 1
	WinnerDealer Winner = 2
	WinnerPush   Winner = 3
)

var WinnerTypeDictionary = map[Winner]string{
	WinnerNone:   "",
	WinnerPlayer: "player",
	WinnerDealer: "dealer",
	WinnerPush:   "push",
}

func (w Winner) String() string {
	return WinnerTypeDictionary[w]
}

func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Action is a player decision fed in from outside the engine (buttons, gestures).
type Action byte

const (
	ActionNone  Action = 0
	ActionHit   Action = 1
	ActionStand Action = 2
)

var ActionTypeDictionary = map[Action]string{
	ActionNone:  "idle",
	ActionHit:   "hit",
	ActionStand: "stand",
}

func (a Action) String() string {
	if s, ok := ActionTypeDictionary[a]; ok {
		return s
	}
	return "unknown"
}

// ParseAction maps a label such as "hit" to an Action. Unknown labels are ActionNone.
func ParseAction(label string) Action {
	for a, s := range ActionTypeDictionary {
		if s == label {
			return a
		}
	}
	return ActionNone
}

// RoundResult is emitted to settlement hooks once a round is settled.
type RoundResult struct {
	SessionID   string
	Round       int
	Winner      Winner
	Bet         int64
	Delta       int64
	Balance     int64
	IsBlackjack bool
	PlayerScore int
	DealerScore int
	PlayerHand  []card.Card
	DealerHand  []card.Card
	Message     string
	SettledAt   time.Time
}

// RoundHook is a post-settlement callback.
type RoundHook func(result RoundResult)

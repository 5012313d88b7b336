package blackjack

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBet      = errors.New("invalid bet")
	ErrWrongPhase      = errors.New("action not allowed in current phase")
	ErrNotInitialized  = errors.New("game not initialized")
	ErrSessionNotFound = errors.New("session not found")
	ErrDeckExhausted   = errors.New("deck exhausted")
)

// BetRejection says why a wager was refused so callers can word it.
type BetRejection byte

const (
	BetTooLow         BetRejection = 1
	BetExceedsBalance BetRejection = 2
	BetExceedsLimit   BetRejection = 3
)

// InvalidBetError matches ErrInvalidBet under errors.Is.
type InvalidBetError struct {
	Reason BetRejection
	Amount int64
	Limit  int64
}

func (e *InvalidBetError) Error() string {
	switch e.Reason {
	case BetTooLow:
		return fmt.Sprintf("bet must be at least %d", e.Limit)
	case BetExceedsBalance:
		return fmt.Sprintf("bet %d exceeds balance %d", e.Amount, e.Limit)
	case BetExceedsLimit:
		return fmt.Sprintf("bet %d exceeds maximum bet %d", e.Amount, e.Limit)
	}
	return ErrInvalidBet.Error()
}

func (e *InvalidBetError) Is(target error) bool { return target == ErrInvalidBet }

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }

package card

import (
	"fmt"
	"strings"
)

type Suit byte

const (
	Heart   Suit = iota // ♥
	Diamond             // ♦
	Club                // ♣
	Spade               // ♠
)

func (s Suit) String() string {
	switch s {
	case Heart:
		return "hearts"
	case Diamond:
		return "diamonds"
	case Club:
		return "clubs"
	case Spade:
		return "spades"
	}
	return "?"
}

func (s Suit) Symbol() string {
	switch s {
	case Heart:
		return "♥"
	case Diamond:
		return "♦"
	case Club:
		return "♣"
	case Spade:
		return "♠"
	}
	return "?"
}

func (s Suit) IsRed() bool {
	return s == Heart || s == Diamond
}

// ParseSuit accepts the suit name ("hearts") or its initial ("h").
func ParseSuit(raw string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hearts", "heart", "h":
		return Heart, nil
	case "diamonds", "diamond", "d":
		return Diamond, nil
	case "clubs", "club", "c":
		return Club, nil
	case "spades", "spade", "s":
		return Spade, nil
	default:
		return 0, fmt.Errorf("invalid suit: %s", raw)
	}
}

package card

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Heart, 1:Diamond, 2:Club, 3:Spade)
// - 低4位: 点数 (1:A, 2..10, 11:J, 12:Q, 13:K)
type Card byte

const CardInvalid Card = 0

// New builds a card from a suit and a rank in 1..13.
func New(s Suit, rank byte) (Card, error) {
	if s > Spade || rank < RankAce || rank > RankKing {
		return CardInvalid, fmt.Errorf("invalid card: suit=%d rank=%d", s, rank)
	}
	return Card(byte(s)<<4 | rank), nil
}

func (c Card) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return c.RankString() + c.Suit().Symbol()
}

// Rank 获取牌面值 1-13 (A=1, K=13)
func (c Card) Rank() byte {
	return byte(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) Valid() bool {
	r := c.Rank()
	return c.Suit() <= Spade && r >= RankAce && r <= RankKing
}

func (c Card) IsAce() bool {
	return c.Rank() == RankAce
}

// RankString renders the rank the way players read it: A, 2..10, J, Q, K.
func (c Card) RankString() string {
	switch c.Rank() {
	case RankAce:
		return "A"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	default:
		return fmt.Sprintf("%d", c.Rank())
	}
}

// Value is the blackjack value before ace reduction: faces 10, ace 11.
func (c Card) Value() int {
	r := c.Rank()
	switch {
	case r == RankAce:
		return 11
	case r >= 10:
		return 10
	default:
		return int(r)
	}
}

type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("marshal invalid card 0x%02x", byte(c))
	}
	return json.Marshal(cardJSON{Rank: c.RankString(), Suit: c.Suit().String()})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := Parse(raw.Rank, raw.Suit)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse converts a rank ("A", "2".."10", "J", "Q", "K") and a suit name into a Card.
func Parse(rank, suit string) (Card, error) {
	s, err := ParseSuit(suit)
	if err != nil {
		return CardInvalid, err
	}

	var r byte
	switch strings.ToUpper(strings.TrimSpace(rank)) {
	case "A":
		r = RankAce
	case "2":
		r = 2
	case "3":
		r = 3
	case "4":
		r = 4
	case "5":
		r = 5
	case "6":
		r = 6
	case "7":
		r = 7
	case "8":
		r = 8
	case "9":
		r = 9
	case "10", "T":
		r = 10
	case "J":
		r = RankJack
	case "Q":
		r = RankQueen
	case "K":
		r = RankKing
	default:
		return CardInvalid, fmt.Errorf("invalid rank: %s", rank)
	}
	return New(s, r)
}

// MustParse is Parse for fixed test fixtures; it panics on bad input.
func MustParse(rank, suit string) Card {
	c, err := Parse(rank, suit)
	if err != nil {
		panic(err)
	}
	return c
}

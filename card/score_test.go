package card

import "testing"

func hand(ranks ...string) []Card {
	out := make([]Card, 0, len(ranks))
	for i, rank := range ranks {
		suit := []string{"hearts", "diamonds", "clubs", "spades"}[i%4]
		out = append(out, MustParse(rank, suit))
	}
	return out
}

func TestScore_AceAdjustment(t *testing.T) {
	cases := []struct {
		name string
		hand []Card
		want int
	}{
		{"empty", nil, 0},
		{"soft 21", hand("A", "K"), 21},
		{"two aces and nine", hand("A", "A", "9"), 21},
		{"three aces and nine", hand("A", "A", "A", "9"), 12},
		{"faces", hand("J", "Q"), 20},
		{"bust without aces", hand("K", "Q", "5"), 25},
		{"ace drops to one", hand("A", "9", "5"), 15},
		{"four aces", hand("A", "A", "A", "A"), 14},
		{"ten card", hand("10", "9"), 19},
	}
	for _, tc := range cases {
		if got := Score(tc.hand); got != tc.want {
			t.Fatalf("%s: Score(%v)=%d want %d", tc.name, tc.hand, got, tc.want)
		}
	}
}

func TestScore_NeverOver21WhenAnAceCanDrop(t *testing.T) {
	for _, a := range StandardCards {
		for _, b := range StandardCards {
			for _, c := range []Card{CardSpadeA, CardClub9, CardHeartK} {
				h := []Card{a, b, c}
				raw := a.Value() + b.Value() + c.Value()
				aces := 0
				for _, x := range h {
					if x.IsAce() {
						aces++
					}
				}
				if raw-10*aces <= 21 && Score(h) > 21 {
					t.Fatalf("Score(%v)=%d exceeds 21 although aces can be reduced", h, Score(h))
				}
			}
		}
	}
}

func TestIsNatural(t *testing.T) {
	if !IsNatural(hand("A", "K")) {
		t.Fatalf("A,K should be a natural")
	}
	if IsNatural(hand("7", "7", "7")) {
		t.Fatalf("three-card 21 must not be a natural")
	}
	if IsNatural(hand("10", "9")) {
		t.Fatalf("19 is not a natural")
	}
	if !IsBust(hand("K", "Q", "2")) {
		t.Fatalf("22 should be bust")
	}
}

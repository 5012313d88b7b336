package card

const BlackjackScore = 21

// Score counts faces as 10 and aces as 11, then drops aces to 1 one at a time
// while the hand is over 21.
func Score(hand []Card) int {
	total := 0
	aces := 0
	for _, c := range hand {
		total += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for aces > 0 && total > BlackjackScore {
		total -= 10
		aces--
	}
	return total
}

// IsNatural reports a two-card 21.
func IsNatural(hand []Card) bool {
	return len(hand) == 2 && Score(hand) == BlackjackScore
}

func IsBust(hand []Card) bool {
	return Score(hand) > BlackjackScore
}

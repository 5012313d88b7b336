package card

import "math/rand"

// CardList is an ordered draw queue; index 0 is the next card dealt.
type CardList []Card

func (ds *CardList) Init(cards []Card) {
	*ds = make([]Card, len(cards))
	copy(*ds, cards)
}

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

func (ds CardList) Clone() CardList {
	if ds == nil {
		return CardList{}
	}
	out := make(CardList, len(ds))
	copy(out, ds)
	return out
}

func (ds CardList) Contains(c Card) bool {
	return containsCard(ds, c)
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

// PopCard draws from the front of the queue.
func (ds *CardList) PopCard() (Card, bool) {
	cards, ok := ds.PopCards(1)
	if !ok {
		return CardInvalid, false
	}
	return cards[0], true
}

func (ds *CardList) PopCards(size int) ([]Card, bool) {
	if size < 0 || size > ds.Count() {
		return nil, false
	}
	cards := make([]Card, size)
	copy(cards, (*ds)[:size])
	*ds = (*ds)[size:]
	return cards, true
}

// NewDeck returns the standard 52-card deck in its fixed enumeration order.
func NewDeck() CardList {
	var d CardList
	d.Init(StandardCards)
	return d
}

// Shuffle returns a uniformly permuted copy of cards. A nil rng uses the
// package-level source.
func Shuffle(cards []Card, rng *rand.Rand) CardList {
	var out CardList
	out.Init(cards)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng == nil {
		rand.Shuffle(len(out), swap)
	} else {
		rng.Shuffle(len(out), swap)
	}
	return out
}

// Exclude returns deck without any card present in used. Order is preserved.
func Exclude(deck []Card, used ...[]Card) CardList {
	out := make(CardList, 0, len(deck))
	for _, c := range deck {
		inUse := false
		for _, set := range used {
			if containsCard(set, c) {
				inUse = true
				break
			}
		}
		if !inUse {
			out = append(out, c)
		}
	}
	return out
}

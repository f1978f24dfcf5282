package domain

import (
	"math/rand"
	"sort"
)

// Suit values, weakest to strongest within a rank.
const (
	SuitSpades int32 = iota
	SuitClubs
	SuitDiamonds
	SuitHearts
)

// Rank values. Tien Len orders 3 lowest and 2 highest.
const (
	RankThree int32 = iota
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
	RankTwo
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// Card is a single playing card. Cards are value types and safe to compare
// with ==.
type Card struct {
	Rank int32
	Suit int32
}

// Power returns the card's position in the strict total order used for all
// comparisons: Rank*4 + Suit.
func Power(c Card) int32 {
	return c.Rank*4 + c.Suit
}

// NewDeck returns the full 52-card deck ordered by power.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for r := RankThree; r <= RankTwo; r++ {
		for s := SuitSpades; s <= SuitHearts; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of deck using the provided source.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortByPower orders cards ascending by power in place.
func SortByPower(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return Power(cards[i]) < Power(cards[j])
	})
}

// RemoveCards returns hand minus the given cards using multiset semantics.
// The input slices are not modified.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	counts := make(map[Card]int, len(toRemove))
	for _, c := range toRemove {
		counts[c]++
	}

	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if counts[c] > 0 {
			counts[c]--
			continue
		}
		out = append(out, c)
	}
	return out
}

// ContainsAll reports whether hand contains every card in want, counting
// duplicates.
func ContainsAll(hand []Card, want []Card) bool {
	counts := make(map[Card]int, len(hand))
	for _, c := range hand {
		counts[c]++
	}
	for _, c := range want {
		if counts[c] == 0 {
			return false
		}
		counts[c]--
	}
	return true
}

// LowestCard returns the lowest-power card in hand. The hand must not be
// empty.
func LowestCard(hand []Card) Card {
	low := hand[0]
	for _, c := range hand[1:] {
		if Power(c) < Power(low) {
			low = c
		}
	}
	return low
}

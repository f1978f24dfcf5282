package internal

import "thirteen/internal/domain"

// Structure values for the static hand evaluation. Higher is better.
const (
	ScorePig          = 20.0 // a lone 2
	ScoreBomb         = 30.0
	ScoreStraightCard = 5.0
	ScoreTriple       = 10.0
	ScorePair         = 5.0
	ScoreHighSingle   = 2.0  // J and up
	ScoreLowSingle    = -2.0 // 3 through 10
)

// EvaluateHand returns a heuristic strength score for a hand, built from a
// greedy structure extraction: quads, then straights, then triples and pairs,
// with leftovers valued as singles.
func EvaluateHand(hand []domain.Card) float64 {
	cards := make([]domain.Card, len(hand))
	copy(cards, hand)
	domain.SortByPower(cards)

	score := 0.0

	cards, quads := extractSameRank(cards, 4)
	score += float64(quads) * ScoreBomb

	var straights straightStats
	cards, straights = extractStraights(cards)
	score += float64(straights.Cards) * ScoreStraightCard

	cards, triples := extractSameRank(cards, 3)
	score += float64(triples) * ScoreTriple

	cards, pairs := extractSameRank(cards, 2)
	score += float64(pairs) * ScorePair

	for _, c := range cards {
		switch {
		case c.Rank == domain.RankTwo:
			score += ScorePig
		case c.Rank >= domain.RankJack:
			score += ScoreHighSingle
		default:
			score += ScoreLowSingle
		}
	}
	return score
}

// extractSameRank removes every complete n-of-a-kind group and returns how
// many were found. Input must be power-sorted.
func extractSameRank(cards []domain.Card, n int) ([]domain.Card, int) {
	found := 0
	for i := 0; i+n <= len(cards); {
		if cards[i].Rank == cards[i+n-1].Rank {
			cards = removeSubset(cards, cards[i:i+n])
			found++
			continue
		}
		i++
	}
	return cards, found
}

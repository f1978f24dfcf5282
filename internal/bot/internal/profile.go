package internal

import (
	"sort"

	"thirteen/internal/domain"
)

// HandProfile summarizes a hand's structure for phase-aware scoring. The
// counts come from a greedy extraction pass: pines first, then straights,
// then whatever same-rank groups remain.
type HandProfile struct {
	TotalCards     int
	Singles        int
	Pairs          int
	Triples        int
	Quads          int
	Straights      int
	StraightCards  int
	MaxStraightLen int
	Pines          int
	PineCards      int
	MaxPinePairs   int
	Twos           int
}

// ProfileHand analyzes a hand and extracts structure counts.
func ProfileHand(hand []domain.Card) HandProfile {
	profile := HandProfile{TotalCards: len(hand)}
	if len(hand) == 0 {
		return profile
	}

	cards := make([]domain.Card, len(hand))
	copy(cards, hand)
	domain.SortByPower(cards)

	for _, c := range cards {
		if c.Rank == domain.RankTwo {
			profile.Twos++
		}
	}

	var pines pineStats
	cards, pines = extractPines(cards)
	profile.Pines = pines.Count
	profile.PineCards = pines.Cards
	profile.MaxPinePairs = pines.MaxPairs

	var straights straightStats
	cards, straights = extractStraights(cards)
	profile.Straights = straights.Count
	profile.StraightCards = straights.Cards
	profile.MaxStraightLen = straights.MaxLen

	rankCounts := make(map[int32]int)
	for _, c := range cards {
		rankCounts[c.Rank]++
	}
	for _, count := range rankCounts {
		switch count {
		case 4:
			profile.Quads++
		case 3:
			profile.Triples++
		case 2:
			profile.Pairs++
		case 1:
			profile.Singles++
		}
	}
	return profile
}

type straightStats struct {
	Count  int
	Cards  int
	MaxLen int
}

type pineStats struct {
	Count    int
	Cards    int
	MaxPairs int
}

// removeSubset removes cards from source with multiset semantics. O(N*M) is
// fine at hand sizes.
func removeSubset(source, subset []domain.Card) []domain.Card {
	counts := make(map[domain.Card]int, len(subset))
	for _, c := range subset {
		counts[c]++
	}
	rem := make([]domain.Card, 0, len(source))
	for _, c := range source {
		if counts[c] > 0 {
			counts[c]--
			continue
		}
		rem = append(rem, c)
	}
	return rem
}

// longestRun finds the longest run of consecutive values of length >= 3 and
// returns its start index, or -1.
func longestRun(ranks []int) (start, length int) {
	bestStart, bestLen := -1, 0
	for i := 0; i < len(ranks); i++ {
		runLen := 1
		for j := i + 1; j < len(ranks); j++ {
			if ranks[j] != ranks[j-1]+1 {
				break
			}
			runLen++
		}
		if runLen >= 3 && runLen > bestLen {
			bestStart, bestLen = i, runLen
		}
	}
	return bestStart, bestLen
}

// extractStraights repeatedly removes the longest straight, taking the lowest
// card of each rank so strong suits stay behind for singles.
func extractStraights(cards []domain.Card) ([]domain.Card, straightStats) {
	var stats straightStats
	for {
		rankMap := make(map[int32][]domain.Card)
		var ranks []int
		for _, c := range cards {
			if c.Rank == domain.RankTwo {
				continue
			}
			if _, ok := rankMap[c.Rank]; !ok {
				ranks = append(ranks, int(c.Rank))
			}
			rankMap[c.Rank] = append(rankMap[c.Rank], c)
		}
		sort.Ints(ranks)

		start, length := longestRun(ranks)
		if start < 0 {
			return cards, stats
		}

		straight := make([]domain.Card, 0, length)
		for k := 0; k < length; k++ {
			straight = append(straight, rankMap[int32(ranks[start+k])][0])
		}
		cards = removeSubset(cards, straight)

		stats.Count++
		stats.Cards += length
		if length > stats.MaxLen {
			stats.MaxLen = length
		}
	}
}

// extractPines repeatedly removes the longest run of 3+ consecutive pairs,
// using the two lowest cards of each rank.
func extractPines(cards []domain.Card) ([]domain.Card, pineStats) {
	var stats pineStats
	for {
		if len(cards) < 6 {
			return cards, stats
		}

		rankMap := make(map[int32][]domain.Card)
		for _, c := range cards {
			rankMap[c.Rank] = append(rankMap[c.Rank], c)
		}
		var ranks []int
		for rank, group := range rankMap {
			if rank != domain.RankTwo && len(group) >= 2 {
				ranks = append(ranks, int(rank))
			}
		}
		sort.Ints(ranks)

		start, length := longestRun(ranks)
		if start < 0 {
			return cards, stats
		}

		pine := make([]domain.Card, 0, length*2)
		for k := 0; k < length; k++ {
			group := rankMap[int32(ranks[start+k])]
			domain.SortByPower(group)
			pine = append(pine, group[0], group[1])
		}
		cards = removeSubset(cards, pine)

		stats.Count++
		stats.Cards += length * 2
		if length > stats.MaxPairs {
			stats.MaxPairs = length
		}
	}
}

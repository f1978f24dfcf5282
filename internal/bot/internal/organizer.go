package internal

import (
	"sort"

	"thirteen/internal/domain"
)

// OrganizedHand is one tactical partitioning of a hand into structures plus
// leftover trash cards.
type OrganizedHand struct {
	Bombs     []domain.Combination
	Straights []domain.Combination
	Triples   []domain.Combination
	Pairs     []domain.Combination
	Trash     []domain.Card
}

// Organize partitions a hand with straights taking priority over sets. Bombs
// always come out first.
func Organize(hand []domain.Card) OrganizedHand {
	var org OrganizedHand
	if len(hand) == 0 {
		return org
	}

	pool := make([]domain.Card, len(hand))
	copy(pool, hand)
	domain.SortByPower(pool)

	org.Bombs, pool = extractBombCombos(pool)
	org.Straights, pool = extractStraightCombos(pool)
	org.Triples, org.Pairs, pool = extractSetCombos(pool)
	org.Trash = pool
	return org
}

// OrganizePairsFirst partitions a hand with sets taking priority over
// straights, the cohesive reading of the same cards.
func OrganizePairsFirst(hand []domain.Card) OrganizedHand {
	var org OrganizedHand
	if len(hand) == 0 {
		return org
	}

	pool := make([]domain.Card, len(hand))
	copy(pool, hand)
	domain.SortByPower(pool)

	org.Bombs, pool = extractBombCombos(pool)
	org.Triples, org.Pairs, pool = extractSetCombos(pool)
	org.Straights, pool = extractStraightCombos(pool)
	org.Trash = pool
	return org
}

// OrganizeAll returns every partitioning strategy the scorer weighs against
// each other.
func OrganizeAll(hand []domain.Card) []OrganizedHand {
	return []OrganizedHand{Organize(hand), OrganizePairsFirst(hand)}
}

// BreakPenalty counts how many of the played cards tear a multi-card
// structure apart without consuming it whole, taking the most charitable
// partitioning. Zero means some organization of the hand gives the play away
// for free.
func BreakPenalty(hand, played []domain.Card) int {
	best := -1
	for _, org := range OrganizeAll(hand) {
		p := org.breakCount(played)
		if best == -1 || p < best {
			best = p
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func (o OrganizedHand) breakCount(played []domain.Card) int {
	counts := make(map[domain.Card]int, len(played))
	for _, c := range played {
		counts[c]++
	}

	penalty := 0
	structures := make([]domain.Combination, 0,
		len(o.Bombs)+len(o.Straights)+len(o.Triples)+len(o.Pairs))
	structures = append(structures, o.Bombs...)
	structures = append(structures, o.Straights...)
	structures = append(structures, o.Triples...)
	structures = append(structures, o.Pairs...)

	for _, s := range structures {
		overlap := 0
		for _, c := range s.Cards {
			if counts[c] > 0 {
				counts[c]--
				overlap++
			}
		}
		if overlap > 0 && overlap < len(s.Cards) {
			penalty += overlap
		}
	}
	return penalty
}

// extractBombCombos pulls out quads first, then pines of 3+ pairs.
func extractBombCombos(pool []domain.Card) ([]domain.Combination, []domain.Card) {
	var bombs []domain.Combination
	pool = collectSameRank(pool, 4, &bombs)
	for {
		pine, ok := takeOnePine(pool)
		if !ok {
			return bombs, pool
		}
		bombs = append(bombs, domain.Classify(pine))
		pool = removeSubset(pool, pine)
	}
}

// collectSameRank removes complete n-of-a-kind groups, appending each as a
// classified combination.
func collectSameRank(pool []domain.Card, n int, out *[]domain.Combination) []domain.Card {
	for i := 0; i+n <= len(pool); {
		if pool[i].Rank == pool[i+n-1].Rank {
			group := make([]domain.Card, n)
			copy(group, pool[i:i+n])
			*out = append(*out, domain.Classify(group))
			pool = removeSubset(pool, group)
			continue
		}
		i++
	}
	return pool
}

func extractStraightCombos(pool []domain.Card) ([]domain.Combination, []domain.Card) {
	var straights []domain.Combination
	for {
		straight, ok := takeOneStraight(pool)
		if !ok {
			return straights, pool
		}
		straights = append(straights, domain.Classify(straight))
		pool = removeSubset(pool, straight)
	}
}

// takeOneStraight finds the longest straight in the pool, taking the lowest
// card of each rank so strong suits stay behind.
func takeOneStraight(pool []domain.Card) ([]domain.Card, bool) {
	rankMap := make(map[int32][]domain.Card)
	var ranks []int
	for _, c := range pool {
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
		return nil, false
	}
	straight := make([]domain.Card, 0, length)
	for k := 0; k < length; k++ {
		group := rankMap[int32(ranks[start+k])]
		domain.SortByPower(group)
		straight = append(straight, group[0])
	}
	return straight, true
}

// takeOnePine finds the longest run of 3+ consecutive pairs, using the two
// lowest cards of each rank.
func takeOnePine(pool []domain.Card) ([]domain.Card, bool) {
	if len(pool) < 6 {
		return nil, false
	}
	rankMap := make(map[int32][]domain.Card)
	for _, c := range pool {
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
		return nil, false
	}
	pine := make([]domain.Card, 0, length*2)
	for k := 0; k < length; k++ {
		group := rankMap[int32(ranks[start+k])]
		domain.SortByPower(group)
		pine = append(pine, group[0], group[1])
	}
	return pine, true
}

// extractSetCombos splits the remaining pool into triples, pairs and trash.
func extractSetCombos(pool []domain.Card) (triples, pairs []domain.Combination, rest []domain.Card) {
	rankMap := make(map[int32][]domain.Card)
	var order []int32
	for _, c := range pool {
		if _, ok := rankMap[c.Rank]; !ok {
			order = append(order, c.Rank)
		}
		rankMap[c.Rank] = append(rankMap[c.Rank], c)
	}

	for _, r := range order {
		group := rankMap[r]
		switch len(group) {
		case 3:
			triples = append(triples, domain.Classify(group))
		case 2:
			pairs = append(pairs, domain.Classify(group))
		default:
			rest = append(rest, group...)
		}
	}
	return triples, pairs, rest
}

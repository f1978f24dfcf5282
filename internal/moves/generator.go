// Package moves enumerates the legal plays for a hand. The same enumeration
// backs bot decision-making and client-side move highlighting, so generation
// is fully deterministic: a fixed hand and table state always produce the
// same moves in the same order.
package moves

import (
	"thirteen/internal/domain"
)

// Move is one legal play. Cards are sorted by power.
type Move struct {
	Cards []domain.Card
}

// Generate returns every legal move for hand against last. An Invalid last
// combination means the hand is leading and may open with any shape.
func Generate(hand []domain.Card, last domain.Combination) []Move {
	sorted := make([]domain.Card, len(hand))
	copy(sorted, hand)
	domain.SortByPower(sorted)

	if last.Type == domain.Invalid {
		var out []Move
		out = append(out, allSingles(sorted)...)
		out = append(out, allOfAKind(sorted, 2)...)
		out = append(out, allOfAKind(sorted, 3)...)
		out = append(out, allOfAKind(sorted, 4)...)
		out = append(out, allStraights(sorted)...)
		out = append(out, allPines(sorted)...)
		return out
	}

	var out []Move
	switch last.Type {
	case domain.Single:
		out = append(out, beating(allSingles(sorted), last)...)
	case domain.Pair:
		out = append(out, beating(allOfAKind(sorted, 2), last)...)
	case domain.Triple:
		out = append(out, beating(allOfAKind(sorted, 3), last)...)
	case domain.Straight:
		out = append(out, beatingStraights(sorted, last)...)
	case domain.Bomb:
		// Same-shape answers are covered by the chop scan below.
	}

	// Bombs and pines may answer regardless of type or length.
	out = append(out, choppers(sorted, last)...)
	return out
}

func beating(candidates []Move, last domain.Combination) []Move {
	var out []Move
	for _, m := range candidates {
		if domain.CanBeat(last, domain.Classify(m.Cards)) {
			out = append(out, m)
		}
	}
	return out
}

func allSingles(sorted []domain.Card) []Move {
	out := make([]Move, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, Move{Cards: []domain.Card{c}})
	}
	return out
}

// allOfAKind emits every size-n same-rank subset, in power order.
func allOfAKind(sorted []domain.Card, n int) []Move {
	var out []Move
	for _, group := range rankGroups(sorted) {
		if len(group) < n {
			continue
		}
		out = append(out, chooseN(group, n)...)
	}
	return out
}

// chooseN returns all n-card subsets of a same-rank group, preserving order.
func chooseN(group []domain.Card, n int) []Move {
	var out []Move
	var rec func(start int, picked []domain.Card)
	rec = func(start int, picked []domain.Card) {
		if len(picked) == n {
			move := make([]domain.Card, n)
			copy(move, picked)
			out = append(out, Move{Cards: move})
			return
		}
		for i := start; i < len(group); i++ {
			rec(i+1, append(picked, group[i]))
		}
	}
	rec(0, nil)
	return out
}

// rankGroups splits a sorted hand into per-rank groups, ascending by rank.
func rankGroups(sorted []domain.Card) [][]domain.Card {
	var groups [][]domain.Card
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].Rank == sorted[i].Rank {
			j++
		}
		groups = append(groups, sorted[i:j])
		i = j
	}
	return groups
}

// allStraights emits one straight per rank window of length >= 3, choosing
// the lowest card of each rank to keep high suits free. 2s never join a
// straight.
func allStraights(sorted []domain.Card) []Move {
	groups := rankGroups(sorted)

	// Drop twos before windowing.
	n := 0
	for _, g := range groups {
		if g[0].Rank != domain.RankTwo {
			groups[n] = g
			n++
		}
	}
	groups = groups[:n]

	var out []Move
	for i := 0; i < len(groups); i++ {
		for length := 3; i+length <= len(groups); length++ {
			consecutive := true
			for k := 1; k < length; k++ {
				if groups[i+k][0].Rank != groups[i+k-1][0].Rank+1 {
					consecutive = false
					break
				}
			}
			if !consecutive {
				break
			}
			straight := make([]domain.Card, 0, length)
			for k := 0; k < length; k++ {
				straight = append(straight, groups[i+k][0])
			}
			out = append(out, Move{Cards: straight})
		}
	}
	return out
}

func beatingStraights(sorted []domain.Card, last domain.Combination) []Move {
	var out []Move
	for _, m := range allStraights(sorted) {
		if len(m.Cards) != last.Count {
			continue
		}
		if domain.CanBeat(last, domain.Classify(m.Cards)) {
			out = append(out, m)
		}
	}
	return out
}

// allPines emits one pine per pair-rank window of length >= 3, using the two
// lowest cards of each rank.
func allPines(sorted []domain.Card) []Move {
	if len(sorted) < 6 {
		return nil
	}

	var pairGroups [][]domain.Card
	for _, g := range rankGroups(sorted) {
		if len(g) >= 2 && g[0].Rank != domain.RankTwo {
			pairGroups = append(pairGroups, g[:2])
		}
	}

	var out []Move
	for i := 0; i < len(pairGroups); i++ {
		for length := 3; i+length <= len(pairGroups); length++ {
			consecutive := true
			for k := 1; k < length; k++ {
				if pairGroups[i+k][0].Rank != pairGroups[i+k-1][0].Rank+1 {
					consecutive = false
					break
				}
			}
			if !consecutive {
				break
			}
			pineCards := make([]domain.Card, 0, length*2)
			for k := 0; k < length; k++ {
				pineCards = append(pineCards, pairGroups[i+k]...)
			}
			out = append(out, Move{Cards: pineCards})
		}
	}
	return out
}

// choppers returns every quad and pine in the hand that beats last via the
// chop table, regardless of type or length mismatch.
func choppers(sorted []domain.Card, last domain.Combination) []Move {
	var out []Move
	bombs := append(allOfAKind(sorted, 4), allPines(sorted)...)
	for _, m := range bombs {
		if domain.CanBeat(last, domain.Classify(m.Cards)) {
			out = append(out, m)
		}
	}
	return out
}

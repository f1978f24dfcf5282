package domain

// ComboType is the shape of a played set of cards.
type ComboType int

const (
	Invalid ComboType = iota
	Single
	Pair
	Triple
	Straight
	// Bomb covers quads and runs of 3+ consecutive pairs ("pines").
	Bomb
)

// ChopKind distinguishes the two legal chop situations.
type ChopKind int

const (
	ChopNone ChopKind = iota
	// ChopTwo captures a single or pair of 2s with a bomb.
	ChopTwo
	// ChopBomb beats a quad or a shorter pine with a stronger bomb.
	ChopBomb
)

// Combination is the classified form of a set of cards. Callers obtain one
// from Classify and never construct it by hand.
type Combination struct {
	Type  ComboType
	Cards []Card // sorted by power
	Value int32  // power of the highest card
	Count int
}

// Classify analyzes cards and returns the combination they form, or an
// Invalid combination if they form none. The input slice is not modified.
func Classify(cards []Card) Combination {
	n := len(cards)
	if n == 0 {
		return Combination{Type: Invalid}
	}

	sorted := make([]Card, n)
	copy(sorted, cards)
	SortByPower(sorted)

	if n == 1 {
		return Combination{Type: Single, Cards: sorted, Value: Power(sorted[0]), Count: 1}
	}

	if allSameRank(sorted) {
		val := Power(sorted[n-1])
		switch n {
		case 2:
			return Combination{Type: Pair, Cards: sorted, Value: val, Count: 2}
		case 3:
			return Combination{Type: Triple, Cards: sorted, Value: val, Count: 3}
		case 4:
			return Combination{Type: Bomb, Cards: sorted, Value: val, Count: 4}
		}
		return Combination{Type: Invalid}
	}

	if isStraight(sorted) {
		return Combination{Type: Straight, Cards: sorted, Value: Power(sorted[n-1]), Count: n}
	}

	if isPine(sorted) {
		return Combination{Type: Bomb, Cards: sorted, Value: Power(sorted[n-1]), Count: n}
	}

	return Combination{Type: Invalid}
}

// CanBeat reports whether cand legally beats prev. Same-type, same-count
// combinations compare by Value. Bombs additionally chop per the fixed
// strength table: longer pines beat quads and shorter pines, quads and pines
// beat lone or paired 2s. Everything else is illegal.
func CanBeat(prev, cand Combination) bool {
	if prev.Type == Invalid || cand.Type == Invalid {
		return false
	}

	if cand.Type == Bomb {
		if beatsByChop(prev, cand) {
			return true
		}
		// Same bomb shape compares by value.
		if prev.Type == Bomb && bombLength(prev) == bombLength(cand) && isQuad(prev) == isQuad(cand) {
			return cand.Value > prev.Value
		}
		return false
	}

	if prev.Type != cand.Type || prev.Count != cand.Count {
		return false
	}
	return cand.Value > prev.Value
}

// DetectChop reports whether cand played over prev is a chop, and of which
// kind. It answers independently of whether the chop actually wins, so the
// decision engine can reward genuine chopping plays only.
func DetectChop(prev, cand Combination) (bool, ChopKind) {
	if cand.Type != Bomb || prev.Type == Invalid {
		return false, ChopNone
	}
	if isTwoSingleOrPair(prev) {
		return true, ChopTwo
	}
	if prev.Type == Bomb && CanBeat(prev, cand) {
		return true, ChopBomb
	}
	return false, ChopNone
}

// beatsByChop applies the cross-type strength table. Pines order by pair
// count first, then quads sit between 3-pines and 4-pines.
func beatsByChop(prev, cand Combination) bool {
	if cand.Type != Bomb {
		return false
	}

	candQuad := isQuad(cand)
	candPairs := bombLength(cand)

	if isTwoSingleOrPair(prev) {
		// A bare 3-pine chops only a single 2; everything stronger chops
		// the pair of 2s as well.
		if prev.Count == 1 {
			return true
		}
		return candQuad || candPairs >= 4
	}

	if prev.Type != Bomb {
		return false
	}

	prevQuad := isQuad(prev)
	prevPairs := bombLength(prev)

	switch {
	case candQuad && !prevQuad:
		return prevPairs == 3 // quad beats a 3-pine only
	case !candQuad && prevQuad:
		return candPairs >= 4 // 4-pine and up beat a quad
	case !candQuad && !prevQuad:
		return candPairs > prevPairs
	}
	return false
}

func isQuad(c Combination) bool {
	return c.Type == Bomb && c.Count == 4 && allSameRank(c.Cards)
}

// bombLength returns the pair count of a pine, or 0 for quads and non-bombs.
func bombLength(c Combination) int {
	if c.Type != Bomb || isQuad(c) {
		return 0
	}
	return c.Count / 2
}

func isTwoSingleOrPair(c Combination) bool {
	switch c.Type {
	case Single:
		return c.Cards[0].Rank == RankTwo
	case Pair:
		return c.Cards[0].Rank == RankTwo
	}
	return false
}

func allSameRank(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	r := cards[0].Rank
	for _, c := range cards[1:] {
		if c.Rank != r {
			return false
		}
	}
	return true
}

// isStraight expects cards sorted by power: 3+ consecutive ranks, no
// duplicates, no 2s.
func isStraight(cards []Card) bool {
	if len(cards) < 3 {
		return false
	}
	for i, c := range cards {
		if c.Rank == RankTwo {
			return false
		}
		if i > 0 && c.Rank != cards[i-1].Rank+1 {
			return false
		}
	}
	return true
}

// isPine expects cards sorted by power: 3+ consecutive same-rank pairs, no 2s.
func isPine(cards []Card) bool {
	if len(cards) < 6 || len(cards)%2 != 0 {
		return false
	}
	for i := 0; i < len(cards); i += 2 {
		if cards[i].Rank == RankTwo {
			return false
		}
		if cards[i].Rank != cards[i+1].Rank {
			return false
		}
		if i > 0 && cards[i].Rank != cards[i-2].Rank+1 {
			return false
		}
	}
	return true
}

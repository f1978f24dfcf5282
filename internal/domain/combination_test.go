package domain

import (
	"testing"
)

// pine builds n consecutive pairs starting at rank start.
func pine(start int32, pairs int) []Card {
	out := make([]Card, 0, pairs*2)
	for i := 0; i < pairs; i++ {
		out = append(out,
			Card{Rank: start + int32(i), Suit: SuitSpades},
			Card{Rank: start + int32(i), Suit: SuitClubs},
		)
	}
	return out
}

// quad builds four of a kind at the given rank.
func quad(rank int32) []Card {
	return []Card{
		{Rank: rank, Suit: SuitSpades},
		{Rank: rank, Suit: SuitClubs},
		{Rank: rank, Suit: SuitDiamonds},
		{Rank: rank, Suit: SuitHearts},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		cards    []Card
		expected ComboType
	}{
		{"single", []Card{{Rank: RankThree, Suit: SuitSpades}}, Single},
		{"pair", []Card{{Rank: RankThree, Suit: SuitSpades}, {Rank: RankThree, Suit: SuitClubs}}, Pair},
		{"triple", []Card{{Rank: RankThree, Suit: SuitSpades}, {Rank: RankThree, Suit: SuitClubs}, {Rank: RankThree, Suit: SuitDiamonds}}, Triple},
		{"quad is a bomb", quad(RankThree), Bomb},
		{"straight of three", []Card{{Rank: RankThree, Suit: SuitSpades}, {Rank: RankFour, Suit: SuitClubs}, {Rank: RankFive, Suit: SuitDiamonds}}, Straight},
		{"three consecutive pairs", pine(RankThree, 3), Bomb},
		{"four consecutive pairs", pine(RankFour, 4), Bomb},
		{"empty", nil, Invalid},
		{"mixed ranks", []Card{{Rank: RankThree, Suit: SuitSpades}, {Rank: RankFive, Suit: SuitClubs}}, Invalid},
		{"straight containing a two", []Card{{Rank: RankKing, Suit: SuitSpades}, {Rank: RankAce, Suit: SuitClubs}, {Rank: RankTwo, Suit: SuitDiamonds}}, Invalid},
		{"pine containing twos", append(pine(RankKing, 2), pine(RankTwo, 1)...), Invalid},
		{"non-consecutive pairs", append(pine(RankThree, 1), append(pine(RankFive, 1), pine(RankSix, 1)...)...), Invalid},
		{"five of a kind impossible shape", append(quad(RankThree), Card{Rank: RankThree, Suit: SuitSpades}), Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.cards)
			if got.Type != tt.expected {
				t.Errorf("Classify().Type = %v, want %v", got.Type, tt.expected)
			}
		})
	}
}

func TestClassifyValueIsHighestPower(t *testing.T) {
	combo := Classify([]Card{
		{Rank: RankFour, Suit: SuitHearts},
		{Rank: RankFive, Suit: SuitSpades},
		{Rank: RankThree, Suit: SuitSpades},
	})
	if combo.Type != Straight {
		t.Fatalf("type = %v, want Straight", combo.Type)
	}
	want := Power(Card{Rank: RankFive, Suit: SuitSpades})
	if combo.Value != want {
		t.Errorf("value = %d, want %d", combo.Value, want)
	}
	if combo.Count != 3 {
		t.Errorf("count = %d, want 3", combo.Count)
	}
}

// TestCanBeatChopTable exercises every ordered pair of combination kinds that
// can legally face off under the chop rules, both directions.
func TestCanBeatChopTable(t *testing.T) {
	singleTwo := []Card{{Rank: RankTwo, Suit: SuitSpades}}
	pairTwo := []Card{{Rank: RankTwo, Suit: SuitSpades}, {Rank: RankTwo, Suit: SuitClubs}}

	tests := []struct {
		name     string
		prev     []Card
		cand     []Card
		expected bool
	}{
		// Quad chops.
		{"quad beats single 2", singleTwo, quad(RankThree), true},
		{"quad beats pair of 2s", pairTwo, quad(RankThree), true},
		{"quad beats 3-pine", pine(RankTen, 3), quad(RankThree), true},
		{"higher quad beats lower quad", quad(RankThree), quad(RankFour), true},
		{"lower quad loses to higher quad", quad(RankFour), quad(RankThree), false},
		{"quad does not beat 4-pine", pine(RankThree, 4), quad(RankAce), false},
		{"quad does not beat 5-pine", pine(RankThree, 5), quad(RankAce), false},

		// 3-pine chops.
		{"3-pine beats single 2", singleTwo, pine(RankThree, 3), true},
		{"3-pine does not beat pair of 2s", pairTwo, pine(RankThree, 3), false},
		{"3-pine does not beat quad", quad(RankThree), pine(RankJack, 3), false},
		{"higher 3-pine beats lower 3-pine", pine(RankThree, 3), pine(RankFour, 3), true},
		{"lower 3-pine loses to higher 3-pine", pine(RankFour, 3), pine(RankThree, 3), false},

		// 4-pine chops.
		{"4-pine beats single 2", singleTwo, pine(RankThree, 4), true},
		{"4-pine beats pair of 2s", pairTwo, pine(RankThree, 4), true},
		{"4-pine beats quad", quad(RankAce), pine(RankThree, 4), true},
		{"4-pine beats 3-pine", pine(RankJack, 3), pine(RankThree, 4), true},
		{"higher 4-pine beats lower 4-pine", pine(RankThree, 4), pine(RankFour, 4), true},
		{"4-pine does not beat 5-pine", pine(RankThree, 5), pine(RankEight, 4), false},

		// 5-pine chops.
		{"5-pine beats single 2", singleTwo, pine(RankThree, 5), true},
		{"5-pine beats pair of 2s", pairTwo, pine(RankThree, 5), true},
		{"5-pine beats quad", quad(RankAce), pine(RankThree, 5), true},
		{"5-pine beats 3-pine", pine(RankJack, 3), pine(RankThree, 5), true},
		{"5-pine beats 4-pine", pine(RankNine, 4), pine(RankThree, 5), true},
		{"higher 5-pine beats lower 5-pine", pine(RankThree, 5), pine(RankFour, 5), true},

		// Reversals that must all fail.
		{"single 2 does not beat quad", quad(RankThree), singleTwo, false},
		{"pair of 2s does not beat quad", quad(RankThree), pairTwo, false},
		{"single 2 does not beat 3-pine", pine(RankThree, 3), singleTwo, false},
		{"single 2 does not beat 5-pine", pine(RankThree, 5), singleTwo, false},

		// No chop against ordinary combinations.
		{"quad does not beat a low single", []Card{{Rank: RankThree, Suit: SuitSpades}}, quad(RankFour), false},
		{"3-pine does not beat an ace single", []Card{{Rank: RankAce, Suit: SuitSpades}}, pine(RankThree, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Classify(tt.prev)
			cand := Classify(tt.cand)
			if got := CanBeat(prev, cand); got != tt.expected {
				t.Errorf("CanBeat() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCanBeatStandardComparisons(t *testing.T) {
	tests := []struct {
		name     string
		prev     []Card
		cand     []Card
		expected bool
	}{
		{"higher single wins", []Card{{Rank: RankThree, Suit: SuitSpades}}, []Card{{Rank: RankThree, Suit: SuitClubs}}, true},
		{"lower single loses", []Card{{Rank: RankThree, Suit: SuitClubs}}, []Card{{Rank: RankThree, Suit: SuitSpades}}, false},
		{"higher suit pair wins", pine(RankFive, 1), []Card{{Rank: RankFive, Suit: SuitDiamonds}, {Rank: RankFive, Suit: SuitHearts}}, true},
		{"pair cannot answer single", []Card{{Rank: RankThree, Suit: SuitSpades}}, pine(RankFive, 1), false},
		{"longer straight cannot answer shorter", []Card{{Rank: RankThree, Suit: SuitSpades}, {Rank: RankFour, Suit: SuitSpades}, {Rank: RankFive, Suit: SuitSpades}}, []Card{{Rank: RankSix, Suit: SuitSpades}, {Rank: RankSeven, Suit: SuitSpades}, {Rank: RankEight, Suit: SuitSpades}, {Rank: RankNine, Suit: SuitSpades}}, false},
		{"equal straight higher top wins", []Card{{Rank: RankThree, Suit: SuitSpades}, {Rank: RankFour, Suit: SuitSpades}, {Rank: RankFive, Suit: SuitSpades}}, []Card{{Rank: RankFour, Suit: SuitClubs}, {Rank: RankFive, Suit: SuitClubs}, {Rank: RankSix, Suit: SuitClubs}}, true},
		{"triple vs triple by rank", []Card{{Rank: RankNine, Suit: SuitSpades}, {Rank: RankNine, Suit: SuitClubs}, {Rank: RankNine, Suit: SuitDiamonds}}, []Card{{Rank: RankTen, Suit: SuitSpades}, {Rank: RankTen, Suit: SuitClubs}, {Rank: RankTen, Suit: SuitDiamonds}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanBeat(Classify(tt.prev), Classify(tt.cand)); got != tt.expected {
				t.Errorf("CanBeat() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDetectChop(t *testing.T) {
	tests := []struct {
		name     string
		prev     []Card
		cand     []Card
		isChop   bool
		kind     ChopKind
	}{
		{"quad over single 2", []Card{{Rank: RankTwo, Suit: SuitHearts}}, quad(RankThree), true, ChopTwo},
		{"pine over pair of 2s", []Card{{Rank: RankTwo, Suit: SuitSpades}, {Rank: RankTwo, Suit: SuitClubs}}, pine(RankThree, 4), true, ChopTwo},
		{"4-pine over quad", quad(RankAce), pine(RankThree, 4), true, ChopBomb},
		{"higher quad over quad", quad(RankThree), quad(RankFour), true, ChopBomb},
		{"single over single is no chop", []Card{{Rank: RankThree, Suit: SuitSpades}}, []Card{{Rank: RankFour, Suit: SuitSpades}}, false, ChopNone},
		{"quad over plain single is no chop", []Card{{Rank: RankAce, Suit: SuitSpades}}, quad(RankThree), false, ChopNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotChop, gotKind := DetectChop(Classify(tt.prev), Classify(tt.cand))
			if gotChop != tt.isChop || gotKind != tt.kind {
				t.Errorf("DetectChop() = (%v, %v), want (%v, %v)", gotChop, gotKind, tt.isChop, tt.kind)
			}
		})
	}
}

package bot

import (
	"testing"

	"thirteen/internal/domain"
)

func TestGoodStrategyLeadsCheapestMove(t *testing.T) {
	hands := [domain.NumSeats][]domain.Card{
		{
			c(domain.RankSeven, domain.SuitHearts),
			c(domain.RankThree, domain.SuitSpades),
			c(domain.RankTwo, domain.SuitHearts),
		},
		{c(domain.RankFour, domain.SuitSpades)},
		nil, nil,
	}
	g := botGame(hands, 0, nil)

	move, err := NewGoodStrategy().CalculateMove(g, g.PlayerAt(0))
	if err != nil {
		t.Fatalf("CalculateMove: %v", err)
	}
	if move.Pass {
		t.Fatal("leading must not pass")
	}
	want := c(domain.RankThree, domain.SuitSpades)
	if len(move.Cards) != 1 || move.Cards[0] != want {
		t.Errorf("move = %+v, want the lone 3 of spades", move.Cards)
	}
}

func TestGoodStrategyBeatsWithCheapestAnswer(t *testing.T) {
	hands := [domain.NumSeats][]domain.Card{
		{
			c(domain.RankNine, domain.SuitSpades),
			c(domain.RankQueen, domain.SuitClubs),
			c(domain.RankTwo, domain.SuitHearts),
		},
		{c(domain.RankFour, domain.SuitSpades)},
		nil, nil,
	}
	g := botGame(hands, 0, []domain.Card{c(domain.RankEight, domain.SuitHearts)})

	move, err := NewGoodStrategy().CalculateMove(g, g.PlayerAt(0))
	if err != nil {
		t.Fatalf("CalculateMove: %v", err)
	}
	want := c(domain.RankNine, domain.SuitSpades)
	if move.Pass || len(move.Cards) != 1 || move.Cards[0] != want {
		t.Errorf("move = %+v, want the 9 of spades", move)
	}
}

func TestGoodStrategyPassesWhenNothingBeats(t *testing.T) {
	hands := [domain.NumSeats][]domain.Card{
		{c(domain.RankThree, domain.SuitSpades), c(domain.RankFour, domain.SuitSpades)},
		{c(domain.RankFive, domain.SuitSpades)},
		nil, nil,
	}
	g := botGame(hands, 0, []domain.Card{c(domain.RankTwo, domain.SuitHearts)})

	move, err := NewGoodStrategy().CalculateMove(g, g.PlayerAt(0))
	if err != nil {
		t.Fatalf("CalculateMove: %v", err)
	}
	if !move.Pass {
		t.Errorf("move = %+v, want a pass", move)
	}
}

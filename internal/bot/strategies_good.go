package bot

import (
	"sort"

	"thirteen/internal/app"
	"thirteen/internal/domain"
	"thirteen/internal/moves"
)

// GoodStrategy is the weakest difficulty: always play the cheapest legal
// move, keep nothing back. It holds no state between turns.
type GoodStrategy struct{}

// NewGoodStrategy returns the lowest difficulty strategy.
func NewGoodStrategy() *GoodStrategy { return &GoodStrategy{} }

func (s *GoodStrategy) CalculateMove(game *domain.Game, player *domain.Player) (Move, error) {
	if player == nil || len(player.Hand) == 0 {
		return Move{Pass: true}, nil
	}

	candidates := moves.Generate(player.Hand, game.LastCombo)
	if len(candidates) == 0 {
		return Move{Pass: true}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return domain.Classify(candidates[i].Cards).Value < domain.Classify(candidates[j].Cards).Value
	})
	return Move{Cards: candidates[0].Cards}, nil
}

// OnEvent is a no-op; this difficulty does not track the game.
func (s *GoodStrategy) OnEvent(app.Event, bool) {}

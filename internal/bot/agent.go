package bot

import (
	"thirteen/internal/app"
	"thirteen/internal/domain"
)

// Agent binds an identity and a seat to a strategy for the length of a
// match.
type Agent struct {
	Identity Identity
	Seat     int
	Strategy Strategy
}

// Act asks the agent for its move in the current game.
func (a *Agent) Act(game *domain.Game) (Move, error) {
	player := game.PlayerAt(a.Seat)
	if player == nil || len(player.Hand) == 0 {
		return Move{Pass: true}, nil
	}
	move, err := a.Strategy.CalculateMove(game, player)
	if err != nil {
		return Move{Pass: true}, err
	}
	return move, nil
}

// Observe forwards a game event to the strategy. privateRecipient is true
// when the event was addressed to this agent's seat alone.
func (a *Agent) Observe(ev app.Event, privateRecipient bool) {
	a.Strategy.OnEvent(ev, privateRecipient)
}

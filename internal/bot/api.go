// Package bot implements the computer players. A Strategy receives the same
// event stream a human client would and decides moves from nothing but that
// stream and the visible game state, so bots cannot cheat.
package bot

import (
	"thirteen/internal/app"
	"thirteen/internal/domain"
)

// Move is a strategy's decision: pass, or the cards to play.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// Strategy picks moves for one seat. OnEvent feeds the seat's event stream;
// privateRecipient marks events addressed to this seat alone, such as its
// dealt hand.
type Strategy interface {
	CalculateMove(game *domain.Game, player *domain.Player) (Move, error)
	OnEvent(ev app.Event, privateRecipient bool)
}

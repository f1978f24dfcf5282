package app

import "errors"

// Action errors form a closed taxonomy. Every action validates all of its
// preconditions before touching game state, so a returned error always means
// the game is unchanged and the client may retry with a corrected action.
var (
	ErrTooFewPlayers  = errors.New("not enough occupied seats to start")
	ErrNotPlaying     = errors.New("game is not in the playing phase")
	ErrUnknownPlayer  = errors.New("no player at that seat")
	ErrPlayerFinished = errors.New("player has already finished")
	ErrNotYourTurn    = errors.New("not this seat's turn")
	ErrInvalidPlay    = errors.New("cards do not form a playable combination")
	ErrCardsNotInHand = errors.New("cards are not all in the player's hand")
	ErrCannotBeat     = errors.New("combination does not beat the table")
)

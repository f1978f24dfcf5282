package app

import "thirteen/internal/domain"

// EventKind identifies an emitted game event for host dispatch.
type EventKind string

const (
	EventGameStarted    EventKind = "game_started"
	EventCardPlayed     EventKind = "card_played"
	EventTurnPassed     EventKind = "turn_passed"
	EventPlayerFinished EventKind = "player_finished"
	EventGameEnded      EventKind = "game_ended"
)

// Payload is the variant-specific body of an Event. The interface is sealed
// so each kind carries exactly one payload type and the host can switch
// exhaustively over the concrete types.
type Payload interface {
	kind() EventKind
}

// Event is one ordered outcome of an action. The host delivers it to the
// seats in RecipientSeats, or to everyone when the list is empty.
type Event struct {
	Kind           EventKind
	Payload        Payload
	RecipientSeats []int
}

func newEvent(p Payload, recipients ...int) Event {
	return Event{Kind: p.kind(), Payload: p, RecipientSeats: recipients}
}

// GameStartedPayload is sent once per occupied seat. Hand is private to the
// recipient seat; the host must not broadcast it.
type GameStartedPayload struct {
	Seat          int
	Hand          []domain.Card
	FirstTurnSeat int
}

func (GameStartedPayload) kind() EventKind { return EventGameStarted }

// CardPlayedPayload announces a successful play. NewRound is set when the
// play opened on an empty table.
type CardPlayedPayload struct {
	Seat         int
	Cards        []domain.Card
	NextTurnSeat int
	NewRound     bool
}

func (CardPlayedPayload) kind() EventKind { return EventCardPlayed }

// TurnPassedPayload announces a pass. NewRound is set when the pass closed
// the round and cleared the table.
type TurnPassedPayload struct {
	Seat         int
	NextTurnSeat int
	NewRound     bool
}

func (TurnPassedPayload) kind() EventKind { return EventTurnPassed }

// PlayerFinishedPayload announces a seat emptying its hand. Rank is the
// 1-based finishing position.
type PlayerFinishedPayload struct {
	Seat int
	Rank int
}

func (PlayerFinishedPayload) kind() EventKind { return EventPlayerFinished }

// GameEndedPayload carries the final standings and settled balance deltas
// keyed by user ID. Tax has already been deducted from positive deltas.
type GameEndedPayload struct {
	FinishOrderSeats []int
	BalanceChanges   map[string]int64
}

func (GameEndedPayload) kind() EventKind { return EventGameEnded }

package nakama

import (
	"encoding/json"
	"fmt"

	"thirteen/internal/app"
	"thirteen/internal/domain"
)

// Wire DTOs. Match messages and the label are plain JSON so clients and the
// quick-match label query can consume them without generated code.

type wireCard struct {
	Rank int32 `json:"rank"`
	Suit int32 `json:"suit"`
}

func toWireCards(cards []domain.Card) []wireCard {
	out := make([]wireCard, len(cards))
	for i, c := range cards {
		out[i] = wireCard{Rank: c.Rank, Suit: c.Suit}
	}
	return out
}

func fromWireCards(cards []wireCard) []domain.Card {
	out := make([]domain.Card, len(cards))
	for i, c := range cards {
		out[i] = domain.Card{Rank: c.Rank, Suit: c.Suit}
	}
	return out
}

// startGameRequest is the OpStartGame body. Tier is optional; the match
// default applies when empty.
type startGameRequest struct {
	Tier string `json:"tier"`
}

// playCardsRequest is the OpPlayCards body.
type playCardsRequest struct {
	Cards []wireCard `json:"cards"`
}

// playerSnapshot is one seat in a matchSnapshot.
type playerSnapshot struct {
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	IsOwner        bool   `json:"is_owner"`
	IsBot          bool   `json:"is_bot"`
	DisplayName    string `json:"display_name"`
	AvatarIndex    int    `json:"avatar_index"`
	CardsRemaining int    `json:"cards_remaining"`
	Balance        int64  `json:"balance"`
}

// matchSnapshot is broadcast on OpMatchState whenever seating changes.
type matchSnapshot struct {
	OwnerSeat int              `json:"owner_seat"`
	Phase     string           `json:"phase"`
	Tier      string           `json:"tier"`
	Players   []playerSnapshot `json:"players"`
}

type gameStartedMessage struct {
	Seat          int        `json:"seat"`
	Hand          []wireCard `json:"hand"`
	FirstTurnSeat int        `json:"first_turn_seat"`
}

type cardPlayedMessage struct {
	Seat         int        `json:"seat"`
	Cards        []wireCard `json:"cards"`
	NextTurnSeat int        `json:"next_turn_seat"`
	NewRound     bool       `json:"new_round"`
}

type turnPassedMessage struct {
	Seat         int  `json:"seat"`
	NextTurnSeat int  `json:"next_turn_seat"`
	NewRound     bool `json:"new_round"`
}

type playerFinishedMessage struct {
	Seat int `json:"seat"`
	Rank int `json:"rank"`
}

type gameEndedMessage struct {
	FinishOrderSeats []int            `json:"finish_order_seats"`
	BalanceChanges   map[string]int64 `json:"balance_changes"`
}

type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type turnClockMessage struct {
	Seat             int `json:"seat"`
	SecondsRemaining int `json:"seconds_remaining"`
}

// matchLabel is the JSON the quick-match query filters on.
type matchLabel struct {
	Game  string `json:"game"`
	Open  int    `json:"open"`
	Phase string `json:"phase"`
	Tier  string `json:"tier"`
}

const labelGameName = "thirteen"

func marshalLabel(open int, phase, tier string) (string, error) {
	b, err := json.Marshal(matchLabel{Game: labelGameName, Open: open, Phase: phase, Tier: tier})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// encodeEvent maps an app event to its opcode and JSON body.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	var (
		opCode int64
		body   interface{}
	)

	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		opCode = OpGameStarted
		body = gameStartedMessage{Seat: p.Seat, Hand: toWireCards(p.Hand), FirstTurnSeat: p.FirstTurnSeat}
	case app.CardPlayedPayload:
		opCode = OpCardPlayed
		body = cardPlayedMessage{Seat: p.Seat, Cards: toWireCards(p.Cards), NextTurnSeat: p.NextTurnSeat, NewRound: p.NewRound}
	case app.TurnPassedPayload:
		opCode = OpTurnPassed
		body = turnPassedMessage{Seat: p.Seat, NextTurnSeat: p.NextTurnSeat, NewRound: p.NewRound}
	case app.PlayerFinishedPayload:
		opCode = OpPlayerFinished
		body = playerFinishedMessage{Seat: p.Seat, Rank: p.Rank}
	case app.GameEndedPayload:
		opCode = OpGameEnded
		body = gameEndedMessage{FinishOrderSeats: p.FinishOrderSeats, BalanceChanges: p.BalanceChanges}
	default:
		return 0, nil, fmt.Errorf("unhandled event kind %q", ev.Kind)
	}

	bytes, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal %s event: %w", ev.Kind, err)
	}
	return opCode, bytes, nil
}

package bot

import "thirteen/internal/domain"

func c(rank, suit int32) domain.Card { return domain.Card{Rank: rank, Suit: suit} }

// botGame assembles a playing-phase game with fixed hands. Nil hands leave
// the seat empty.
func botGame(hands [domain.NumSeats][]domain.Card, turnSeat int, last []domain.Card) *domain.Game {
	g := &domain.Game{
		Phase:           domain.PhasePlaying,
		LastCombo:       domain.Combination{Type: domain.Invalid},
		LastPlaySeat:    -1,
		CurrentTurnSeat: turnSeat,
	}
	if len(last) > 0 {
		g.LastCombo = domain.Classify(last)
	}
	for seat, hand := range hands {
		if hand == nil {
			continue
		}
		g.Seats[seat] = &domain.Player{
			UserID: "u" + string(rune('a'+seat)),
			Seat:   seat,
			Hand:   append([]domain.Card(nil), hand...),
		}
	}
	return g
}

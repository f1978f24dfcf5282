// Package brain holds the card-counting memory and probabilistic estimates
// behind the strongest bot difficulty.
package brain

import "thirteen/internal/domain"

// CardStatus is what the bot knows about one card's location.
type CardStatus int

const (
	StatusUnknown  CardStatus = iota // location unknown
	StatusMine                       // in the bot's own hand
	StatusPlayed                     // on the discard pile
	StatusOpponent                   // inferred to sit in an opponent's hand
)

// Memory is a bot's private view of one game: per-card location knowledge,
// per-seat behavioral profiles and the combination currently on the table.
type Memory struct {
	// Cards is indexed by power (Rank*4 + Suit).
	Cards [domain.DeckSize]CardStatus
	// Opponents is indexed by seat; the bot's own seat stays nil.
	Opponents [domain.NumSeats]*OpponentProfile
	// Table is the combination currently waiting to be beaten.
	Table domain.Combination
}

// NewMemory returns a memory ready for a fresh game from the given seat's
// point of view.
func NewMemory(ownSeat int) *Memory {
	m := &Memory{}
	for seat := 0; seat < domain.NumSeats; seat++ {
		if seat != ownSeat {
			m.Opponents[seat] = NewOpponentProfile(seat)
		}
	}
	m.Table = domain.Combination{Type: domain.Invalid}
	return m
}

// Reset wipes the memory for a new hand while keeping the seat layout.
func (m *Memory) Reset() {
	for i := range m.Cards {
		m.Cards[i] = StatusUnknown
	}
	for _, p := range m.Opponents {
		if p != nil {
			p.Reset()
		}
	}
	m.Table = domain.Combination{Type: domain.Invalid}
}

// MarkMine records the bot's dealt hand.
func (m *Memory) MarkMine(cards []domain.Card) {
	for _, c := range cards {
		m.Cards[domain.Power(c)] = StatusMine
	}
}

// ObservePlay records a play by any seat: the cards are gone from the game
// and they become the table combination. Plays by opponents also update the
// seat's profile.
func (m *Memory) ObservePlay(seat int, cards []domain.Card) {
	for _, c := range cards {
		m.Cards[domain.Power(c)] = StatusPlayed
	}
	m.Table = domain.Classify(cards)

	if p := m.profileAt(seat); p != nil {
		p.RecordPlay(m.Table)
		p.CardsRemaining -= len(cards)
		if p.CardsRemaining < 0 {
			p.CardsRemaining = 0
		}
	}
}

// ObservePass records that a seat declined to beat the table combination.
func (m *Memory) ObservePass(seat int) {
	if m.Table.Type == domain.Invalid {
		return
	}
	if p := m.profileAt(seat); p != nil {
		p.RecordFailure(m.Table)
	}
}

// ClearTable opens a new round.
func (m *Memory) ClearTable() {
	m.Table = domain.Combination{Type: domain.Invalid}
}

// IsBoss reports whether no live card outranks c.
func (m *Memory) IsBoss(c domain.Card) bool {
	for i := domain.Power(c) + 1; i < domain.DeckSize; i++ {
		if m.Cards[i] == StatusUnknown || m.Cards[i] == StatusOpponent {
			return false
		}
	}
	return true
}

// IsPlayed reports whether c is already on the discard pile.
func (m *Memory) IsPlayed(c domain.Card) bool {
	return m.Cards[domain.Power(c)] == StatusPlayed
}

func (m *Memory) profileAt(seat int) *OpponentProfile {
	if seat < 0 || seat >= domain.NumSeats {
		return nil
	}
	return m.Opponents[seat]
}

package brain

import "thirteen/internal/domain"

// OpponentProfile accumulates behavioral evidence about one seat.
type OpponentProfile struct {
	Seat           int
	CardsRemaining int
	// Weaknesses maps a combination type to the strongest value the seat
	// failed to beat.
	Weaknesses map[domain.ComboType]int32
	// PlayedStats counts combination types the seat has played.
	PlayedStats map[domain.ComboType]int
}

// NewOpponentProfile builds an empty profile for a seat.
func NewOpponentProfile(seat int) *OpponentProfile {
	p := &OpponentProfile{Seat: seat}
	p.Reset()
	return p
}

// Reset clears the profile for a new hand.
func (p *OpponentProfile) Reset() {
	p.CardsRemaining = 13
	p.Weaknesses = make(map[domain.ComboType]int32)
	p.PlayedStats = make(map[domain.ComboType]int)
}

// RecordPlay logs a combination the seat played.
func (p *OpponentProfile) RecordPlay(combo domain.Combination) {
	if combo.Type == domain.Invalid {
		return
	}
	p.PlayedStats[combo.Type]++
}

// RecordFailure logs that the seat could not, or chose not to, beat combo.
func (p *OpponentProfile) RecordFailure(combo domain.Combination) {
	if combo.Type == domain.Invalid {
		return
	}
	if cur, ok := p.Weaknesses[combo.Type]; !ok || combo.Value > cur {
		p.Weaknesses[combo.Type] = combo.Value
	}
}

// CanPossiblyBeat reports whether there is no evidence that the seat cannot
// answer combo. A seat that passed on a weaker value of the same type is
// assumed unable to beat anything at or above it.
func (p *OpponentProfile) CanPossiblyBeat(combo domain.Combination) bool {
	maxFailed, ok := p.Weaknesses[combo.Type]
	if !ok {
		return true
	}
	return combo.Value < maxFailed
}

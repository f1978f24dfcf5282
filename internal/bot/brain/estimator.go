package brain

import "thirteen/internal/domain"

// Estimator derives probabilistic judgements from a Memory.
type Estimator struct {
	Memory *Memory
}

// NewEstimator wraps a memory.
func NewEstimator(m *Memory) *Estimator {
	return &Estimator{Memory: m}
}

// BossCards returns the cards in hand that no live card outranks.
func (e *Estimator) BossCards(hand []domain.Card) []domain.Card {
	var bosses []domain.Card
	for _, c := range hand {
		if e.Memory.IsBoss(c) {
			bosses = append(bosses, c)
		}
	}
	return bosses
}

// LeadWinProbability estimates the chance that leading this single wins the
// round back, from the count of live higher cards.
func (e *Estimator) LeadWinProbability(c domain.Card) float64 {
	higherLive := 0
	for i := domain.Power(c) + 1; i < domain.DeckSize; i++ {
		if e.Memory.Cards[i] == StatusUnknown || e.Memory.Cards[i] == StatusOpponent {
			higherLive++
		}
	}
	if higherLive == 0 {
		return 1.0
	}
	return 1.0 / float64(higherLive+1)
}

// Dominance scores the hand's average power against the average power of all
// live cards, in [0, 1]. Above 0.5 means the hand is stronger than the field.
func (e *Estimator) Dominance(hand []domain.Card) float64 {
	if len(hand) == 0 {
		return 0.0
	}

	handPower := 0.0
	for _, c := range hand {
		handPower += float64(domain.Power(c))
	}
	avgHand := handPower / float64(len(hand))

	livePower := 0.0
	liveCount := 0
	for i, status := range e.Memory.Cards {
		if status == StatusUnknown || status == StatusOpponent {
			livePower += float64(i)
			liveCount++
		}
	}
	if liveCount == 0 {
		return 1.0
	}
	avgLive := livePower / float64(liveCount)
	return avgHand / (avgHand + avgLive)
}

// SafetyAgainstNext scores how likely the seats after mySeat are to fold
// against combo, based on their recorded weaknesses. 1.0 means every profiled
// seat has already failed at or below this value.
func (e *Estimator) SafetyAgainstNext(combo domain.Combination, mySeat int) float64 {
	if combo.Type == domain.Invalid {
		return 0.0
	}

	safety := 0.0
	checked := 0
	for i := 1; i < domain.NumSeats; i++ {
		seat := (mySeat + i) % domain.NumSeats
		p := e.Memory.Opponents[seat]
		if p == nil {
			continue
		}
		checked++
		if !p.CanPossiblyBeat(combo) {
			safety += 1.0
			continue
		}
		// One live threat caps the safety of everything behind it.
		break
	}
	if checked == 0 {
		return 0.0
	}
	return safety / float64(checked)
}

// TypeLikelihood estimates the probability that the seat still holds a
// playable combination of the given type, from hard card-count constraints
// and exhaustion heuristics.
func (e *Estimator) TypeLikelihood(seat int, comboType domain.ComboType) float64 {
	p := e.Memory.profileAt(seat)
	if p == nil {
		return 0.5
	}

	minCards := map[domain.ComboType]int{
		domain.Pair:     2,
		domain.Triple:   3,
		domain.Straight: 3,
		domain.Bomb:     4,
	}
	if need, ok := minCards[comboType]; ok && p.CardsRemaining < need {
		return 0.0
	}

	played := p.PlayedStats[comboType]
	switch comboType {
	case domain.Straight:
		if played >= 2 {
			return 0.1
		}
		if played == 1 {
			return 0.3
		}
	case domain.Pair:
		if played >= 4 {
			return 0.1
		}
		if played >= 3 {
			return 0.4
		}
	case domain.Bomb:
		if played >= 1 {
			return 0.05
		}
	}
	return 0.7
}

// CeilingScore rewards playing a high card that sits just under the next
// seat's known failure ceiling: strong enough to probably hold, without
// wasting a boss.
func (e *Estimator) CeilingScore(combo domain.Combination, mySeat int) float64 {
	next := (mySeat + 1) % domain.NumSeats
	p := e.Memory.Opponents[next]
	if p == nil {
		return 0.0
	}
	maxFailed, ok := p.Weaknesses[combo.Type]
	if !ok {
		return 0.0
	}
	if combo.Type == domain.Single && combo.Value >= highSinglePower && maxFailed > combo.Value {
		return 1.0
	}
	return 0.0
}

// highSinglePower is the power of the lowest "high" single, the 10 of
// spades.
const highSinglePower = 32

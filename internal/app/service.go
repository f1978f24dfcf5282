package app

import (
	"math/rand"
	"time"

	"thirteen/internal/domain"
)

// CardsPerHand is the deal size for every occupied seat.
const CardsPerHand = 13

// Service implements the game actions. It owns no state of its own beyond
// the rng and settlement policy; all game state lives in the *domain.Game
// passed to each action. Actions validate every precondition before mutating
// anything, so an error return leaves the game untouched.
type Service struct {
	rng     *rand.Rand
	settle  SettleFunc
	taxRate float64
}

// NewService builds a Service. A nil rng falls back to a time seed, a nil
// settle falls back to DefaultSettlement. taxRate is the fraction deducted
// from positive settlement deltas.
func NewService(rng *rand.Rand, settle SettleFunc, taxRate float64) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if settle == nil {
		settle = DefaultSettlement
	}
	return &Service{rng: rng, settle: settle, taxRate: taxRate}
}

// StartGame deals a fresh game for the given seats. Empty strings mark empty
// seats. lastWinnerSeat, when occupied, leads the first round; otherwise the
// holder of the lowest dealt card does.
func (s *Service) StartGame(seatUserIDs [domain.NumSeats]string, lastWinnerSeat int, baseBet int64) (*domain.Game, []Event, error) {
	occupied := 0
	for _, id := range seatUserIDs {
		if id != "" {
			occupied++
		}
	}
	if occupied < MinPlayersToStart {
		return nil, nil, ErrTooFewPlayers
	}

	game := &domain.Game{
		Phase:           domain.PhasePlaying,
		LastCombo:       domain.Combination{Type: domain.Invalid},
		LastPlaySeat:    -1,
		CurrentTurnSeat: -1,
		BaseBet:         baseBet,
	}

	deck := domain.ShuffleDeck(domain.NewDeck(), s.rng)
	next := 0
	for seat, id := range seatUserIDs {
		if id == "" {
			continue
		}
		hand := make([]domain.Card, CardsPerHand)
		copy(hand, deck[next:next+CardsPerHand])
		next += CardsPerHand
		domain.SortByPower(hand)
		game.Seats[seat] = &domain.Player{
			UserID: id,
			Seat:   seat,
			Hand:   hand,
		}
	}

	game.CurrentTurnSeat = s.firstTurnSeat(game, lastWinnerSeat)

	events := make([]Event, 0, occupied)
	for seat, p := range game.Seats {
		if p == nil {
			continue
		}
		events = append(events, newEvent(GameStartedPayload{
			Seat:          seat,
			Hand:          p.Hand,
			FirstTurnSeat: game.CurrentTurnSeat,
		}, seat))
	}
	return game, events, nil
}

// firstTurnSeat prefers the previous hand's winner; a fresh table goes to
// the lowest dealt card.
func (s *Service) firstTurnSeat(g *domain.Game, lastWinnerSeat int) int {
	if p := g.PlayerAt(lastWinnerSeat); p != nil {
		return lastWinnerSeat
	}
	best, bestPower := -1, int32(0)
	for seat, p := range g.Seats {
		if p == nil || len(p.Hand) == 0 {
			continue
		}
		low := domain.Power(domain.LowestCard(p.Hand))
		if best == -1 || low < bestPower {
			best, bestPower = seat, low
		}
	}
	return best
}

// PlayCards applies a play by the seat's player. Validation order: phase,
// seat occupancy, finished, turn, combination shape, hand ownership, then
// whether the combination beats the table.
func (s *Service) PlayCards(g *domain.Game, seat int, cards []domain.Card) ([]Event, error) {
	p, err := s.actor(g, seat)
	if err != nil {
		return nil, err
	}

	if len(cards) == 0 {
		return nil, ErrInvalidPlay
	}
	if !domain.ContainsAll(p.Hand, cards) {
		return nil, ErrCardsNotInHand
	}
	combo := domain.Classify(cards)
	if combo.Type == domain.Invalid {
		return nil, ErrInvalidPlay
	}
	leading := g.TableEmpty()
	if !leading && !domain.CanBeat(g.LastCombo, combo) {
		return nil, ErrCannotBeat
	}

	p.Hand = domain.RemoveCards(p.Hand, cards)
	g.Discards = append(g.Discards, combo.Cards...)
	g.LastCombo = combo
	g.LastPlaySeat = seat

	var events []Event

	if len(p.Hand) == 0 {
		p.Finished = true
		g.FinishOrder = append(g.FinishOrder, seat)
		events = append(events, newEvent(PlayerFinishedPayload{
			Seat: seat,
			Rank: len(g.FinishOrder),
		}))
	}

	if g.ActiveCount() <= 1 {
		played := newEvent(CardPlayedPayload{
			Seat:         seat,
			Cards:        combo.Cards,
			NextTurnSeat: -1,
			NewRound:     leading,
		})
		// The card_played announcement precedes the finish and end events.
		out := append([]Event{played}, events...)
		return append(out, s.endGame(g)), nil
	}

	// The actor wins the round outright when every other live seat has
	// already passed.
	next := g.NextEligibleSeat(seat, true)
	if next == seat || next == -1 {
		g.ClearTable()
		if next == -1 {
			next = g.NextEligibleSeat(seat, false)
		}
	}
	g.CurrentTurnSeat = next

	played := newEvent(CardPlayedPayload{
		Seat:         seat,
		Cards:        combo.Cards,
		NextTurnSeat: next,
		NewRound:     leading,
	})
	return append([]Event{played}, events...), nil
}

// PassTurn applies a pass. Passing on an empty table is rejected; the leader
// must play.
func (s *Service) PassTurn(g *domain.Game, seat int) ([]Event, error) {
	p, err := s.actor(g, seat)
	if err != nil {
		return nil, err
	}
	if g.TableEmpty() {
		return nil, ErrInvalidPlay
	}

	p.HasPassed = true

	var unpassed []int
	for i, pl := range g.Seats {
		if pl != nil && !pl.Finished && !pl.HasPassed {
			unpassed = append(unpassed, i)
		}
	}

	next := -1
	newRound := false
	switch len(unpassed) {
	case 0:
		// The round winner already finished and everyone else folded.
		g.ClearTable()
		next = g.NextEligibleSeat(g.LastPlaySeat, false)
		newRound = true
	case 1:
		g.ClearTable()
		next = unpassed[0]
		newRound = true
	default:
		next = g.NextEligibleSeat(seat, true)
	}
	g.CurrentTurnSeat = next

	return []Event{newEvent(TurnPassedPayload{
		Seat:         seat,
		NextTurnSeat: next,
		NewRound:     newRound,
	})}, nil
}

// TimeoutTurn resolves an expired turn clock. On an empty table the seat is
// forced to lead its lowest single; otherwise it passes.
func (s *Service) TimeoutTurn(g *domain.Game, seat int) ([]Event, error) {
	p, err := s.actor(g, seat)
	if err != nil {
		return nil, err
	}
	if g.TableEmpty() {
		low := domain.LowestCard(p.Hand)
		return s.PlayCards(g, seat, []domain.Card{low})
	}
	return s.PassTurn(g, seat)
}

// actor runs the shared action preconditions and returns the acting player.
func (s *Service) actor(g *domain.Game, seat int) (*domain.Player, error) {
	if g.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	p := g.PlayerAt(seat)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if g.CurrentTurnSeat != seat {
		return nil, ErrNotYourTurn
	}
	if p.Finished {
		return nil, ErrPlayerFinished
	}
	return p, nil
}

// endGame ranks any seat still holding cards, settles balances and applies
// the tax to positive deltas.
func (s *Service) endGame(g *domain.Game) Event {
	for seat, p := range g.Seats {
		if p != nil && !p.Finished {
			p.Finished = true
			g.FinishOrder = append(g.FinishOrder, seat)
		}
	}
	g.Phase = domain.PhaseEnded
	g.CurrentTurnSeat = -1

	deltas := s.settle(g)
	for id, d := range deltas {
		if d > 0 {
			deltas[id] = d - int64(float64(d)*s.taxRate)
		}
	}

	order := make([]int, len(g.FinishOrder))
	copy(order, g.FinishOrder)
	return newEvent(GameEndedPayload{
		FinishOrderSeats: order,
		BalanceChanges:   deltas,
	})
}

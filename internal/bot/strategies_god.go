package bot

import (
	"sort"

	"thirteen/internal/app"
	botinternal "thirteen/internal/bot/internal"
	"thirteen/internal/bot/brain"
	"thirteen/internal/domain"
	"thirteen/internal/moves"
)

// GodStrategy layers card counting on top of the standard scorer. It tracks
// every card it has seen, profiles opponents from their passes and uses boss
// knowledge to decide when a high card is an investment rather than a waste.
type GodStrategy struct {
	tuning botinternal.Tuning
	seat   int
	memory *brain.Memory
	est    *brain.Estimator
}

// Memory-derived score adjustments.
const (
	godFinishBonus     = 10000.0
	godBossSavePenalty = 10.0
	godBossSeizeBonus  = 20.0
	godBlockerFeedPen  = 100.0
	godBlockerBossBid  = 50.0
	godCeilingBonus    = 15.0
	godSafetyBonus     = 8.0
	godDroughtBonus    = 5.0
	godLeadWinBonus    = 6.0
	godPassThreshold   = -15.0
	godDominanceFloor  = 0.6
	blockerHandSize    = 3
	lowSinglePower     = 40
)

// NewGodStrategy builds the top difficulty for a seat.
func NewGodStrategy(tuning botinternal.Tuning, seat int) *GodStrategy {
	mem := brain.NewMemory(seat)
	return &GodStrategy{
		tuning: tuning,
		seat:   seat,
		memory: mem,
		est:    brain.NewEstimator(mem),
	}
}

func (s *GodStrategy) CalculateMove(game *domain.Game, player *domain.Player) (Move, error) {
	if player == nil || len(player.Hand) == 0 {
		return Move{Pass: true}, nil
	}

	candidates := moves.Generate(player.Hand, game.LastCombo)
	if len(candidates) == 0 {
		return Move{Pass: true}, nil
	}

	weights := s.tuning.ForPhase(botinternal.DetectPhase(game))
	blocker := botinternal.DetectThreat(game, player.Seat, blockerHandSize)
	scored := botinternal.BuildScoredMoves(player.Hand, candidates, game.LastCombo, weights, blocker)

	bosses := s.est.BossCards(player.Hand)
	dominance := s.est.Dominance(player.Hand)
	leading := game.LastCombo.Type == domain.Invalid

	type rated struct {
		sm     botinternal.ScoredMove
		isBoss bool
	}
	candidatesRated := make([]rated, 0, len(scored))
	for _, sm := range scored {
		score := sm.Score

		isBoss := sm.Combo.Type == domain.Single && containsCard(bosses, sm.Combo.Cards[0])

		if len(sm.Remaining) == 0 {
			score += godFinishBonus
		}

		if isBoss {
			// With a dominant hand the boss keeps more value in reserve,
			// unless someone is about to go out.
			if dominance > godDominanceFloor && !blocker && len(player.Hand) > blockerHandSize {
				score -= godBossSavePenalty
			} else {
				score += godBossSeizeBonus
			}
		}

		if blocker {
			if sm.Combo.Type == domain.Single && sm.Combo.Value < lowSinglePower {
				score -= godBlockerFeedPen
			}
			if isBoss {
				score += godBlockerBossBid
			}
		}

		score += s.opponentModelBonus(game, sm.Combo, leading)

		sm.Score = score
		candidatesRated = append(candidatesRated, rated{sm: sm, isBoss: isBoss})
	}

	sort.SliceStable(candidatesRated, func(i, j int) bool {
		a, b := candidatesRated[i], candidatesRated[j]
		if a.sm.Score != b.sm.Score {
			return a.sm.Score > b.sm.Score
		}
		// In blocker mode, or between bosses, the stronger card does the job.
		if blocker || a.isBoss {
			return a.sm.Combo.Value > b.sm.Combo.Value
		}
		return a.sm.Combo.Value < b.sm.Combo.Value
	})

	best := candidatesRated[0]
	if !leading && !best.isBoss {
		keepScore := botinternal.ScoreHand(player.Hand, weights)
		if best.sm.Score < keepScore+godPassThreshold {
			return Move{Pass: true}, nil
		}
	}
	return Move{Cards: best.sm.Move.Cards}, nil
}

// opponentModelBonus rates a combination against the belief model: plays
// that sit under a recorded failure ceiling, plays the following seats are
// known unable to answer, types the next seat looks exhausted of, and lead
// singles likely to win the table back.
func (s *GodStrategy) opponentModelBonus(game *domain.Game, combo domain.Combination, leading bool) float64 {
	bonus := godCeilingBonus * s.est.CeilingScore(combo, s.seat)
	bonus += godSafetyBonus * s.est.SafetyAgainstNext(combo, s.seat)
	if next := game.NextEligibleSeat(s.seat, true); next >= 0 && next != s.seat {
		bonus += godDroughtBonus * (1.0 - s.est.TypeLikelihood(next, combo.Type))
	}
	if leading && combo.Type == domain.Single {
		bonus += godLeadWinBonus * s.est.LeadWinProbability(combo.Cards[0])
	}
	return bonus
}

// OnEvent keeps the memory in sync with the visible event stream.
func (s *GodStrategy) OnEvent(ev app.Event, privateRecipient bool) {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		if privateRecipient {
			s.memory.Reset()
			s.memory.MarkMine(p.Hand)
		}
	case app.CardPlayedPayload:
		s.memory.ObservePlay(p.Seat, p.Cards)
	case app.TurnPassedPayload:
		s.memory.ObservePass(p.Seat)
		if p.NewRound {
			s.memory.ClearTable()
		}
	case app.GameEndedPayload:
		s.memory.Reset()
	}
}

func containsCard(cards []domain.Card, c domain.Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

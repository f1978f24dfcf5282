package internal

import (
	"thirteen/internal/domain"
	"thirteen/internal/moves"
)

// PhaseWeights tune move scoring for one phase of the hand.
type PhaseWeights struct {
	HandScoreWeight      float64
	StraightCardWeight   float64
	PineCardWeight       float64
	PairWeight           float64
	TripleWeight         float64
	QuadWeight           float64
	SingleWeight         float64
	TotalCardWeight      float64
	UseTwoPenalty        float64
	UseBombPenalty       float64
	UseHighCardPenalty   float64
	BreakPenaltyWeight   float64
	ChopBonus            float64
	FinishBonus          float64
	BlockerHighCardBonus float64
}

// Tuning bundles per-phase weights and the global thresholds of a bot
// difficulty.
type Tuning struct {
	Opening         PhaseWeights
	Mid             PhaseWeights
	End             PhaseWeights
	PassThreshold   float64
	ThreatThreshold int
}

// ForPhase returns the weights matching the phase.
func (t Tuning) ForPhase(phase GamePhase) PhaseWeights {
	switch phase {
	case PhaseOpening:
		return t.Opening
	case PhaseEnd:
		return t.End
	default:
		return t.Mid
	}
}

// ScoredMove is a candidate move with its computed score and supporting
// metadata.
type ScoredMove struct {
	Move             moves.Move
	Score            float64
	Combo            domain.Combination
	Remaining        []domain.Card
	RemainingProfile HandProfile
}

// ScoreHand evaluates a hand's standalone worth under the given weights.
func ScoreHand(hand []domain.Card, weights PhaseWeights) float64 {
	return scoreWithProfile(hand, ProfileHand(hand), weights)
}

// BuildScoredMoves scores every candidate against the table combination.
// threat biases high singles upward to starve an opponent close to finishing.
func BuildScoredMoves(hand []domain.Card, candidates []moves.Move, last domain.Combination, weights PhaseWeights, threat bool) []ScoredMove {
	scored := make([]ScoredMove, 0, len(candidates))
	for _, move := range candidates {
		remaining := domain.RemoveCards(hand, move.Cards)
		profile := ProfileHand(remaining)
		score := scoreWithProfile(remaining, profile, weights)

		if len(remaining) == 0 {
			score += weights.FinishBonus
		}

		combo := domain.Classify(move.Cards)
		score -= weights.UseHighCardPenalty * float64(combo.Value)
		score -= weights.BreakPenaltyWeight * float64(BreakPenalty(hand, move.Cards))

		if combo.Type == domain.Bomb {
			score -= weights.UseBombPenalty
			// A bomb spent on a real chop earns its keep.
			if chopped, _ := domain.DetectChop(last, combo); chopped {
				score += weights.ChopBonus
			}
		}

		score -= weights.UseTwoPenalty * float64(countRank(move.Cards, domain.RankTwo))

		if threat && combo.Type == domain.Single {
			score += weights.BlockerHighCardBonus * float64(combo.Value)
		}

		scored = append(scored, ScoredMove{
			Move:             move,
			Score:            score,
			Combo:            combo,
			Remaining:        remaining,
			RemainingProfile: profile,
		})
	}
	return scored
}

// DetectThreat reports whether any opponent is at or below the card
// threshold.
func DetectThreat(game *domain.Game, seat int, threshold int) bool {
	if threshold <= 0 || game == nil {
		return false
	}
	for i, p := range game.Seats {
		if p == nil || i == seat || p.Finished || len(p.Hand) == 0 {
			continue
		}
		if len(p.Hand) <= threshold {
			return true
		}
	}
	return false
}

func scoreWithProfile(hand []domain.Card, profile HandProfile, weights PhaseWeights) float64 {
	score := 0.0
	score += weights.HandScoreWeight * EvaluateHand(hand)
	score += weights.StraightCardWeight * float64(profile.StraightCards)
	score += weights.PineCardWeight * float64(profile.PineCards)
	score += weights.PairWeight * float64(profile.Pairs)
	score += weights.TripleWeight * float64(profile.Triples)
	score += weights.QuadWeight * float64(profile.Quads)
	score += weights.SingleWeight * float64(profile.Singles)
	score += weights.TotalCardWeight * float64(profile.TotalCards)
	return score
}

func countRank(cards []domain.Card, rank int32) int {
	n := 0
	for _, c := range cards {
		if c.Rank == rank {
			n++
		}
	}
	return n
}

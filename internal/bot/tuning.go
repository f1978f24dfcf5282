package bot

import botinternal "thirteen/internal/bot/internal"

const finishBonus = 1000.0

// StandardTuning balances structure preservation against hand reduction,
// phase by phase. Opening hoards structure, the endgame dumps cards.
var StandardTuning = botinternal.Tuning{
	Opening: botinternal.PhaseWeights{
		HandScoreWeight:    1.0,
		StraightCardWeight: 0.6,
		PineCardWeight:     0.8,
		PairWeight:         0.5,
		TripleWeight:       0.7,
		QuadWeight:         1.0,
		SingleWeight:       -1.0,
		TotalCardWeight:    -0.1,
		UseTwoPenalty:      6.0,
		UseBombPenalty:     4.0,
		UseHighCardPenalty: 0.5,
		BreakPenaltyWeight: 2.0,
		ChopBonus:          6.0,
		FinishBonus:        finishBonus,
	},
	Mid: botinternal.PhaseWeights{
		HandScoreWeight:    1.0,
		StraightCardWeight: 0.5,
		PineCardWeight:     0.7,
		PairWeight:         0.6,
		TripleWeight:       0.8,
		QuadWeight:         1.0,
		SingleWeight:       -1.2,
		TotalCardWeight:    -0.3,
		UseTwoPenalty:      4.0,
		UseBombPenalty:     3.0,
		UseHighCardPenalty: 0.4,
		BreakPenaltyWeight: 1.5,
		ChopBonus:          8.0,
		FinishBonus:        finishBonus,
	},
	End: botinternal.PhaseWeights{
		HandScoreWeight:      1.2,
		StraightCardWeight:   0.3,
		PineCardWeight:       0.4,
		PairWeight:           0.4,
		TripleWeight:         0.5,
		QuadWeight:           0.6,
		SingleWeight:         -1.5,
		TotalCardWeight:      -1.5,
		UseTwoPenalty:        0.7,
		UseBombPenalty:       1.0,
		UseHighCardPenalty:   0.2,
		BreakPenaltyWeight:   0.5,
		ChopBonus:            10.0,
		FinishBonus:          finishBonus,
		BlockerHighCardBonus: 0.8,
	},
	PassThreshold:   -10.0,
	ThreatThreshold: 3,
}

// GodTuning is the standard curve with a blocker bias in every phase; the
// memory layer supplies the rest of the difficulty gap.
var GodTuning = func() botinternal.Tuning {
	t := StandardTuning
	t.Opening.BlockerHighCardBonus = 0.5
	t.Mid.BlockerHighCardBonus = 0.6
	t.PassThreshold = -15.0
	return t
}()

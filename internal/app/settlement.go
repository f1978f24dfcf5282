package app

import "thirteen/internal/domain"

// SettleFunc computes pre-tax balance deltas per user ID for a finished
// game. Implementations must be zero-sum; the service deducts tax from
// positive deltas afterwards.
type SettleFunc func(g *domain.Game) map[string]int64

// DefaultSettlement pays each better-placed player (loserRank - winnerRank)
// times the base bet from each player that finished behind them. With four
// players the winner collects 1+2+3 base bets while the last place pays the
// same amount out, keeping the pot zero-sum.
func DefaultSettlement(g *domain.Game) map[string]int64 {
	deltas := make(map[string]int64, len(g.FinishOrder))
	for i := 0; i < len(g.FinishOrder); i++ {
		for j := i + 1; j < len(g.FinishOrder); j++ {
			winner := g.PlayerAt(g.FinishOrder[i])
			loser := g.PlayerAt(g.FinishOrder[j])
			if winner == nil || loser == nil {
				continue
			}
			amount := int64(j-i) * g.BaseBet
			deltas[winner.UserID] += amount
			deltas[loser.UserID] -= amount
		}
	}
	return deltas
}

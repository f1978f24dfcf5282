package bot

import (
	"sort"

	"thirteen/internal/app"
	botinternal "thirteen/internal/bot/internal"
	"thirteen/internal/domain"
	"thirteen/internal/moves"
)

// StandardStrategy plays phase-weighted structure scoring: it values what a
// move leaves behind, protects straights and pines from being torn up, spends
// bombs on real chops and starves opponents who are close to finishing.
type StandardStrategy struct {
	tuning botinternal.Tuning
}

// NewStandardStrategy builds the mid difficulty with the given tuning.
func NewStandardStrategy(tuning botinternal.Tuning) *StandardStrategy {
	return &StandardStrategy{tuning: tuning}
}

func (s *StandardStrategy) CalculateMove(game *domain.Game, player *domain.Player) (Move, error) {
	if player == nil || len(player.Hand) == 0 {
		return Move{Pass: true}, nil
	}

	candidates := moves.Generate(player.Hand, game.LastCombo)
	if len(candidates) == 0 {
		return Move{Pass: true}, nil
	}

	weights := s.tuning.ForPhase(botinternal.DetectPhase(game))
	threat := botinternal.DetectThreat(game, player.Seat, s.tuning.ThreatThreshold)
	scored := botinternal.BuildScoredMoves(player.Hand, candidates, game.LastCombo, weights, threat)

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		// Equal score: save the higher cards.
		return scored[i].Combo.Value < scored[j].Combo.Value
	})

	// When responding, pass rather than wreck the hand. Leading never
	// passes.
	if game.LastCombo.Type != domain.Invalid {
		keepScore := botinternal.ScoreHand(player.Hand, weights)
		if scored[0].Score < keepScore+s.tuning.PassThreshold {
			return Move{Pass: true}, nil
		}
	}
	return Move{Cards: scored[0].Move.Cards}, nil
}

// OnEvent is a no-op; the standard difficulty reads only visible state.
func (s *StandardStrategy) OnEvent(app.Event, bool) {}

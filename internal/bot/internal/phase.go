package internal

import "thirteen/internal/domain"

// GamePhase is the strategic stage of a hand as seen by the scorer.
type GamePhase int

const (
	// PhaseOpening holds while every live player still has a full hand.
	PhaseOpening GamePhase = iota
	// PhaseMid is everything between opening and endgame.
	PhaseMid
	// PhaseEnd starts once someone finished or any live hand is down to 5
	// cards or fewer.
	PhaseEnd
)

const endgameHandSize = 5

// DetectPhase infers the phase from live hand sizes and finish state.
func DetectPhase(game *domain.Game) GamePhase {
	if game == nil {
		return PhaseMid
	}

	live := 0
	opening := true
	end := false
	for _, p := range game.Seats {
		if p == nil {
			continue
		}
		if p.Finished || len(p.Hand) == 0 {
			end = true
			continue
		}
		live++
		if len(p.Hand) != 13 {
			opening = false
		}
		if len(p.Hand) <= endgameHandSize {
			end = true
		}
	}

	switch {
	case live == 0:
		return PhaseEnd
	case opening:
		return PhaseOpening
	case end:
		return PhaseEnd
	default:
		return PhaseMid
	}
}

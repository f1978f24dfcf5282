package domain

// Phase is the lifecycle stage of a game.
type Phase string

const (
	// PhasePlaying is the active state where actions are accepted.
	PhasePlaying Phase = "playing"
	// PhaseEnded is terminal; a new Game is built for the next hand.
	PhaseEnded Phase = "ended"
)

// NumSeats is the fixed seat count of a match.
const NumSeats = 4

// Player holds per-seat state. Owned exclusively by its Game.
type Player struct {
	UserID    string
	Seat      int // 0..3, stable for the game's lifetime
	IsOwner   bool
	Hand      []Card
	HasPassed bool
	Finished  bool
}

// Game is the authoritative state of a single hand. It is mutated only by
// the app-layer action handlers and carries no concurrency control of its
// own; the host serializes actions per match.
type Game struct {
	Phase Phase

	// Seats is indexed by seat number; nil marks an empty seat.
	Seats [NumSeats]*Player

	CurrentTurnSeat int
	LastCombo       Combination
	LastPlaySeat    int

	Discards    []Card
	FinishOrder []int // seats in the order they emptied their hands
	BaseBet     int64
}

// PlayerAt returns the player at seat, or nil for empty or out-of-range
// seats.
func (g *Game) PlayerAt(seat int) *Player {
	if seat < 0 || seat >= NumSeats {
		return nil
	}
	return g.Seats[seat]
}

// ActiveCount returns the number of players still holding cards.
func (g *Game) ActiveCount() int {
	n := 0
	for _, p := range g.Seats {
		if p != nil && !p.Finished && len(p.Hand) > 0 {
			n++
		}
	}
	return n
}

// NextEligibleSeat returns the first seat after from (wrapping) whose player
// is present and not finished, skipping passed players when skipPassed is
// set. Returns -1 when no seat qualifies.
func (g *Game) NextEligibleSeat(from int, skipPassed bool) int {
	for k := 1; k <= NumSeats; k++ {
		seat := (from + k) % NumSeats
		p := g.Seats[seat]
		if p == nil || p.Finished {
			continue
		}
		if skipPassed && p.HasPassed {
			continue
		}
		return seat
	}
	return -1
}

// ClearTable resets the table combination and every non-finished player's
// pass flag, opening a new round.
func (g *Game) ClearTable() {
	g.LastCombo = Combination{Type: Invalid}
	for _, p := range g.Seats {
		if p != nil && !p.Finished {
			p.HasPassed = false
		}
	}
}

// TableEmpty reports whether the acting seat would be leading.
func (g *Game) TableEmpty() bool {
	return g.LastCombo.Type == Invalid
}

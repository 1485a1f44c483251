package game

import "fmt"

// Phase is the step of the game the next operation must satisfy
type Phase int

const (
	NotStarted Phase = iota
	Seeding
	ChoosingFirstPlayer
	AwaitingFirstDraw
	AwaitingFirstAction
	AwaitingSecondDraw
	AwaitingSecondAction
	AwaitingAdvance
	GameOver
)

var phaseNames = []string{
	"NotStarted",
	"Seeding",
	"ChoosingFirstPlayer",
	"AwaitingFirstDraw",
	"AwaitingFirstAction",
	"AwaitingSecondDraw",
	"AwaitingSecondAction",
	"AwaitingAdvance",
	"GameOver",
}

func (p Phase) String() string {
	if p < NotStarted || p > GameOver {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Phase works out where the game is from its state.
// The game is over once the festival is seeded and a draw is due from an empty deck.
func (g *Game) Phase() Phase {
	if g.playerCount == 0 {
		return NotStarted
	}
	if !g.seeded {
		return Seeding
	}

	deckEmpty := len(g.deck) == 0
	t := g.turn

	switch {
	case t == nil:
		if deckEmpty {
			return GameOver
		}
		return ChoosingFirstPlayer
	case t.FirstCard == nil:
		if deckEmpty {
			return GameOver
		}
		return AwaitingFirstDraw
	case t.FirstAction == nil:
		return AwaitingFirstAction
	case t.SecondCard == nil:
		if deckEmpty {
			return GameOver
		}
		return AwaitingSecondDraw
	case t.SecondAction == nil:
		return AwaitingSecondAction
	default:
		return AwaitingAdvance
	}
}

// GameOver reports whether the deck has run out after seeding
func (g *Game) GameOver() bool {
	return g.Phase() == GameOver
}

// Seats lists the seat numbers in order
func (g *Game) Seats() []int {
	seats := make([]int, 0, g.playerCount)
	for seat := 1; seat <= g.playerCount; seat++ {
		seats = append(seats, seat)
	}
	return seats
}

// ActiveSeat is the seat whose turn it is, or 0 if no turn is in flight
func (g *Game) ActiveSeat() int {
	if g.turn == nil {
		return 0
	}
	return g.turn.ActivePlayer
}

// MatchesFirstAction reports whether kind was already used this turn
func (g *Game) MatchesFirstAction(kind ActionKind) bool {
	if g.turn == nil || g.turn.FirstAction == nil {
		return false
	}
	return g.turn.FirstAction.Kind == kind
}

// Allowed reports whether an action of this kind can be taken right now
func (g *Game) Allowed(kind ActionKind) bool {
	if !kind.valid() {
		return false
	}
	switch g.Phase() {
	case AwaitingFirstAction:
		return true
	case AwaitingSecondAction:
		return !g.MatchesFirstAction(kind)
	}
	return false
}

// LastError is the failure from the most recent operation, if any
func (g *Game) LastError() error {
	return g.lastError
}

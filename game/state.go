package game

import "github.com/minaorangina/tulips/deck"

// State is a read-only snapshot of a game, safe to hand to a UI or encode as JSON.
// The secret pile is only ever reported as a count, and turns never show
// the tulip behind a Secret action.
type State struct {
	PlayerCount int          `json:"playerCount"`
	Phase       Phase        `json:"phase"`
	ActiveSeat  int          `json:"activeSeat,omitempty"`
	Players     []Player     `json:"players"`
	DeckCount   int          `json:"deckCount"`
	Festival    Collection   `json:"festival"`
	Seeded      bool         `json:"seeded"`
	SecretCount int          `json:"secretCount"`
	History     []Turn       `json:"history"`
	CurrentTurn *Turn        `json:"currentTurn,omitempty"`
	Allowed     []ActionKind `json:"allowed,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
}

// State builds a snapshot that shares no memory with the game
func (g *Game) State() State {
	s := State{
		PlayerCount: g.playerCount,
		Phase:       g.Phase(),
		ActiveSeat:  g.ActiveSeat(),
		Players:     []Player{},
		DeckCount:   len(g.deck),
		Festival:    g.festival.Clone(),
		Seeded:      g.seeded,
		SecretCount: len(g.secret),
		History:     []Turn{},
	}

	for _, t := range g.history {
		s.History = append(s.History, t.clone().withoutSecrets())
	}
	for _, seat := range g.Seats() {
		s.Players = append(s.Players, g.players[seat].clone())
	}
	if t, ok := g.CurrentTurn(); ok {
		t = t.withoutSecrets()
		s.CurrentTurn = &t
	}
	for _, kind := range ActionKinds() {
		if g.Allowed(kind) {
			s.Allowed = append(s.Allowed, kind)
		}
	}
	if g.lastError != nil {
		s.LastError = g.lastError.Error()
	}

	return s
}

func (t Turn) withoutSecrets() Turn {
	if t.FirstAction != nil && t.FirstAction.Kind == Secret {
		t.FirstCard = nil
	}
	if t.SecondAction != nil && t.SecondAction.Kind == Secret {
		t.SecondCard = nil
	}
	return t
}

func (g *Game) PlayerCount() int {
	return g.playerCount
}

func (g *Game) Seeded() bool {
	return g.seeded
}

// Player returns a copy of the player in seat
func (g *Game) Player(seat int) (Player, bool) {
	p, ok := g.players[seat]
	if !ok {
		return Player{}, false
	}
	return p.clone(), true
}

// Deck returns a copy of the remaining deck, front first
func (g *Game) Deck() deck.Deck {
	return g.deck.Clone()
}

func (g *Game) Festival() Collection {
	return g.festival.Clone()
}

func (g *Game) Secret() []deck.Card {
	return append([]deck.Card{}, g.secret...)
}

// History returns copies of every completed turn
func (g *Game) History() []Turn {
	history := make([]Turn, 0, len(g.history))
	for _, t := range g.history {
		history = append(history, t.clone())
	}
	return history
}

// CurrentTurn returns a copy of the turn in flight
func (g *Game) CurrentTurn() (Turn, bool) {
	if g.turn == nil {
		return Turn{}, false
	}
	return g.turn.clone(), true
}

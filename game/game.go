package game

import (
	"fmt"
	"math/rand"

	"github.com/minaorangina/tulips/deck"
)

// Player is a seat at the table and the tulips it holds
type Player struct {
	Seat       int        `json:"seat"`
	Score      int        `json:"score"`
	Collection Collection `json:"collection"`
}

func newPlayer(seat int) *Player {
	return &Player{Seat: seat, Collection: NewCollection()}
}

func (p Player) clone() Player {
	p.Collection = p.Collection.Clone()
	return p
}

// Turn is one player's two draws and two actions
type Turn struct {
	ActivePlayer int        `json:"activePlayer"`
	FirstCard    *deck.Card `json:"firstCard,omitempty"`
	FirstAction  *Action    `json:"firstAction,omitempty"`
	SecondCard   *deck.Card `json:"secondCard,omitempty"`
	SecondAction *Action    `json:"secondAction,omitempty"`
}

func (t Turn) clone() Turn {
	cp := Turn{ActivePlayer: t.ActivePlayer}
	if t.FirstCard != nil {
		c := *t.FirstCard
		cp.FirstCard = &c
	}
	if t.FirstAction != nil {
		a := *t.FirstAction
		cp.FirstAction = &a
	}
	if t.SecondCard != nil {
		c := *t.SecondCard
		cp.SecondCard = &c
	}
	if t.SecondAction != nil {
		a := *t.SecondAction
		cp.SecondAction = &a
	}
	return cp
}

// Game is the state machine for a single game of Gift of Tulips.
// It is not safe for concurrent use; see engine.GameEngine for a serialized host.
type Game struct {
	playerCount int
	players     map[int]*Player
	deck        deck.Deck
	festival    Collection
	seeded      bool
	secret      []deck.Card
	history     []Turn
	turn        *Turn
	lastError   error
	rng         *rand.Rand
}

// Option configures a Game
type Option func(*Game)

// WithRand fixes the shuffle source, mostly for tests
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rng = r
	}
}

// New constructs a game that has not been initialized yet
func New(opts ...Option) *Game {
	g := &Game{
		players:  map[int]*Player{},
		deck:     deck.Deck{},
		festival: NewCollection(),
		secret:   []deck.Card{},
		history:  []Turn{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = deck.NewRand()
	}
	return g
}

func (g *Game) fail(err error) error {
	g.lastError = err
	return err
}

func (g *Game) succeed() {
	g.lastError = nil
}

func (g *Game) validSeat(seat int) bool {
	_, ok := g.players[seat]
	return ok
}

// Initialize discards any previous state and sets up a fresh game
func (g *Game) Initialize(playerCount int) error {
	d, err := deck.SeedAndTrim(playerCount, g.rng)
	if err != nil {
		return g.fail(err)
	}

	players := map[int]*Player{}
	for seat := 1; seat <= playerCount; seat++ {
		players[seat] = newPlayer(seat)
	}

	g.playerCount = playerCount
	g.players = players
	g.deck = d
	g.festival = NewCollection()
	g.seeded = false
	g.secret = []deck.Card{}
	g.history = []Turn{}
	g.turn = nil
	g.succeed()

	return nil
}

// SeedFestival puts the top tulip and the next tulip of a different color
// into the festival
func (g *Game) SeedFestival() error {
	if g.playerCount == 0 {
		return g.fail(ErrNotInitialized)
	}
	if g.seeded {
		return g.fail(ErrFestivalAlreadySeeded)
	}
	if len(g.deck) == 0 {
		return g.fail(ErrDeckEmpty)
	}

	first := g.deck[0]
	rest := g.deck[1:].Clone()
	idx := rest.IndexFunc(func(c deck.Card) bool {
		return c.Color != first.Color
	})
	if idx < 0 {
		return g.fail(ErrNoEligibleSecondCard)
	}

	second, _ := rest.Remove(idx)
	// scanning past cards of the first color reveals where they sit
	if idx != 0 {
		rest.Shuffle(g.rng)
	}

	g.deck = rest
	g.festival.Add(first)
	g.festival.Add(second)
	g.seeded = true
	g.succeed()

	return nil
}

// DecideFirstPlayer starts the first turn. Seats are numbered from 1.
func (g *Game) DecideFirstPlayer(seat int) error {
	if g.playerCount == 0 {
		return g.fail(ErrNotInitialized)
	}
	if !g.seeded {
		return g.fail(ErrFestivalNotSeeded)
	}
	if g.turn != nil || len(g.history) > 0 {
		return g.fail(ErrTurnInProgress)
	}
	if !g.validSeat(seat) {
		return g.fail(fmt.Errorf("%w: %d", ErrInvalidSeat, seat))
	}

	g.turn = &Turn{ActivePlayer: seat}
	g.succeed()

	return nil
}

// DrawFirstCard draws the active player's first tulip
func (g *Game) DrawFirstCard() (deck.Card, error) {
	if g.playerCount == 0 {
		return deck.Card{}, g.fail(ErrNotInitialized)
	}
	if g.turn == nil {
		return deck.Card{}, g.fail(ErrNoActiveTurn)
	}
	if g.turn.FirstCard != nil {
		return deck.Card{}, g.fail(ErrCardAlreadyDrawn)
	}

	card, ok := g.deck.Draw()
	if !ok {
		return deck.Card{}, g.fail(ErrDeckExhausted)
	}

	g.turn.FirstCard = &card
	g.succeed()

	return card, nil
}

// TakeFirstAction places the first tulip
func (g *Game) TakeFirstAction(action Action) error {
	if g.playerCount == 0 {
		return g.fail(ErrNotInitialized)
	}
	if g.turn == nil {
		return g.fail(ErrNoActiveTurn)
	}
	if g.turn.FirstCard == nil {
		return g.fail(ErrNoCardDrawn)
	}
	if g.turn.FirstAction != nil {
		return g.fail(ErrActionAlreadyTaken)
	}
	if !action.Kind.valid() {
		return g.fail(fmt.Errorf("%w: %s", ErrUnknownAction, action.Kind))
	}
	if err := g.checkTarget(action); err != nil {
		return g.fail(err)
	}

	g.place(*g.turn.FirstCard, action)
	g.turn.FirstAction = &action
	g.succeed()

	return nil
}

// DrawSecondCard draws the active player's second tulip
func (g *Game) DrawSecondCard() (deck.Card, error) {
	if g.playerCount == 0 {
		return deck.Card{}, g.fail(ErrNotInitialized)
	}
	if g.turn == nil {
		return deck.Card{}, g.fail(ErrNoActiveTurn)
	}
	if g.turn.FirstAction == nil {
		return deck.Card{}, g.fail(ErrFirstActionPending)
	}
	if g.turn.SecondCard != nil {
		return deck.Card{}, g.fail(ErrCardAlreadyDrawn)
	}

	card, ok := g.deck.Draw()
	if !ok {
		return deck.Card{}, g.fail(ErrDeckExhausted)
	}

	g.turn.SecondCard = &card
	g.succeed()

	return card, nil
}

// TakeSecondAction places the second tulip. The destination kind must
// differ from the first action's, so two gifts are never allowed even
// to different seats.
func (g *Game) TakeSecondAction(action Action) error {
	if g.playerCount == 0 {
		return g.fail(ErrNotInitialized)
	}
	if g.turn == nil {
		return g.fail(ErrNoActiveTurn)
	}
	if g.turn.SecondCard == nil {
		return g.fail(ErrNoCardDrawn)
	}
	if g.turn.SecondAction != nil {
		return g.fail(ErrActionAlreadyTaken)
	}
	if !action.Kind.valid() {
		return g.fail(fmt.Errorf("%w: %s", ErrUnknownAction, action.Kind))
	}
	if action.Kind == g.turn.FirstAction.Kind {
		return g.fail(fmt.Errorf("%w: %s", ErrDuplicateActionKind, action.Kind))
	}
	if err := g.checkTarget(action); err != nil {
		return g.fail(err)
	}

	g.place(*g.turn.SecondCard, action)
	g.turn.SecondAction = &action
	g.succeed()

	return nil
}

// AdvanceTurn files the finished turn and hands play to the next seat
func (g *Game) AdvanceTurn() error {
	if g.playerCount == 0 {
		return g.fail(ErrNotInitialized)
	}
	if g.turn == nil {
		return g.fail(ErrNoActiveTurn)
	}
	if g.turn.SecondAction == nil {
		return g.fail(ErrTurnIncomplete)
	}

	g.history = append(g.history, *g.turn)
	g.turn = &Turn{ActivePlayer: nextSeat(g.turn.ActivePlayer, g.playerCount)}
	g.succeed()

	return nil
}

func nextSeat(seat, playerCount int) int {
	return (seat % playerCount) + 1
}

func (g *Game) checkTarget(action Action) error {
	if action.Kind != Give {
		return nil
	}
	if action.Target == 0 {
		return ErrMissingTarget
	}
	if !g.validSeat(action.Target) {
		return fmt.Errorf("%w: %d", ErrInvalidSeat, action.Target)
	}
	if action.Target == g.turn.ActivePlayer {
		return ErrGiveToSelf
	}
	return nil
}

// place assumes the action has already been validated
func (g *Game) place(card deck.Card, action Action) {
	switch action.Kind {
	case Keep:
		g.players[g.turn.ActivePlayer].Collection.Add(card)
	case Give:
		g.players[action.Target].Collection.Add(card)
	case Festival:
		g.festival.Add(card)
	case Secret:
		g.secret = append(g.secret, card)
	default:
		panic(fmt.Sprintf("unhandled action %s", action.Kind))
	}
}

package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/minaorangina/tulips/game"
	"github.com/minaorangina/tulips/protocol"
	"github.com/sirupsen/logrus"
)

const (
	minPlayers = 2
	maxPlayers = 6
)

var (
	ErrTooFewPlayers      = fmt.Errorf("minimum of %d players required", minPlayers)
	ErrGameFull           = fmt.Errorf("maximum of %d players allowed", maxPlayers)
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted     = errors.New("game has not started")
	ErrGameFinished       = errors.New("game is over")
	ErrNotYourTurn        = errors.New("it is not your turn")
	ErrNotCreator         = errors.New("only the game creator can do that")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrEngineStopped      = errors.New("game engine has stopped")
)

// PlayState represents the state of the current game
// Idle -> players may join
// InProgress -> game in progress
// Finished -> deck ran out
type PlayState int

const (
	Idle PlayState = iota
	InProgress
	Finished
)

func (ps PlayState) String() string {
	switch ps {
	case Idle:
		return "idle"
	case InProgress:
		return "inProgress"
	case Finished:
		return "finished"
	}
	return ""
}

// GameEngine hosts one game and serializes every operation on it.
// Listen must be running for AddPlayer, RemovePlayer and Receive to make progress.
type GameEngine interface {
	ID() string
	CreatorID() string
	PlayState() PlayState
	Players() Players
	Seat(playerID string) (int, bool)
	AddPlayer(Player) error
	RemovePlayer(Player)
	Receive(protocol.InboundMessage)
	Snapshot() game.State
	Listen()
	Stop()
}

type registration struct {
	player Player
	reply  chan error
}

type gameEngine struct {
	mu           sync.RWMutex
	id           string
	creatorID    string
	playState    PlayState
	players      Players
	seats        map[string]int
	game         *game.Game
	registerCh   chan registration
	unregisterCh chan Player
	inboundCh    chan protocol.InboundMessage
	stopCh       chan struct{}
	stopOnce     sync.Once
	log          logrus.FieldLogger
}

type GameEngineOpts struct {
	GameID    string
	CreatorID string
	Players   Players
	Game      *game.Game
	Logger    logrus.FieldLogger
}

// NewGameEngine constructs a new GameEngine.
// Players passed in are seated in order.
func NewGameEngine(opts GameEngineOpts) (*gameEngine, error) {
	if len(opts.Players) > maxPlayers {
		return nil, ErrGameFull
	}
	if opts.Game == nil {
		opts.Game = game.New()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	engine := &gameEngine{
		id:           opts.GameID,
		creatorID:    opts.CreatorID,
		players:      Players{},
		seats:        map[string]int{},
		game:         opts.Game,
		registerCh:   make(chan registration),
		unregisterCh: make(chan Player),
		inboundCh:    make(chan protocol.InboundMessage),
		stopCh:       make(chan struct{}),
		log:          opts.Logger.WithField("game_id", opts.GameID),
	}

	for _, p := range opts.Players {
		engine.seat(p)
	}

	return engine, nil
}

func (ge *gameEngine) ID() string {
	return ge.id
}

func (ge *gameEngine) CreatorID() string {
	return ge.creatorID
}

func (ge *gameEngine) PlayState() PlayState {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return ge.playState
}

func (ge *gameEngine) Players() Players {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return append(Players{}, ge.players...)
}

func (ge *gameEngine) Seat(playerID string) (int, bool) {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	seat, ok := ge.seats[playerID]
	return seat, ok
}

// Snapshot returns the game's read model
func (ge *gameEngine) Snapshot() game.State {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return ge.game.State()
}

// AddPlayer adds a player to a game, or reconnects one who already has a seat
func (ge *gameEngine) AddPlayer(p Player) error {
	reply := make(chan error, 1)
	select {
	case ge.registerCh <- registration{p, reply}:
	case <-ge.stopCh:
		return ErrEngineStopped
	}
	return <-reply
}

func (ge *gameEngine) RemovePlayer(p Player) {
	select {
	case ge.unregisterCh <- p:
	case <-ge.stopCh:
	}
}

// Receive forwards InboundMessages from Players to the game loop
func (ge *gameEngine) Receive(msg protocol.InboundMessage) {
	select {
	case ge.inboundCh <- msg:
	case <-ge.stopCh:
	}
}

func (ge *gameEngine) Stop() {
	ge.stopOnce.Do(func() {
		close(ge.stopCh)
	})
}

// Listen is the only goroutine that changes the game
func (ge *gameEngine) Listen() {
	for {
		select {
		case reg := <-ge.registerCh:
			reg.reply <- ge.register(reg.player)

		case p := <-ge.unregisterCh:
			ge.unregister(p)

		case msg := <-ge.inboundCh:
			ge.handle(msg)

		case <-ge.stopCh:
			return
		}
	}
}

// seat must be called with the lock held
func (ge *gameEngine) seat(p Player) int {
	seat, ok := ge.seats[p.ID()]
	if !ok {
		seat = len(ge.seats) + 1
		ge.seats[p.ID()] = seat
	}
	ge.players = AddPlayer(ge.players, p)
	return seat
}

func (ge *gameEngine) register(p Player) error {
	ge.mu.Lock()

	if _, ok := ge.players.Find(p.ID()); ok {
		var old Player
		ge.players, old = ReplacePlayer(ge.players, p)
		ge.mu.Unlock()

		if c, ok := old.(io.Closer); ok && old != p {
			if err := c.Close(); err != nil {
				ge.log.WithError(err).WithField("player_id", p.ID()).Debug("could not close replaced connection")
			}
		}
		ge.log.WithField("player_id", p.ID()).Info("player reconnected")
		return nil
	}

	_, known := ge.seats[p.ID()]
	if ge.playState != Idle && !known {
		ge.mu.Unlock()
		return ErrGameAlreadyStarted
	}
	if !known && len(ge.seats) >= maxPlayers {
		ge.mu.Unlock()
		return ErrGameFull
	}

	seat := ge.seat(p)
	joiner := protocol.Player{PlayerID: p.ID(), Name: p.Name(), Seat: seat}
	msgs := ge.buildMessages(protocol.NewJoiner, fmt.Sprintf("%s has joined the game!", p.Name()), nil)
	for i := range msgs {
		msgs[i].Joiner = joiner
	}
	if ge.playState != Idle {
		state := ge.game.State()
		for i := range msgs {
			msgs[i].State = &state
		}
	}
	ge.mu.Unlock()

	ge.log.WithFields(logrus.Fields{"player_id": p.ID(), "seat": seat}).Info("player joined")
	ge.send(msgs)

	return nil
}

func (ge *gameEngine) unregister(p Player) {
	ge.mu.Lock()
	// a reconnected player replaces the old connection, which may still be unwinding
	if found, ok := ge.players.Find(p.ID()); !ok || found != p {
		ge.mu.Unlock()
		return
	}

	ge.players = RemovePlayer(ge.players, p.ID())
	if ge.playState == Idle {
		// seats close up until the game starts
		ge.seats = map[string]int{}
		for i, remaining := range ge.players {
			ge.seats[remaining.ID()] = i + 1
		}
	}
	msgs := ge.buildMessages(protocol.PlayerLeft, fmt.Sprintf("%s has left the game", p.Name()), nil)
	ge.mu.Unlock()

	ge.log.WithField("player_id", p.ID()).Info("player left")
	ge.send(msgs)
}

func (ge *gameEngine) handle(msg protocol.InboundMessage) {
	log := ge.log.WithFields(logrus.Fields{"player_id": msg.PlayerID, "cmd": msg.Command.String()})

	ge.mu.Lock()
	msgs, err := ge.apply(msg)
	ge.mu.Unlock()

	if err != nil {
		log.WithError(err).Info("command rejected")
		if p, ok := ge.players.Find(msg.PlayerID); ok {
			ge.send([]protocol.OutboundMessage{ge.buildErrorMessage(p, msg.Command, err)})
		}
		return
	}

	log.Debug("command applied")
	ge.send(msgs)
}

// apply must be called with the lock held
func (ge *gameEngine) apply(msg protocol.InboundMessage) ([]protocol.OutboundMessage, error) {
	seat, ok := ge.seats[msg.PlayerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}

	if msg.Command.TurnCommand() {
		if err := ge.inProgress(); err != nil {
			return nil, err
		}
		if seat != ge.game.ActiveSeat() {
			return nil, ErrNotYourTurn
		}
		if err := ge.applyTurn(msg); err != nil {
			return nil, err
		}
		return ge.resultMessages(seat, msg), nil
	}

	switch msg.Command {
	case protocol.Start:
		if msg.PlayerID != ge.creatorID {
			return nil, ErrNotCreator
		}
		if ge.playState != Idle {
			return nil, ErrGameAlreadyStarted
		}
		if len(ge.players) < minPlayers {
			return nil, ErrTooFewPlayers
		}
		if err := ge.game.Initialize(len(ge.players)); err != nil {
			return nil, err
		}
		ge.playState = InProgress
		return ge.stateMessages(protocol.HasStarted, "Let's start the game!"), nil

	case protocol.SeedFestival, protocol.DecideFirstPlayer:
		if msg.PlayerID != ge.creatorID {
			return nil, ErrNotCreator
		}
		if err := ge.inProgress(); err != nil {
			return nil, err
		}
		var err error
		if msg.Command == protocol.SeedFestival {
			err = ge.game.SeedFestival()
		} else {
			err = ge.game.DecideFirstPlayer(msg.Seat)
		}
		if err != nil {
			return nil, err
		}
		return ge.resultMessages(seat, msg), nil

	case protocol.State:
		p, ok := ge.players.Find(msg.PlayerID)
		if !ok {
			return nil, ErrUnknownPlayer
		}
		state := ge.game.State()
		reply := ge.buildMessage(p, protocol.State, "", &state)
		return []protocol.OutboundMessage{reply}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, msg.Command)
}

func (ge *gameEngine) inProgress() error {
	switch ge.playState {
	case Idle:
		return ErrGameNotStarted
	case Finished:
		return ErrGameFinished
	}
	return nil
}

func (ge *gameEngine) applyTurn(msg protocol.InboundMessage) error {
	var err error
	switch msg.Command {
	case protocol.DrawFirstCard:
		_, err = ge.game.DrawFirstCard()
	case protocol.TakeFirstAction:
		err = ge.game.TakeFirstAction(msg.Action)
	case protocol.DrawSecondCard:
		_, err = ge.game.DrawSecondCard()
	case protocol.TakeSecondAction:
		err = ge.game.TakeSecondAction(msg.Action)
	case protocol.AdvanceTurn:
		err = ge.game.AdvanceTurn()
	}
	return err
}

func (ge *gameEngine) resultMessages(seat int, msg protocol.InboundMessage) []protocol.OutboundMessage {
	if ge.game.GameOver() {
		ge.playState = Finished
		return ge.stateMessages(protocol.GameOver, "No tulips left. The game is over!")
	}
	return ge.stateMessages(protocol.State, describe(seat, msg))
}

func (ge *gameEngine) stateMessages(cmd protocol.Cmd, text string) []protocol.OutboundMessage {
	state := ge.game.State()
	return ge.buildMessages(cmd, text, &state)
}

func (ge *gameEngine) buildMessages(cmd protocol.Cmd, text string, state *game.State) []protocol.OutboundMessage {
	msgs := []protocol.OutboundMessage{}
	for _, p := range ge.players {
		msgs = append(msgs, ge.buildMessage(p, cmd, text, state))
	}
	return msgs
}

func (ge *gameEngine) buildMessage(p Player, cmd protocol.Cmd, text string, state *game.State) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		PlayerID: p.ID(),
		Name:     p.Name(),
		Seat:     ge.seats[p.ID()],
		Command:  cmd,
		Message:  text,
		Players:  ge.playerList(),
		State:    state,
	}
}

func (ge *gameEngine) buildErrorMessage(p Player, cmd protocol.Cmd, err error) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		PlayerID: p.ID(),
		Name:     p.Name(),
		Command:  protocol.Error,
		Message:  fmt.Sprintf("could not %s", cmd),
		Error:    err.Error(),
	}
}

func (ge *gameEngine) playerList() []protocol.Player {
	list := []protocol.Player{}
	for _, p := range ge.players {
		list = append(list, protocol.Player{PlayerID: p.ID(), Name: p.Name(), Seat: ge.seats[p.ID()]})
	}
	return list
}

func (ge *gameEngine) send(msgs []protocol.OutboundMessage) {
	for _, m := range msgs {
		p, ok := ge.players.Find(m.PlayerID)
		if !ok {
			continue
		}
		if err := p.Send(m); err != nil {
			ge.log.WithError(err).WithField("player_id", p.ID()).Warn("could not send message")
		}
	}
}

func describe(seat int, msg protocol.InboundMessage) string {
	switch msg.Command {
	case protocol.SeedFestival:
		return "The festival has been seeded"
	case protocol.DecideFirstPlayer:
		return fmt.Sprintf("Player %d goes first", msg.Seat)
	case protocol.DrawFirstCard, protocol.DrawSecondCard:
		return fmt.Sprintf("Player %d drew a tulip", seat)
	case protocol.TakeFirstAction, protocol.TakeSecondAction:
		return fmt.Sprintf("Player %d chose %s", seat, msg.Action)
	case protocol.AdvanceTurn:
		return fmt.Sprintf("Player %d finished their turn", seat)
	}
	return ""
}

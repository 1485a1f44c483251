package engine

import (
	"fmt"
	"io/ioutil"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/minaorangina/tulips/game"
	utils "github.com/minaorangina/tulips/internal"
	"github.com/minaorangina/tulips/protocol"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameEngineTestTimeout = time.Duration(500 * time.Millisecond)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}

func newTestEngine(t *testing.T, creatorID string, ps ...Player) *gameEngine {
	t.Helper()
	ge, err := NewGameEngine(GameEngineOpts{
		GameID:    "game-id",
		CreatorID: creatorID,
		Players:   NewPlayers(ps...),
		Game:      game.New(game.WithRand(rand.New(rand.NewSource(utils.FixedSeed)))),
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	go ge.Listen()
	t.Cleanup(ge.Stop)

	return ge
}

func expect(t *testing.T, p *TestPlayer, cmd protocol.Cmd) protocol.OutboundMessage {
	t.Helper()
	var msg protocol.OutboundMessage
	utils.Within(t, gameEngineTestTimeout, func() {
		msg = p.NextOf(cmd)
	})
	return msg
}

func send(ge GameEngine, p Player, cmd protocol.Cmd) {
	ge.Receive(protocol.InboundMessage{PlayerID: p.ID(), Command: cmd})
}

func act(ge GameEngine, p Player, cmd protocol.Cmd, a game.Action) {
	ge.Receive(protocol.InboundMessage{PlayerID: p.ID(), Command: cmd, Action: a})
}

// startedEngine returns a two player engine whose festival is seeded and
// where player 1 is about to draw
func startedEngine(t *testing.T) (*gameEngine, *TestPlayer, *TestPlayer) {
	t.Helper()
	p1, p2 := NewTestPlayer("player-1", "Hermione"), NewTestPlayer("player-2", "Ron")
	ge := newTestEngine(t, p1.ID(), p1, p2)

	send(ge, p1, protocol.Start)
	expect(t, p1, protocol.HasStarted)
	send(ge, p1, protocol.SeedFestival)
	expect(t, p1, protocol.State)
	ge.Receive(protocol.InboundMessage{PlayerID: p1.ID(), Command: protocol.DecideFirstPlayer, Seat: 1})
	expect(t, p1, protocol.State)

	return ge, p1, p2
}

func TestGameEngineConstructor(t *testing.T) {
	t.Run("keeps track of who created it", func(t *testing.T) {
		ge, err := NewGameEngine(GameEngineOpts{GameID: "some-id", CreatorID: "hermione-1"})
		require.NoError(t, err)
		assert.Equal(t, "hermione-1", ge.CreatorID())
		assert.Equal(t, "some-id", ge.ID())
		assert.Equal(t, Idle, ge.PlayState())
		assert.Equal(t, game.NotStarted, ge.Snapshot().Phase)
	})

	t.Run("seats players in order", func(t *testing.T) {
		ge, err := NewGameEngine(GameEngineOpts{Players: SomePlayers()})
		require.NoError(t, err)

		seat, ok := ge.Seat("player-2")
		assert.True(t, ok)
		assert.Equal(t, 2, seat)
		assert.Len(t, ge.Players(), 2)
	})

	t.Run("refuses too many players", func(t *testing.T) {
		ps := Players{}
		for i := 0; i < maxPlayers+1; i++ {
			ps = append(ps, NewTestPlayer(fmt.Sprintf("p%d", i), "someone"))
		}
		_, err := NewGameEngine(GameEngineOpts{Players: ps})
		assert.ErrorIs(t, err, ErrGameFull)
	})
}

func TestGameEngineAddPlayer(t *testing.T) {
	t.Run("broadcasts to other players", func(t *testing.T) {
		creator := NewTestPlayer("i-am-a-spy", "Spy")
		ge := newTestEngine(t, creator.ID(), creator)

		joiner := NewTestPlayer("joiner-1", "Ms Joiner")
		require.NoError(t, ge.AddPlayer(joiner))

		msg := expect(t, creator, protocol.NewJoiner)
		assert.Equal(t, joiner.Name(), msg.Joiner.Name)
		assert.Equal(t, joiner.ID(), msg.Joiner.PlayerID)
		assert.Equal(t, 2, msg.Joiner.Seat)
		assert.Len(t, msg.Players, 2)

		seat, _ := ge.Seat(joiner.ID())
		assert.Equal(t, 2, seat)
	})

	t.Run("the same player joining twice keeps one seat", func(t *testing.T) {
		p := NewTestPlayer("p1", "Harry")
		ge := newTestEngine(t, p.ID(), p)

		require.NoError(t, ge.AddPlayer(NewTestPlayer("p1", "Harry")))
		assert.Len(t, ge.Players(), 1)
	})

	t.Run("at most six players", func(t *testing.T) {
		ge := newTestEngine(t, "p0")
		for i := 0; i < maxPlayers; i++ {
			require.NoError(t, ge.AddPlayer(NewTestPlayer(fmt.Sprintf("p%d", i), "someone")))
		}
		assert.ErrorIs(t, ge.AddPlayer(NewTestPlayer("late", "Late")), ErrGameFull)
	})

	t.Run("no joining once the game has started", func(t *testing.T) {
		ge, _, _ := startedEngine(t)
		assert.ErrorIs(t, ge.AddPlayer(NewTestPlayer("late", "Late")), ErrGameAlreadyStarted)
	})

	t.Run("a seated player can reconnect mid-game", func(t *testing.T) {
		ge, p1, p2 := startedEngine(t)

		ge.RemovePlayer(p2)
		expect(t, p1, protocol.PlayerLeft)

		back := NewTestPlayer(p2.ID(), p2.Name())
		require.NoError(t, ge.AddPlayer(back))
		msg := expect(t, back, protocol.NewJoiner)
		require.NotNil(t, msg.State)
		assert.Equal(t, game.AwaitingFirstDraw, msg.State.Phase)

		seat, _ := ge.Seat(back.ID())
		assert.Equal(t, 2, seat)
	})

	t.Run("reconnecting drops the old connection", func(t *testing.T) {
		p1, p2 := NewTestPlayer("p1", "A"), NewTestPlayer("p2", "B")
		ge := newTestEngine(t, p1.ID(), p1, p2)

		require.NoError(t, ge.AddPlayer(p2))
		assert.False(t, p2.Closed())

		fresh := NewTestPlayer(p2.ID(), p2.Name())
		require.NoError(t, ge.AddPlayer(fresh))
		assert.True(t, p2.Closed())
		assert.False(t, fresh.Closed())

		found, _ := ge.Players().Find(p2.ID())
		assert.Same(t, fresh, found)
	})

	t.Run("stopped engine refuses players", func(t *testing.T) {
		ge, err := NewGameEngine(GameEngineOpts{CreatorID: "p0", Logger: quietLogger()})
		require.NoError(t, err)
		ge.Stop()
		assert.ErrorIs(t, ge.AddPlayer(NewTestPlayer("p1", "Harry")), ErrEngineStopped)
	})
}

func TestGameEngineRemovePlayer(t *testing.T) {
	t.Run("seats close up before the game starts", func(t *testing.T) {
		p1, p2, p3 := NewTestPlayer("p1", "A"), NewTestPlayer("p2", "B"), NewTestPlayer("p3", "C")
		ge := newTestEngine(t, p1.ID(), p1, p2, p3)

		ge.RemovePlayer(p2)
		msg := expect(t, p1, protocol.PlayerLeft)
		assert.Len(t, msg.Players, 2)

		seat, _ := ge.Seat(p3.ID())
		assert.Equal(t, 2, seat)
		_, ok := ge.Seat(p2.ID())
		assert.False(t, ok)
	})

	t.Run("stale connections do not remove a reconnected player", func(t *testing.T) {
		p1 := NewTestPlayer("p1", "A")
		p2 := NewTestPlayer("p2", "B")
		ge := newTestEngine(t, p1.ID(), p1, p2)

		fresh := NewTestPlayer("p2", "B")
		require.NoError(t, ge.AddPlayer(fresh))
		ge.RemovePlayer(p2)

		send(ge, p1, protocol.State)
		expect(t, p1, protocol.State)
		found, ok := ge.Players().Find("p2")
		assert.True(t, ok)
		assert.Same(t, fresh, found)
	})
}

func TestGameEngineStart(t *testing.T) {
	t.Run("only the creator can start", func(t *testing.T) {
		p1, p2 := NewTestPlayer("p1", "A"), NewTestPlayer("p2", "B")
		ge := newTestEngine(t, p1.ID(), p1, p2)

		send(ge, p2, protocol.Start)
		msg := expect(t, p2, protocol.Error)
		assert.Equal(t, ErrNotCreator.Error(), msg.Error)
		assert.Equal(t, Idle, ge.PlayState())
	})

	t.Run("needs two players", func(t *testing.T) {
		p1 := NewTestPlayer("p1", "A")
		ge := newTestEngine(t, p1.ID(), p1)

		send(ge, p1, protocol.Start)
		msg := expect(t, p1, protocol.Error)
		assert.Equal(t, ErrTooFewPlayers.Error(), msg.Error)
	})

	t.Run("initializes the game for everyone seated", func(t *testing.T) {
		p1, p2, p3 := NewTestPlayer("p1", "A"), NewTestPlayer("p2", "B"), NewTestPlayer("p3", "C")
		ge := newTestEngine(t, p1.ID(), p1, p2, p3)

		send(ge, p1, protocol.Start)

		for i, p := range []*TestPlayer{p1, p2, p3} {
			msg := expect(t, p, protocol.HasStarted)
			require.NotNil(t, msg.State)
			assert.Equal(t, 3, msg.State.PlayerCount)
			assert.Equal(t, game.Seeding, msg.State.Phase)
			assert.Equal(t, i+1, msg.Seat)
		}
		assert.Equal(t, InProgress, ge.PlayState())

		send(ge, p1, protocol.Start)
		msg := expect(t, p1, protocol.Error)
		assert.Equal(t, ErrGameAlreadyStarted.Error(), msg.Error)
	})

	t.Run("festival and first player need a started game", func(t *testing.T) {
		p1, p2 := NewTestPlayer("p1", "A"), NewTestPlayer("p2", "B")
		ge := newTestEngine(t, p1.ID(), p1, p2)

		send(ge, p1, protocol.SeedFestival)
		msg := expect(t, p1, protocol.Error)
		assert.Equal(t, ErrGameNotStarted.Error(), msg.Error)
	})
}

func TestGameEngineTurns(t *testing.T) {
	t.Run("only the active player can act", func(t *testing.T) {
		ge, p1, p2 := startedEngine(t)

		send(ge, p2, protocol.DrawFirstCard)
		msg := expect(t, p2, protocol.Error)
		assert.Equal(t, ErrNotYourTurn.Error(), msg.Error)
		assert.Equal(t, game.AwaitingFirstDraw, ge.Snapshot().Phase)

		send(ge, p1, protocol.DrawFirstCard)
		msg = expect(t, p2, protocol.State)
		assert.Equal(t, game.AwaitingFirstAction, msg.State.Phase)
		assert.Equal(t, "Player 1 drew a tulip", msg.Message)
	})

	t.Run("a whole turn passes play to the next seat", func(t *testing.T) {
		ge, p1, p2 := startedEngine(t)

		send(ge, p1, protocol.DrawFirstCard)
		expect(t, p1, protocol.State)
		act(ge, p1, protocol.TakeFirstAction, game.KeepAction())
		expect(t, p1, protocol.State)
		send(ge, p1, protocol.DrawSecondCard)
		expect(t, p1, protocol.State)

		act(ge, p1, protocol.TakeSecondAction, game.AddToSecretPile())
		msg := expect(t, p2, protocol.State)
		assert.Equal(t, "Player 1 chose Secret", msg.Message)
		assert.Equal(t, 1, msg.State.SecretCount)

		send(ge, p1, protocol.AdvanceTurn)
		msg = expect(t, p2, protocol.State)
		assert.Equal(t, 2, msg.State.ActiveSeat)
		assert.Len(t, msg.State.History, 1)
	})

	t.Run("game errors go back to the sender only", func(t *testing.T) {
		ge, p1, p2 := startedEngine(t)

		act(ge, p1, protocol.TakeFirstAction, game.KeepAction())
		msg := expect(t, p1, protocol.Error)
		assert.Equal(t, game.ErrNoCardDrawn.Error(), msg.Error)

		send(ge, p1, protocol.State)
		expect(t, p1, protocol.State)
		for _, m := range p2.Received() {
			assert.NotEqual(t, protocol.Error, m.Command)
		}
	})

	t.Run("unknown senders and commands are rejected", func(t *testing.T) {
		ge, p1, _ := startedEngine(t)

		ge.Receive(protocol.InboundMessage{PlayerID: "stranger", Command: protocol.DrawFirstCard})
		ge.Receive(protocol.InboundMessage{PlayerID: p1.ID(), Command: protocol.Cmd(99)})
		msg := expect(t, p1, protocol.Error)
		assert.Contains(t, msg.Error, ErrUnknownCommand.Error())

		assert.Equal(t, game.AwaitingFirstDraw, ge.Snapshot().Phase)
	})

	t.Run("plays to the end of the deck", func(t *testing.T) {
		ge, p1, p2 := startedEngine(t)
		players := map[int]*TestPlayer{1: p1, 2: p2}

		for ge.PlayState() == InProgress {
			p := players[ge.Snapshot().ActiveSeat]
			send(ge, p, protocol.DrawFirstCard)
			expect(t, p, protocol.State)
			act(ge, p, protocol.TakeFirstAction, game.KeepAction())
			expect(t, p, protocol.State)
			send(ge, p, protocol.DrawSecondCard)
			expect(t, p, protocol.State)
			act(ge, p, protocol.TakeSecondAction, game.AddToFestival())
			expect(t, p, protocol.State)
			send(ge, p, protocol.AdvanceTurn)

			if ge.Snapshot().DeckCount == 0 {
				break
			}
			expect(t, p, protocol.State)
		}

		msg := expect(t, p2, protocol.GameOver)
		assert.Equal(t, game.GameOver, msg.State.Phase)
		assert.Equal(t, Finished, ge.PlayState())
		assert.Len(t, msg.State.History, 11)

		send(ge, p1, protocol.DrawFirstCard)
		msg = expect(t, p1, protocol.Error)
		assert.Equal(t, ErrGameFinished.Error(), msg.Error)

		send(ge, p1, protocol.SeedFestival)
		msg = expect(t, p1, protocol.Error)
		assert.Equal(t, ErrGameFinished.Error(), msg.Error)
		assert.Equal(t, Finished, ge.PlayState())
	})
}

func TestGameEngineSerializesCommands(t *testing.T) {
	ge, p1, p2 := startedEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			send(ge, p2, protocol.DrawFirstCard)
		}()
		go func() {
			defer wg.Done()
			_ = ge.Snapshot()
			send(ge, p1, protocol.State)
		}()
	}

	utils.Within(t, gameEngineTestTimeout, wg.Wait)

	send(ge, p1, protocol.DrawFirstCard)
	expect(t, p2, protocol.State)
	got := ge.Snapshot()
	assert.Equal(t, game.AwaitingFirstAction, got.Phase)
	assert.Equal(t, 21, got.DeckCount)
}

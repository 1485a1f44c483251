package engine

import (
	"sync"

	"github.com/minaorangina/tulips/protocol"
)

// TestPlayer records everything the engine sends it.
// It is exported so other packages can drive an engine in their tests.
type TestPlayer struct {
	id       string
	name     string
	mu       sync.Mutex
	received []protocol.OutboundMessage
	closed   bool
	Inbox    chan protocol.OutboundMessage
}

func NewTestPlayer(id, name string) *TestPlayer {
	return &TestPlayer{
		id:    id,
		name:  name,
		Inbox: make(chan protocol.OutboundMessage, 256),
	}
}

func (tp *TestPlayer) ID() string {
	return tp.id
}

func (tp *TestPlayer) Name() string {
	return tp.name
}

func (tp *TestPlayer) Send(msg protocol.OutboundMessage) error {
	tp.mu.Lock()
	tp.received = append(tp.received, msg)
	tp.mu.Unlock()

	select {
	case tp.Inbox <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Received returns every message sent so far
func (tp *TestPlayer) Received() []protocol.OutboundMessage {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return append([]protocol.OutboundMessage{}, tp.received...)
}

func (tp *TestPlayer) Close() error {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.closed = true
	return nil
}

// Closed reports whether the engine has dropped this player's connection
func (tp *TestPlayer) Closed() bool {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.closed
}

// NextOf discards messages until one with cmd arrives
func (tp *TestPlayer) NextOf(cmd protocol.Cmd) protocol.OutboundMessage {
	for msg := range tp.Inbox {
		if msg.Command == cmd {
			return msg
		}
	}
	return protocol.OutboundMessage{}
}

// SomePlayers returns two test players
func SomePlayers() Players {
	return NewPlayers(
		NewTestPlayer("player-1", "Hermione"),
		NewTestPlayer("player-2", "Ron"),
	)
}

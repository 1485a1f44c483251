package engine

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/tulips/protocol"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBufferSize = 32
)

var ErrSendBufferFull = errors.New("player send buffer is full")

// NewID constructs a player ID
func NewID() string {
	return uuid.NewV4().String()
}

// Player represents a connected participant in a game
type Player interface {
	ID() string
	Name() string
	Send(msg protocol.OutboundMessage) error
}

// WSPlayer is a player connected over a websocket
type WSPlayer struct {
	id     string
	name   string
	conn   *websocket.Conn
	sendCh chan []byte
	ge     GameEngine
}

// NewWSPlayer constructs a websocket player and starts pumping messages
// between the connection and the game engine
func NewWSPlayer(id, name string, ws *websocket.Conn, ge GameEngine) *WSPlayer {
	player := &WSPlayer{
		id:     id,
		name:   name,
		conn:   ws,
		sendCh: make(chan []byte, sendBufferSize),
		ge:     ge,
	}

	go player.writePump()
	go player.readPump()

	return player
}

func (p *WSPlayer) ID() string {
	return p.id
}

func (p *WSPlayer) Name() string {
	return p.name
}

// Send queues a message for the write pump without blocking the game loop
func (p *WSPlayer) Send(msg protocol.OutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case p.sendCh <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close drops the connection. The pumps notice and wind down on their own.
func (p *WSPlayer) Close() error {
	return p.conn.Close()
}

func (p *WSPlayer) readPump() {
	defer func() {
		p.ge.RemovePlayer(p)
		p.conn.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.InboundMessage
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("player_id", p.id).Warn("websocket closed unexpectedly")
			}
			return
		}

		// never trust the client about who it is
		msg.PlayerID = p.id
		p.ge.Receive(msg)
	}
}

func (p *WSPlayer) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-p.sendCh:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Players represents all players in the game
type Players []Player

// NewPlayers returns a set of Players
func NewPlayers(p ...Player) Players {
	return Players(p)
}

// AddPlayer adds a player to a set of Players
func AddPlayer(ps Players, p Player) Players {
	if _, ok := ps.Find(p.ID()); !ok {
		return Players(append(ps, p))
	}
	return ps
}

// ReplacePlayer swaps in p for the player with the same ID and returns the
// player it displaced, if any
func ReplacePlayer(ps Players, p Player) (Players, Player) {
	var old Player
	replaced := Players{}
	for _, existing := range ps {
		if existing.ID() == p.ID() {
			old = existing
			existing = p
		}
		replaced = append(replaced, existing)
	}
	return replaced, old
}

// RemovePlayer returns ps without the player with id
func RemovePlayer(ps Players, id string) Players {
	remaining := Players{}
	for _, p := range ps {
		if p.ID() != id {
			remaining = append(remaining, p)
		}
	}
	return remaining
}

// Find finds a player by id
func (ps Players) Find(id string) (Player, bool) {
	for _, p := range ps {
		if got := p.ID(); got == id {
			return p, true
		}
	}
	return nil, false
}

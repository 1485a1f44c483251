package protocol

import (
	"github.com/minaorangina/tulips/game"
)

type Player struct {
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
	Seat     int    `json:"seat,omitempty"`
}

// PlayerInfo is what the server knows about a player before their websocket connects
type PlayerInfo struct {
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
}

// InboundMessage is a message from Player to GameEngine
type InboundMessage struct {
	PlayerID string      `json:"playerID"`
	Command  Cmd         `json:"command"`
	Seat     int         `json:"seat,omitempty"`
	Action   game.Action `json:"action,omitempty"`
}

// OutboundMessage is a message from GameEngine to Player
type OutboundMessage struct {
	PlayerID string      `json:"playerID"`
	Command  Cmd         `json:"command"`
	Name     string      `json:"name"`
	Message  string      `json:"message"`
	Seat     int         `json:"seat,omitempty"`
	Joiner   Player      `json:"joiner,omitempty"`
	Players  []Player    `json:"players,omitempty"`
	State    *game.State `json:"state,omitempty"`
	Error    string      `json:"error,omitempty"`
}

type Cmd int

const (
	Null Cmd = iota
	NewJoiner
	PlayerLeft
	Start
	HasStarted
	Error
	SeedFestival
	DecideFirstPlayer
	DrawFirstCard
	TakeFirstAction
	DrawSecondCard
	TakeSecondAction
	AdvanceTurn
	State
	GameOver
)

var CmdNames = map[Cmd]string{
	Null:              "Null",
	NewJoiner:         "NewJoiner",
	PlayerLeft:        "PlayerLeft",
	Start:             "Start",
	HasStarted:        "HasStarted",
	Error:             "Error",
	SeedFestival:      "SeedFestival",
	DecideFirstPlayer: "DecideFirstPlayer",
	DrawFirstCard:     "DrawFirstCard",
	TakeFirstAction:   "TakeFirstAction",
	DrawSecondCard:    "DrawSecondCard",
	TakeSecondAction:  "TakeSecondAction",
	AdvanceTurn:       "AdvanceTurn",
	State:             "State",
	GameOver:          "GameOver",
}

var NameToCmd = map[string]Cmd{}

func init() {
	for cmd, name := range CmdNames {
		NameToCmd[name] = cmd
	}
}

func (c Cmd) String() string {
	return CmdNames[c]
}

// TurnCommand reports whether only the active player may send c
func (c Cmd) TurnCommand() bool {
	switch c {
	case DrawFirstCard, TakeFirstAction, DrawSecondCard, TakeSecondAction, AdvanceTurn:
		return true
	}
	return false
}

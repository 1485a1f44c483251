package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/tulips/engine"
	"github.com/minaorangina/tulips/game"
	"github.com/minaorangina/tulips/store"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type NewGameReq struct {
	Name string `json:"name"`
}

type PendingGameRes struct {
	GameID   string   `json:"game_id"`
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Admin    bool     `json:"is_admin"`
	Players  []string `json:"players,omitempty"`
}

type JoinGameReq struct {
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

type GetGameRes struct {
	Status string      `json:"status"`
	GameID string      `json:"game_id"`
	State  *game.State `json:"state,omitempty"`
}

// GameServer is a game server
type GameServer struct {
	store store.GameStore
	log   logrus.FieldLogger
	http.Server
}

// NewServer creates a new GameServer.
// Cross-origin requests are allowed from allowedOrigins, or from anywhere if none are given.
func NewServer(s store.GameStore, allowedOrigins ...string) *GameServer {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	g := &GameServer{
		store: s,
		log:   logrus.StandardLogger(),
	}

	router := http.NewServeMux()
	router.Handle("/new", http.HandlerFunc(g.HandleNewGame))
	router.Handle("/game/", http.HandlerFunc(g.HandleFindGame))
	router.Handle("/join", http.HandlerFunc(g.HandleJoinGame))
	router.Handle("/ws", http.HandlerFunc(g.HandleWS))

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	g.Handler = cors(router)

	return g
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

// HandleNewGame handles a request to create a new game
func (g *GameServer) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data NewGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		writeParseError(g.log, err, w)
		return
	}
	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	gameID := NewGameID()
	playerID := engine.NewID()
	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		GameID:    gameID,
		CreatorID: playerID,
		Game:      game.New(),
		Logger:    g.log,
	})
	if err != nil {
		g.log.WithError(err).Error("could not create game engine")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := g.store.AddInactiveGame(ge); err != nil {
		g.log.WithError(err).Error("could not store game")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// get hub running
	go ge.Listen()

	if err := g.store.AddPendingPlayer(gameID, playerID, data.Name); err != nil {
		g.log.WithError(err).Error("could not add creator")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	g.log.WithFields(logrus.Fields{"game_id": gameID, "player_id": playerID}).Info("game created")

	writeJSON(g.log, w, http.StatusCreated, PendingGameRes{
		GameID:   gameID,
		PlayerID: playerID,
		Name:     data.Name,
		Admin:    true,
	})
}

func (g *GameServer) HandleFindGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	gameID := strings.TrimPrefix(r.URL.Path, "/game/")
	if gameID == "" {
		writeText(w, http.StatusBadRequest, "missing game ID")
		return
	}

	ge := g.store.FindGame(gameID)
	if ge == nil {
		writeText(w, http.StatusNotFound, unknownGameIDMsg(gameID))
		return
	}

	state := ge.Snapshot()
	writeJSON(g.log, w, http.StatusOK, GetGameRes{
		Status: ge.PlayState().String(),
		GameID: gameID,
		State:  &state,
	})
}

func (g *GameServer) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data JoinGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		writeParseError(g.log, err, w)
		return
	}

	if data.GameID == "" {
		writeText(w, http.StatusBadRequest, "Missing game ID")
		return
	}
	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	ge := g.store.FindInactiveGame(data.GameID)
	if ge == nil {
		writeText(w, http.StatusBadRequest, unknownGameIDMsg(data.GameID))
		return
	}

	playerID := engine.NewID()
	if err := g.store.AddPendingPlayer(data.GameID, playerID, data.Name); err != nil {
		g.log.WithError(err).WithField("game_id", data.GameID).Warn("could not add pending player")
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	playerNames := []string{}
	for _, p := range ge.Players() {
		playerNames = append(playerNames, p.Name())
	}

	writeJSON(g.log, w, http.StatusOK, PendingGameRes{
		GameID:   data.GameID,
		PlayerID: playerID,
		Name:     data.Name,
		Players:  playerNames,
	})
}

// HandleWS connects a pending player to their game
func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	gameID := query.Get("game_id")
	if gameID == "" {
		writeText(w, http.StatusBadRequest, "missing game ID")
		return
	}
	playerID := query.Get("player_id")
	if playerID == "" {
		writeText(w, http.StatusBadRequest, "missing player ID")
		return
	}

	log := g.log.WithFields(logrus.Fields{"game_id": gameID, "player_id": playerID})

	ge := g.store.FindGame(gameID)
	if ge == nil {
		writeText(w, http.StatusBadRequest, unknownGameIDMsg(gameID))
		return
	}

	pendingPlayer := g.store.FindPendingPlayer(gameID, playerID)
	if pendingPlayer == nil {
		writeText(w, http.StatusBadRequest, "unknown player ID")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		log.WithError(err).Warn("could not upgrade to websocket")
		return
	}

	player := engine.NewWSPlayer(playerID, pendingPlayer.Name, conn, ge)
	if err := g.store.AddPlayerToGame(gameID, player); err != nil {
		log.WithError(err).Warn("could not add player to game")
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(time.Second),
		)
		conn.Close()
		return
	}

	log.Info("player connected")
}

func unknownGameIDMsg(unknownID string) string {
	return fmt.Sprintf("unknown game ID '%s'", unknownID)
}

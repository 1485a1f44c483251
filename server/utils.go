package server

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const gameIDLength = 6

var (
	gameIDLetters = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	gameIDMu      sync.Mutex
	gameIDRand    = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NewGameID returns a short code players can read out to each other
func NewGameID() string {
	gameIDMu.Lock()
	defer gameIDMu.Unlock()

	code := make([]byte, gameIDLength)
	for i := range code {
		code[i] = gameIDLetters[gameIDRand.Intn(len(gameIDLetters))]
	}

	return string(code)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func writeJSON(log logrus.FieldLogger, w http.ResponseWriter, status int, payload interface{}) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("could not marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func writeParseError(log logrus.FieldLogger, err error, w http.ResponseWriter) {
	if err == io.EOF {
		writeText(w, http.StatusBadRequest, "Missing body")
		return
	}

	log.WithError(err).Info("could not parse request")
	writeText(w, http.StatusBadRequest, "Malformed body")
}

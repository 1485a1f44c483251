package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/joeshaw/envdecode"
	"github.com/minaorangina/tulips/server"
	"github.com/minaorangina/tulips/store"
	"github.com/sirupsen/logrus"
)

type config struct {
	Port           int    `env:"PORT,default=8000"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=*"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
}

func main() {
	var cfg config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		logrus.WithError(err).Fatal("could not read config")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("bad LOG_LEVEL")
	}
	logrus.SetLevel(level)

	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	s := server.NewServer(store.NewInMemoryGameStore(), origins...)
	addr := fmt.Sprintf(":%d", cfg.Port)

	logrus.WithField("addr", addr).Info("listening")
	logrus.Fatal(http.ListenAndServe(addr, handlers.LoggingHandler(os.Stdout, s)))
}

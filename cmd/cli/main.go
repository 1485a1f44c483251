package main

import (
	"flag"
	"os"

	"github.com/minaorangina/tulips/engine"
	"github.com/minaorangina/tulips/game"
	"github.com/sirupsen/logrus"
)

func main() {
	players := flag.Int("players", 2, "number of players (2-6)")
	flag.Parse()

	if err := engine.RunHotseat(os.Stdin, os.Stdout, game.New(), *players); err != nil {
		logrus.WithError(err).Fatal("game stopped")
	}
}

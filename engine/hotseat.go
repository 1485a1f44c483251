package engine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minaorangina/tulips/game"
)

// RunHotseat plays a whole game at a single terminal, one line per command.
// It returns when the game ends, the player quits or in runs out.
func RunHotseat(in io.Reader, out io.Writer, g *game.Game, playerCount int) error {
	if err := g.Initialize(playerCount); err != nil {
		return err
	}

	SendText(out, welcomeText)
	SendText(out, helpText)
	SendText(out, buildStateText(g.State()))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			SendText(out, helpText)
			continue
		case "state":
			SendText(out, buildStateText(g.State()))
			continue
		}

		if err := runCommand(g, fields); err != nil {
			SendText(out, errorText, err)
			continue
		}

		if g.GameOver() {
			SendText(out, buildStateText(g.State()))
			SendText(out, gameOverText)
			return nil
		}
		SendText(out, buildStateText(g.State()))
	}

	return scanner.Err()
}

func runCommand(g *game.Game, fields []string) error {
	switch fields[0] {
	case "seed":
		return g.SeedFestival()

	case "first":
		seat, err := seatArg(fields)
		if err != nil {
			return err
		}
		return g.DecideFirstPlayer(seat)

	case "draw":
		var err error
		if g.Phase() == game.AwaitingSecondDraw {
			_, err = g.DrawSecondCard()
		} else {
			_, err = g.DrawFirstCard()
		}
		return err

	case "keep":
		return takeAction(g, game.KeepAction())

	case "give":
		if len(fields) < 2 {
			return takeAction(g, game.Action{Kind: game.Give})
		}
		seat, err := seatArg(fields)
		if err != nil {
			return err
		}
		return takeAction(g, game.GiveTo(seat))

	case "festival":
		return takeAction(g, game.AddToFestival())

	case "secret":
		return takeAction(g, game.AddToSecretPile())

	case "next":
		return g.AdvanceTurn()
	}

	return fmt.Errorf("unknown command %q", fields[0])
}

func takeAction(g *game.Game, a game.Action) error {
	if g.Phase() == game.AwaitingSecondAction {
		return g.TakeSecondAction(a)
	}
	return g.TakeFirstAction(a)
}

func seatArg(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("%s needs a seat number", fields[0])
	}
	seat, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%q is not a seat number", fields[1])
	}
	return seat, nil
}

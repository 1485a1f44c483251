package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/minaorangina/tulips/deck"
	"github.com/minaorangina/tulips/game"
)

const (
	welcomeText  = "Welcome to Gift of Tulips! 🌷\n"
	helpText     = "Commands: seed, first <seat>, draw, keep, give <seat>, festival, secret, next, state, help, quit\n"
	gameOverText = "\nNo tulips left. The game is over!\n"
	errorText    = "Oops: %s\n"
)

func SendText(w io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(w, text, a...)
}

func buildCollectionText(c game.Collection) string {
	parts := []string{}
	for _, color := range deck.Colors() {
		values := []string{}
		for _, card := range c[color] {
			v := fmt.Sprintf("%d", card.Value)
			if card.Bonus {
				v += "*"
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			values = append(values, "-")
		}
		parts = append(parts, fmt.Sprintf("%s: %s", color, strings.Join(values, " ")))
	}
	return strings.Join(parts, " | ")
}

func buildPromptText(s game.State) string {
	switch s.Phase {
	case game.NotStarted:
		return "No game yet."
	case game.Seeding:
		return "Type \"seed\" to seed the festival."
	case game.ChoosingFirstPlayer:
		return fmt.Sprintf("Who goes first? Type \"first <seat>\" (1-%d).", s.PlayerCount)
	case game.AwaitingFirstDraw, game.AwaitingSecondDraw:
		return fmt.Sprintf("Player %d, type \"draw\" to draw a tulip.", s.ActiveSeat)
	case game.AwaitingFirstAction, game.AwaitingSecondAction:
		kinds := []string{}
		for _, k := range s.Allowed {
			kinds = append(kinds, strings.ToLower(k.String()))
		}
		return fmt.Sprintf("Player %d, where does it go? (%s)", s.ActiveSeat, strings.Join(kinds, ", "))
	case game.AwaitingAdvance:
		return fmt.Sprintf("Player %d, type \"next\" to end your turn.", s.ActiveSeat)
	case game.GameOver:
		return "The game is over."
	}
	return ""
}

func buildStateText(s game.State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nFestival 🎪 %s\n", buildCollectionText(s.Festival))
	for _, p := range s.Players {
		marker := " "
		if p.Seat == s.ActiveSeat {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s Player %d: %s\n", marker, p.Seat, buildCollectionText(p.Collection))
	}
	fmt.Fprintf(&b, "Deck: %d tulips, secret pile: %d tulips\n", s.DeckCount, s.SecretCount)

	if t := s.CurrentTurn; t != nil {
		if t.FirstCard != nil && t.FirstAction == nil {
			fmt.Fprintf(&b, "Drawn: %s\n", t.FirstCard)
		}
		if t.SecondCard != nil && t.SecondAction == nil {
			fmt.Fprintf(&b, "Drawn: %s\n", t.SecondCard)
		}
	}

	b.WriteString(buildPromptText(s))
	b.WriteString("\n")

	return b.String()
}

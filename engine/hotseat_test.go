package engine

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/minaorangina/tulips/game"
	utils "github.com/minaorangina/tulips/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHotseatGame() *game.Game {
	return game.New(game.WithRand(rand.New(rand.NewSource(utils.FixedSeed))))
}

func TestRunHotseat(t *testing.T) {
	t.Run("plays a two player game to the end", func(t *testing.T) {
		g := newHotseatGame()
		script := "seed\nfirst 1\n" + strings.Repeat("draw\nsecret\ndraw\nkeep\nnext\n", 11)
		out := &bytes.Buffer{}

		err := RunHotseat(strings.NewReader(script), out, g, 2)
		require.NoError(t, err)

		assert.True(t, g.GameOver())
		assert.Len(t, g.History(), 11)
		assert.Len(t, g.Secret(), 11)
		assert.Contains(t, out.String(), welcomeText)
		assert.True(t, strings.HasSuffix(out.String(), gameOverText), out.String())
	})

	t.Run("reports mistakes and carries on", func(t *testing.T) {
		g := newHotseatGame()
		script := "first 1\nseed\nkeep\ngive\ndance\nfirst one\n"
		out := &bytes.Buffer{}

		require.NoError(t, RunHotseat(strings.NewReader(script), out, g, 3))

		text := out.String()
		assert.Contains(t, text, fmt.Sprintf(errorText, game.ErrFestivalNotSeeded))
		assert.Contains(t, text, fmt.Sprintf(errorText, game.ErrNoActiveTurn))
		assert.Contains(t, text, fmt.Sprintf(errorText, `unknown command "dance"`))
		assert.Contains(t, text, fmt.Sprintf(errorText, `"one" is not a seat number`))
		assert.Equal(t, game.ChoosingFirstPlayer, g.Phase())
	})

	t.Run("gives go to the named seat", func(t *testing.T) {
		g := newHotseatGame()
		script := "seed\nfirst 2\ndraw\ngive 2\ngive\ngive 3\n"
		out := &bytes.Buffer{}

		require.NoError(t, RunHotseat(strings.NewReader(script), out, g, 3))

		text := out.String()
		assert.Contains(t, text, fmt.Sprintf(errorText, game.ErrGiveToSelf))
		assert.Contains(t, text, fmt.Sprintf(errorText, game.ErrMissingTarget))

		p3, ok := g.Player(3)
		require.True(t, ok)
		assert.Equal(t, 1, p3.Collection.Count())
		assert.Equal(t, game.AwaitingSecondDraw, g.Phase())
	})

	t.Run("quits on request", func(t *testing.T) {
		g := newHotseatGame()
		out := &bytes.Buffer{}

		require.NoError(t, RunHotseat(strings.NewReader("help\nquit\nseed\n"), out, g, 4))
		assert.False(t, g.Seeded())
		assert.Equal(t, 2, strings.Count(out.String(), helpText))
	})

	t.Run("refuses a bad player count", func(t *testing.T) {
		err := RunHotseat(strings.NewReader(""), &bytes.Buffer{}, newHotseatGame(), 7)
		assert.ErrorIs(t, err, game.ErrInvalidPlayerCount)
	})
}

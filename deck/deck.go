package deck

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	copiesPerCard   = 2
	bonusMinPlayers = 6
)

var ErrInvalidPlayerCount = errors.New("player count must be between 2 and 6")

// discardsByPlayerCount is how many cards go back in the box before play
var discardsByPlayerCount = map[int]int{
	2: 0,
	3: 18,
	4: 4,
	5: 6,
	6: 14,
}

// Deck represents an ordered pile of tulips. Cards are drawn from the front.
type Deck []Card

// Build creates an unshuffled deck for the given number of players
func Build(playerCount int) Deck {
	cards := Deck{}
	for _, color := range Colors() {
		for _, value := range Values() {
			for i := 0; i < copiesPerCard; i++ {
				cards = append(cards, NewCard(color, value))
			}
			if playerCount >= bonusMinPlayers {
				for i := 0; i < copiesPerCard; i++ {
					cards = append(cards, NewBonusCard(color, value))
				}
			}
		}
	}
	return cards
}

// DiscardCount returns the number of cards removed from a fresh deck
func DiscardCount(playerCount int) (int, error) {
	n, ok := discardsByPlayerCount[playerCount]
	if !ok {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, playerCount)
	}
	return n, nil
}

// SeedAndTrim builds and shuffles a deck, then discards from the top
func SeedAndTrim(playerCount int, r *rand.Rand) (Deck, error) {
	discards, err := DiscardCount(playerCount)
	if err != nil {
		return nil, err
	}

	d := Build(playerCount)
	d.Shuffle(r)

	return d[discards:], nil
}

// NewRand returns a time-seeded source for callers that don't care about determinism
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle shuffles the deck in place (Fisher-Yates)
func (d *Deck) Shuffle(r *rand.Rand) {
	if r == nil {
		r = NewRand()
	}
	actualDeck := *d
	for i := len(actualDeck) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		actualDeck[i], actualDeck[j] = actualDeck[j], actualDeck[i]
	}
}

// Shuffled returns a shuffled copy, leaving the receiver untouched
func (d Deck) Shuffled(r *rand.Rand) Deck {
	cp := d.Clone()
	cp.Shuffle(r)
	return cp
}

// Clone copies the deck
func (d Deck) Clone() Deck {
	cp := make(Deck, len(d))
	copy(cp, d)
	return cp
}

// Draw removes and returns the front card
func (d *Deck) Draw() (Card, bool) {
	if len(*d) == 0 {
		return Card{}, false
	}
	c := (*d)[0]
	*d = (*d)[1:]
	return c, true
}

// Remove takes out the card at index i
func (d *Deck) Remove(i int) (Card, bool) {
	if i < 0 || i >= len(*d) {
		return Card{}, false
	}
	c := (*d)[i]
	rest := make(Deck, 0, len(*d)-1)
	rest = append(rest, (*d)[:i]...)
	rest = append(rest, (*d)[i+1:]...)
	*d = rest
	return c, true
}

// IndexFunc returns the index of the first card satisfying f, or -1
func (d Deck) IndexFunc(f func(Card) bool) int {
	for i, c := range d {
		if f(c) {
			return i
		}
	}
	return -1
}

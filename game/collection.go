package game

import "github.com/minaorangina/tulips/deck"

// Collection holds tulips grouped by color. Every color is always present.
type Collection map[deck.Color][]deck.Card

// NewCollection returns a collection with an empty bucket per color
func NewCollection() Collection {
	c := Collection{}
	for _, color := range deck.Colors() {
		c[color] = []deck.Card{}
	}
	return c
}

// Add files a card under its own color
func (c Collection) Add(card deck.Card) {
	c[card.Color] = append(c[card.Color], card)
}

// Count is the total number of cards held
func (c Collection) Count() int {
	n := 0
	for _, cards := range c {
		n += len(cards)
	}
	return n
}

func (c Collection) Empty() bool {
	return c.Count() == 0
}

// Cards flattens the collection in color order
func (c Collection) Cards() []deck.Card {
	cards := []deck.Card{}
	for _, color := range deck.Colors() {
		cards = append(cards, c[color]...)
	}
	return cards
}

// Clone returns a deep copy
func (c Collection) Clone() Collection {
	cp := NewCollection()
	for color, cards := range c {
		cp[color] = append([]deck.Card{}, cards...)
	}
	return cp
}

package deck

import (
	"fmt"
	"strings"
)

// Color represents the color of a tulip
type Color int

const (
	Blue Color = iota
	Red
	Pink
	Orange
)

var colorNames = []string{"Blue", "Red", "Pink", "Orange"}

// Colors lists every tulip color in deck order
func Colors() []Color {
	return []Color{Blue, Red, Pink, Orange}
}

func (c Color) String() string {
	if c < Blue || c > Orange {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

// MarshalText lets a Color be used as a JSON value and map key
func (c Color) MarshalText() ([]byte, error) {
	if c < Blue || c > Orange {
		return nil, fmt.Errorf("unknown color %d", int(c))
	}
	return []byte(colorNames[c]), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	for i, name := range colorNames {
		if strings.EqualFold(name, string(text)) {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("unknown color %q", text)
}

// Value is the number printed on a tulip
type Value int

const (
	Two   Value = 2
	Three Value = 3
	Four  Value = 4
)

// Values lists every tulip value in deck order
func Values() []Value {
	return []Value{Two, Three, Four}
}

// Card represents a single tulip.
// Bonus cards only appear in decks built for more than five players.
type Card struct {
	Color Color `json:"color"`
	Value Value `json:"value"`
	Bonus bool  `json:"bonus,omitempty"`
}

// NewCard constructs a plain card
func NewCard(color Color, value Value) Card {
	return Card{Color: color, Value: value}
}

// NewBonusCard constructs a card from the five/six player set
func NewBonusCard(color Color, value Value) Card {
	return Card{Color: color, Value: value, Bonus: true}
}

func (c Card) String() string {
	if c.Bonus {
		return fmt.Sprintf("%s %d (bonus)", c.Color, c.Value)
	}
	return fmt.Sprintf("%s %d", c.Color, c.Value)
}

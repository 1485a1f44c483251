package game

import (
	"fmt"
	"strings"
)

// ActionKind is the destination chosen for a drawn tulip
type ActionKind int

const (
	NoAction ActionKind = iota
	Keep
	Give
	Festival
	Secret
)

var actionKindNames = map[ActionKind]string{
	NoAction: "None",
	Keep:     "Keep",
	Give:     "Give",
	Festival: "Festival",
	Secret:   "Secret",
}

// ActionKinds lists the playable kinds
func ActionKinds() []ActionKind {
	return []ActionKind{Keep, Give, Festival, Secret}
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

func (k ActionKind) valid() bool {
	switch k {
	case Keep, Give, Festival, Secret:
		return true
	}
	return false
}

func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(text []byte) error {
	for kind, name := range actionKindNames {
		if strings.EqualFold(name, string(text)) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, text)
}

// Action is what a player does with a drawn tulip.
// Target is the receiving seat and only applies to Give.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Target int        `json:"target,omitempty"`
}

func KeepAction() Action {
	return Action{Kind: Keep}
}

func GiveTo(seat int) Action {
	return Action{Kind: Give, Target: seat}
}

func AddToFestival() Action {
	return Action{Kind: Festival}
}

func AddToSecretPile() Action {
	return Action{Kind: Secret}
}

func (a Action) String() string {
	if a.Kind == Give {
		return fmt.Sprintf("Give to %d", a.Target)
	}
	return a.Kind.String()
}

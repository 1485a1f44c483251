package game

import (
	"errors"

	"github.com/minaorangina/tulips/deck"
)

var (
	ErrInvalidPlayerCount    = deck.ErrInvalidPlayerCount
	ErrNotInitialized        = errors.New("no game started, provide number of players")
	ErrDeckEmpty             = errors.New("deck is currently empty")
	ErrDeckExhausted         = errors.New("no tulips left in deck, game should have ended")
	ErrFestivalAlreadySeeded = errors.New("festival already has tulips added")
	ErrFestivalNotSeeded     = errors.New("festival has not been seeded")
	ErrNoEligibleSecondCard  = errors.New("no tulip of a different color left to seed the festival")
	ErrNoActiveTurn          = errors.New("no turn in progress, decide first player")
	ErrTurnInProgress        = errors.New("first player has already been decided")
	ErrInvalidSeat           = errors.New("no player in that seat")
	ErrNoCardDrawn           = errors.New("taking action before drawing tulip")
	ErrCardAlreadyDrawn      = errors.New("tulip already drawn")
	ErrActionAlreadyTaken    = errors.New("action already taken for this tulip")
	ErrFirstActionPending    = errors.New("first tulip has not been placed")
	ErrUnknownAction         = errors.New("unknown action")
	ErrMissingTarget         = errors.New("give action but no target provided")
	ErrGiveToSelf            = errors.New("cannot give a tulip to yourself")
	ErrDuplicateActionKind   = errors.New("not allowed to take the same action twice in one turn")
	ErrTurnIncomplete        = errors.New("turn still has actions to take")
)

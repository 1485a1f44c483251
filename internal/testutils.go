package internal

import (
	"testing"
	"time"

	"github.com/minaorangina/tulips/deck"
)

// CountCards tallies every card across the given piles
func CountCards(piles ...[]deck.Card) map[deck.Card]int {
	counts := map[deck.Card]int{}
	for _, pile := range piles {
		for _, c := range pile {
			counts[c]++
		}
	}
	return counts
}

// FixedSeed is used by tests that need a repeatable shuffle
const FixedSeed = 20210107

// Within fails the test if assert doesn't return within d
func Within(t *testing.T, d time.Duration, assert func()) {
	t.Helper()

	done := make(chan struct{}, 1)

	go func() {
		assert()
		done <- struct{}{}
	}()

	select {
	case <-time.After(d):
		t.Error("timed out")
	case <-done:
	}
}

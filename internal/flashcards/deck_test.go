package flashcards_test

import (
	"testing"

	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
)

func TestDeckBounds(t *testing.T) {
	for n := 1; n <= 4; n++ {
		d := flashcards.NewDeck(make([]flashcards.Card, n))
		if d.Previous() || d.Current() != 0 {
			t.Fatalf("n=%d: Previous at 0 moved to %d", n, d.Current())
		}
		d.Last()
		if d.Current() != n-1 {
			t.Fatalf("n=%d: Last = %d", n, d.Current())
		}
		if d.Next() || d.Current() != n-1 {
			t.Fatalf("n=%d: Next at end moved to %d", n, d.Current())
		}
	}
}

func TestDeckNavigation(t *testing.T) {
	d := flashcards.NewDeck(threeCards().Cards)
	if d.State() != flashcards.StateActive || d.Current() != 0 {
		t.Fatalf("new deck: state=%s current=%d", d.State(), d.Current())
	}
	if !d.Next() || d.Current() != 1 {
		t.Fatalf("Next: current=%d", d.Current())
	}
	if !d.Previous() || d.Current() != 0 {
		t.Fatalf("Previous: current=%d", d.Current())
	}
	if !d.JumpTo(2) || !d.IsLast() {
		t.Fatalf("JumpTo(2): current=%d", d.Current())
	}
	if d.JumpTo(2) {
		t.Fatalf("JumpTo current index should not count as a move")
	}
	for _, bad := range []int{-1, 3, 99} {
		if d.JumpTo(bad) || d.Current() != 2 {
			t.Fatalf("JumpTo(%d) changed cursor to %d", bad, d.Current())
		}
	}
	if !d.First() || !d.IsFirst() {
		t.Fatalf("First: current=%d", d.Current())
	}
}

func TestDeckCopiesCards(t *testing.T) {
	cards := []flashcards.Card{{Text: "a"}, {Text: "b"}}
	d := flashcards.NewDeck(cards)
	cards[0].Text = "changed"
	if d.Card(0).Text != "a" {
		t.Fatalf("deck shares caller slice")
	}
	out := d.Cards()
	out[1].Text = "changed"
	if d.Card(1).Text != "b" {
		t.Fatalf("Cards() exposes internal slice")
	}
}

func TestEmptyDeck(t *testing.T) {
	d := flashcards.NewDeck(nil)
	if d.Next() || d.Previous() || d.Last() || d.JumpTo(0) {
		t.Fatalf("empty deck should never move")
	}
	if !d.IsFirst() || !d.IsLast() {
		t.Fatalf("empty deck is both first and last")
	}
}

package flashcards

// DeckState is either Active or Completed.
type DeckState string

const (
	StateActive    DeckState = "active"
	StateCompleted DeckState = "completed"
)

// Deck is the ordered, fixed-length card sequence with its cursor.
type Deck struct {
	cards   []Card
	current int
	state   DeckState
}

// NewDeck copies cards so later edits to the slice cannot leak in.
func NewDeck(cards []Card) *Deck {
	cp := make([]Card, len(cards))
	copy(cp, cards)
	return &Deck{cards: cp, state: StateActive}
}

func (d *Deck) Len() int { return len(d.cards) }
func (d *Deck) Current() int { return d.current }
func (d *Deck) State() DeckState { return d.state }
func (d *Deck) Card(i int) Card { return d.cards[i] }
func (d *Deck) Completed() bool { return d.state == StateCompleted }
func (d *Deck) inRange(i int) bool { return i >= 0 && i < len(d.cards) }

// Cards returns a copy of the deck's cards.
func (d *Deck) Cards() []Card {
	cp := make([]Card, len(d.cards))
	copy(cp, d.cards)
	return cp
}

// IsFirst and IsLast also hold for an empty deck.
func (d *Deck) IsFirst() bool { return d.current == 0 }
func (d *Deck) IsLast() bool { return d.current >= len(d.cards)-1 }

// Next moves one card forward. It reports whether the cursor moved.
func (d *Deck) Next() bool {
	if d.IsLast() {
		return false
	}
	d.current++
	return true
}

// Previous moves one card back. It reports whether the cursor moved.
func (d *Deck) Previous() bool {
	if d.IsFirst() {
		return false
	}
	d.current--
	return true
}

func (d *Deck) First() bool { return d.JumpTo(0) }
func (d *Deck) Last() bool { return d.JumpTo(len(d.cards) - 1) }

// JumpTo positions the cursor directly. Out-of-range indices are ignored;
// jumping to the current card is not a move.
func (d *Deck) JumpTo(i int) bool {
	if !d.inRange(i) || i == d.current {
		return false
	}
	d.current = i
	return true
}

// complete switches the deck to Completed and parks it on the last card.
// It reports false if the deck was already completed.
func (d *Deck) complete() bool {
	if d.state == StateCompleted {
		return false
	}
	d.state = StateCompleted
	d.Last()
	return true
}

func (d *Deck) reset() {
	d.current = 0
	d.state = StateActive
}

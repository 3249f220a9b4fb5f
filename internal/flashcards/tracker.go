package flashcards

// AttemptRecord is the learner's stored answer for one card.
type AttemptRecord struct {
	CardIndex  int    `json:"card_index"`
	UserAnswer string `json:"user_answer"`
}

// SubmitResult is the outcome of one submission.
type SubmitResult struct {
	Accepted bool `json:"accepted"`
	Correct  bool `json:"correct"`
	// NeedsInput is set when an empty answer was refused; the caller should
	// move focus back to the input.
	NeedsInput bool `json:"needs_input,omitempty"`
	// Completed is set on the submission that finished the deck.
	Completed bool `json:"completed,omitempty"`
}

// AttemptTracker keeps one answer slot per card of a deck.
type AttemptTracker struct {
	deck          *Deck
	caseSensitive bool
	requireInput  bool
	records       []*AttemptRecord
	numAnswered   int
}

func NewAttemptTracker(deck *Deck, caseSensitive, requireInput bool) *AttemptTracker {
	return &AttemptTracker{
		deck:          deck,
		caseSensitive: caseSensitive,
		requireInput:  requireInput,
		records:       make([]*AttemptRecord, deck.Len()),
	}
}

func (t *AttemptTracker) NumAnswered() int { return t.numAnswered }

// Answered reports whether card i holds an accepted answer.
func (t *AttemptTracker) Answered(i int) bool {
	return i >= 0 && i < len(t.records) && t.records[i] != nil
}

// Record returns the stored answer for card i.
func (t *AttemptTracker) Record(i int) (AttemptRecord, bool) {
	if !t.Answered(i) {
		return AttemptRecord{}, false
	}
	return *t.records[i], true
}

// Correct reports whether card i is answered and its answer evaluates true.
func (t *AttemptTracker) Correct(i int) bool {
	if !t.Answered(i) {
		return false
	}
	return IsCorrect(t.deck.Card(i), t.records[i].UserAnswer, t.caseSensitive)
}

// AllAnswered is the completion condition.
func (t *AttemptTracker) AllAnswered() bool {
	return t.deck.Len() > 0 && t.numAnswered == t.deck.Len()
}

// Submit stores userAnswer for card index unless the card is already
// answered, the index is out of range, or an empty answer is refused.
// The deck is completed by the submission that fills the last empty slot.
func (t *AttemptTracker) Submit(index int, userAnswer string) SubmitResult {
	if !t.deck.inRange(index) || t.Answered(index) {
		return SubmitResult{}
	}
	correct := IsCorrect(t.deck.Card(index), userAnswer, t.caseSensitive)
	if t.requireInput && userAnswer == "" && !correct {
		return SubmitResult{NeedsInput: true}
	}

	t.records[index] = &AttemptRecord{CardIndex: index, UserAnswer: userAnswer}
	t.numAnswered++

	res := SubmitResult{Accepted: true, Correct: correct}
	if t.AllAnswered() {
		res.Completed = t.deck.complete()
	}
	return res
}

// Answers returns the given answers in deck order; unanswered cards yield "".
func (t *AttemptTracker) Answers() []string {
	out := make([]string, len(t.records))
	for i, r := range t.records {
		if r != nil {
			out[i] = r.UserAnswer
		}
	}
	return out
}

func (t *AttemptTracker) reset() {
	t.records = make([]*AttemptRecord, t.deck.Len())
	t.numAnswered = 0
}

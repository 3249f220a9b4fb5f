package flashcards

// ScoreCalculator derives scores from the tracker on every call; nothing is
// stored between calls.
type ScoreCalculator struct {
	deck    *Deck
	tracker *AttemptTracker
}

func NewScoreCalculator(deck *Deck, tracker *AttemptTracker) ScoreCalculator {
	return ScoreCalculator{deck: deck, tracker: tracker}
}

// Score counts answered cards whose answer evaluates correct.
func (s ScoreCalculator) Score() int {
	n := 0
	for i := 0; i < s.deck.Len(); i++ {
		if s.tracker.Correct(i) {
			n++
		}
	}
	return n
}

func (s ScoreCalculator) MaxScore() int { return s.deck.Len() }

// Scaled is Score/MaxScore, or 0 for an empty deck.
func (s ScoreCalculator) Scaled() float64 {
	max := s.MaxScore()
	if max == 0 {
		return 0
	}
	return float64(s.Score()) / float64(max)
}

package flashcards

// ResultEntry is one row of the results view.
type ResultEntry struct {
	Index          int    `json:"index"`
	ImagePath      string `json:"image_path,omitempty"`
	ImageAlt       string `json:"image_alt,omitempty"`
	NoImage        bool   `json:"no_image"`
	Question       string `json:"question"`
	GivenAnswer    string `json:"given_answer"`
	Correct        bool   `json:"correct"`
	ExpectedAnswer string `json:"expected_answer,omitempty"` // only when incorrect
}

// Results is the aggregated outcome shown once the deck is completed.
type Results struct {
	Entries      []ResultEntry `json:"entries"`
	Score        int           `json:"score"`
	MaxScore     int           `json:"max_score"`
	Summary      string        `json:"summary"`
	RetryEnabled bool          `json:"retry_enabled"`
}

// Aggregate builds the per-card breakdown in deck order.
func Aggregate(deck *Deck, tracker *AttemptTracker, l10n L10n) Results {
	calc := NewScoreCalculator(deck, tracker)
	entries := make([]ResultEntry, 0, deck.Len())
	for i := 0; i < deck.Len(); i++ {
		card := deck.Card(i)
		e := ResultEntry{
			Index:    i,
			Question: card.Text,
			NoImage:  !card.HasImage(),
			Correct:  tracker.Correct(i),
		}
		if card.HasImage() {
			e.ImagePath = card.Image.Path
			e.ImageAlt = card.Image.AltText
		}
		if rec, ok := tracker.Record(i); ok {
			e.GivenAnswer = rec.UserAnswer
		}
		if !e.Correct {
			e.ExpectedAnswer = PlainText(card.Answer)
		}
		entries = append(entries, e)
	}
	score, max := calc.Score(), calc.MaxScore()
	return Results{
		Entries:      entries,
		Score:        score,
		MaxScore:     max,
		Summary:      l10n.ScoreSummary(score, max),
		RetryEnabled: RetryEnabled(score, max),
	}
}

// RetryEnabled is true while the learner has something left to improve.
func RetryEnabled(score, maxScore int) bool { return score < maxScore }

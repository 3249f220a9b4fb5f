package flashcards

// CardView is what a client renders for the current card.
type CardView struct {
	Index    int    `json:"index"`
	Text     string `json:"text,omitempty"`
	Image    *Image `json:"image,omitempty"`
	NoImage  string `json:"no_image,omitempty"`
	Tip      string `json:"tip,omitempty"`
	Answered bool   `json:"answered"`

	GivenAnswer    string `json:"given_answer,omitempty"`
	Correct        *bool  `json:"correct,omitempty"`
	ExpectedAnswer string `json:"expected_answer,omitempty"`
}

// View is a snapshot of the quiz for rendering.
type View struct {
	Title            string    `json:"title,omitempty"`
	Description      string    `json:"description,omitempty"`
	State            DeckState `json:"state"`
	Current          int       `json:"current"`
	Total            int       `json:"total"`
	Progress         string    `json:"progress"`
	NumAnswered      int       `json:"num_answered"`
	Score            int       `json:"score"`
	MaxScore         int       `json:"max_score"`
	IsFirst          bool      `json:"is_first"`
	IsLast           bool      `json:"is_last"`
	CaseSensitive    bool      `json:"case_sensitive"`
	ResultsAvailable bool      `json:"results_available"`
	ResultsShown     bool      `json:"results_shown"`
	Card             *CardView `json:"card,omitempty"`
	L10n             L10n      `json:"l10n"`
}

func (q *Quiz) View() View {
	q.mu.Lock()
	defer q.mu.Unlock()

	v := View{
		Title:            q.content.Title,
		Description:      q.content.Description,
		State:            q.deck.State(),
		Current:          q.deck.Current(),
		Total:            q.deck.Len(),
		NumAnswered:      q.tracker.NumAnswered(),
		Score:            q.calc.Score(),
		MaxScore:         q.calc.MaxScore(),
		IsFirst:          q.deck.IsFirst(),
		IsLast:           q.deck.IsLast(),
		CaseSensitive:    q.content.CaseSensitive,
		ResultsAvailable: q.resultsAvailableLocked(),
		ResultsShown:     q.resultsShown,
		L10n:             q.l10n,
	}
	if q.deck.Len() == 0 {
		return v
	}
	v.Progress = q.l10n.ProgressText(q.deck.Current(), q.deck.Len())

	i := q.deck.Current()
	card := q.deck.Card(i)
	cv := &CardView{Index: i, Text: card.Text, Tip: card.Tip}
	if card.HasImage() {
		cv.Image = &Image{Path: q.resolvePath(card.Image.Path), AltText: card.Image.AltText}
	} else {
		cv.NoImage = q.l10n.NoImage
	}
	if rec, ok := q.tracker.Record(i); ok {
		correct := q.tracker.Correct(i)
		cv.Answered = true
		cv.GivenAnswer = rec.UserAnswer
		cv.Correct = &correct
		if !correct {
			cv.ExpectedAnswer = PlainText(card.Answer)
		}
	}
	v.Card = cv
	return v
}

package flashcards

// Image is the optional picture shown on a card.
type Image struct {
	Path    string `json:"path" yaml:"path"`
	AltText string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Card is one quiz unit. Every field is optional.
type Card struct {
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Answer string `json:"answer,omitempty" yaml:"answer,omitempty"` // rich text
	Image  *Image `json:"image,omitempty" yaml:"image,omitempty"`
	Tip    string `json:"tip,omitempty" yaml:"tip,omitempty"`
}

// HasImage reports whether the card carries a usable image reference.
func (c Card) HasImage() bool { return c.Image != nil && c.Image.Path != "" }

// HasAnswer reports whether an answer was authored for the card.
func (c Card) HasAnswer() bool { return PlainText(c.Answer) != "" }

// L10n holds the label and announcement templates. Tokens: @card, @current,
// @total, @score, @answer.
type L10n struct {
	Progress                  string `json:"progressText,omitempty" yaml:"progressText,omitempty"`
	Next                      string `json:"next,omitempty" yaml:"next,omitempty"`
	Previous                  string `json:"previous,omitempty" yaml:"previous,omitempty"`
	CheckAnswer               string `json:"checkAnswerText,omitempty" yaml:"checkAnswerText,omitempty"`
	DefaultAnswer             string `json:"defaultAnswerText,omitempty" yaml:"defaultAnswerText,omitempty"`
	Correct                   string `json:"correctAnswerText,omitempty" yaml:"correctAnswerText,omitempty"`
	Incorrect                 string `json:"incorrectAnswerText,omitempty" yaml:"incorrectAnswerText,omitempty"`
	ShowSolution              string `json:"showSolutionText,omitempty" yaml:"showSolutionText,omitempty"`
	AnswerShort               string `json:"answerShortText,omitempty" yaml:"answerShortText,omitempty"`
	Tip                       string `json:"informationText,omitempty" yaml:"informationText,omitempty"`
	CaseSensitive             string `json:"caseSensitive,omitempty" yaml:"caseSensitive,omitempty"`
	Results                   string `json:"results,omitempty" yaml:"results,omitempty"`
	OfCorrect                 string `json:"ofCorrect,omitempty" yaml:"ofCorrect,omitempty"`
	ShowResults               string `json:"showResults,omitempty" yaml:"showResults,omitempty"`
	Retry                     string `json:"retry,omitempty" yaml:"retry,omitempty"`
	NoImage                   string `json:"noImage,omitempty" yaml:"noImage,omitempty"`
	CardAnnouncement          string `json:"cardAnnouncement,omitempty" yaml:"cardAnnouncement,omitempty"`
	CorrectAnswerAnnouncement string `json:"correctAnswerAnnouncement,omitempty" yaml:"correctAnswerAnnouncement,omitempty"`
	PageAnnouncement          string `json:"pageAnnouncement,omitempty" yaml:"pageAnnouncement,omitempty"`
}

// DefaultL10n returns the English templates.
func DefaultL10n() L10n {
	return L10n{
		Progress:                  "Card @card of @total",
		Next:                      "Next",
		Previous:                  "Previous",
		CheckAnswer:               "Check",
		DefaultAnswer:             "Your answer",
		Correct:                   "Correct",
		Incorrect:                 "Incorrect",
		ShowSolution:              "Correct answer",
		AnswerShort:               "A:",
		Tip:                       "Information",
		CaseSensitive:             "Case sensitive",
		Results:                   "Results",
		OfCorrect:                 "@score of @total correct",
		ShowResults:               "Show results",
		Retry:                     "Retry",
		NoImage:                   "No image",
		CardAnnouncement:          "Incorrect answer. Correct answer was @answer",
		CorrectAnswerAnnouncement: "@answer is correct!",
		PageAnnouncement:          "Page @current of @total",
	}
}

// withDefaults fills every empty template from DefaultL10n.
func (l L10n) withDefaults() L10n {
	d := DefaultL10n()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&l.Progress, d.Progress)
	fill(&l.Next, d.Next)
	fill(&l.Previous, d.Previous)
	fill(&l.CheckAnswer, d.CheckAnswer)
	fill(&l.DefaultAnswer, d.DefaultAnswer)
	fill(&l.Correct, d.Correct)
	fill(&l.Incorrect, d.Incorrect)
	fill(&l.ShowSolution, d.ShowSolution)
	fill(&l.AnswerShort, d.AnswerShort)
	fill(&l.Tip, d.Tip)
	fill(&l.CaseSensitive, d.CaseSensitive)
	fill(&l.Results, d.Results)
	fill(&l.OfCorrect, d.OfCorrect)
	fill(&l.ShowResults, d.ShowResults)
	fill(&l.Retry, d.Retry)
	fill(&l.NoImage, d.NoImage)
	fill(&l.CardAnnouncement, d.CardAnnouncement)
	fill(&l.CorrectAnswerAnnouncement, d.CorrectAnswerAnnouncement)
	fill(&l.PageAnnouncement, d.PageAnnouncement)
	return l
}

// Content is the authored configuration of one flashcard activity.
type Content struct {
	Title                      string `json:"title,omitempty" yaml:"title,omitempty"`
	Description                string `json:"description,omitempty" yaml:"description,omitempty"`
	Cards                      []Card `json:"cards" yaml:"cards"`
	CaseSensitive              bool   `json:"caseSensitive" yaml:"caseSensitive"`
	ShowSolutionsRequiresInput *bool  `json:"showSolutionsRequiresInput,omitempty" yaml:"showSolutionsRequiresInput,omitempty"`
	L10n                       L10n   `json:"l10n,omitempty" yaml:"l10n,omitempty"`
}

// RequiresInput resolves ShowSolutionsRequiresInput, which defaults to true.
func (c Content) RequiresInput() bool {
	if c.ShowSolutionsRequiresInput == nil {
		return true
	}
	return *c.ShowSolutionsRequiresInput
}

// AnswerlessCards lists the indices of cards without an authored answer.
// Blank input counts as correct for those cards.
func (c Content) AnswerlessCards() []int {
	var out []int
	for i, card := range c.Cards {
		if !card.HasAnswer() {
			out = append(out, i)
		}
	}
	return out
}

package flashcards

import (
	"strconv"
	"strings"
	"time"

	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
)

// XAPIDescription concatenates the content description with every card's
// question followed by the blank placeholder.
func XAPIDescription(description string, cards []Card) string {
	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(description)
	b.WriteString("</p>")
	for _, c := range cards {
		b.WriteString("<p>")
		b.WriteString(c.Text)
		b.WriteString(" ")
		b.WriteString(xapi.Placeholder)
		b.WriteString("</p>")
	}
	return b.String()
}

// CorrectResponsesPattern encodes case sensitivity and every expected
// answer, e.g. {case_matters=true}Chat[,]Chien.
func CorrectResponsesPattern(cards []Card, caseSensitive bool) string {
	answers := make([]string, len(cards))
	for i, c := range cards {
		answers[i] = PlainText(c.Answer)
	}
	return "{case_matters=" + strconv.FormatBool(caseSensitive) + "}" + strings.Join(answers, xapi.Separator)
}

// XAPIResponse joins the given answers in deck order.
func XAPIResponse(answers []string) string {
	return strings.Join(answers, xapi.Separator)
}

// StatementInput is everything the builder needs from a quiz.
type StatementInput struct {
	Content   Content
	Cards     []Card
	Answers   []string
	Score     int
	MaxScore  int
	Completed bool
	Elapsed   time.Duration
}

// BuildStatement fills an empty statement obtained from the host factory.
func BuildStatement(st *xapi.Statement, in StatementInput) *xapi.Statement {
	lang := "en-US"
	if st.Context != nil && st.Context.Language != "" {
		lang = st.Context.Language
	}
	def := st.Object.Definition
	if def == nil {
		def = &xapi.Definition{}
		st.Object.Definition = def
	}
	if in.Content.Title != "" {
		def.Name = xapi.LanguageMap{lang: in.Content.Title}
	}
	def.Description = xapi.LanguageMap{lang: XAPIDescription(in.Content.Description, in.Cards)}
	def.Type = xapi.ActivityInteraction
	def.InteractionType = xapi.InteractionFillIn
	def.CorrectResponsesPattern = []string{CorrectResponsesPattern(in.Cards, in.Content.CaseSensitive)}

	st.Result = &xapi.Result{
		Score:      xapi.NewScore(float64(in.Score), float64(in.MaxScore)),
		Success:    xapi.Bool(in.MaxScore > 0 && in.Score == in.MaxScore),
		Completion: xapi.Bool(in.Completed),
		Response:   XAPIResponse(in.Answers),
		Duration:   xapi.Duration(in.Elapsed),
	}
	return st
}

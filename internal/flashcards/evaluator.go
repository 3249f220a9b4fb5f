package flashcards

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlainText strips markup from rich text and decodes entities.
// Malformed markup degrades to whatever text the tokenizer recovers.
func PlainText(rich string) string {
	if !strings.ContainsAny(rich, "<&") {
		return rich
	}
	z := html.NewTokenizer(strings.NewReader(rich))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way keep what was read.
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// fold lowercases s without locale-specific rules.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// IsCorrect compares a learner's input with the card's expected answer.
// A card without an answer expects the empty string.
func IsCorrect(card Card, userAnswer string, caseSensitive bool) bool {
	expected := PlainText(card.Answer)
	if !caseSensitive {
		expected = fold(expected)
		userAnswer = fold(userAnswer)
	}
	return expected == userAnswer
}

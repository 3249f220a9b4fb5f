package flashcards

import (
	"sort"
	"strconv"
	"strings"
)

// Fill replaces @tokens in a template. Longer tokens are replaced first so
// that @current is not clobbered by a shorter token sharing its prefix.
func Fill(tmpl string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(tmpl, "@") {
		return tmpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for _, k := range sortedTokens(vars) {
		pairs = append(pairs, "@"+k, vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func sortedTokens(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// PageText is read out after a page change (1-based position).
func (l L10n) PageText(current, total int) string {
	return Fill(l.withDefaults().PageAnnouncement, map[string]string{
		"current": strconv.Itoa(current + 1),
		"total":   strconv.Itoa(total),
	})
}

// ProgressText renders "Card @card of @total" for the cursor position.
func (l L10n) ProgressText(current, total int) string {
	return Fill(l.withDefaults().Progress, map[string]string{
		"card":  strconv.Itoa(current + 1),
		"total": strconv.Itoa(total),
	})
}

// AnswerAnnouncement confirms a correct answer or reveals the expected one.
func (l L10n) AnswerAnnouncement(card Card, correct bool) string {
	d := l.withDefaults()
	tmpl := d.CardAnnouncement
	if correct {
		tmpl = d.CorrectAnswerAnnouncement
	}
	return Fill(tmpl, map[string]string{"answer": PlainText(card.Answer)})
}

// ScoreSummary renders "@score of @total correct".
func (l L10n) ScoreSummary(score, total int) string {
	return Fill(l.withDefaults().OfCorrect, map[string]string{
		"score": strconv.Itoa(score),
		"total": strconv.Itoa(total),
	})
}

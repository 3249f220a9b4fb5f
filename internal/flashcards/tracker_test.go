package flashcards_test

import (
	"reflect"
	"testing"

	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
)

func newTracker(c flashcards.Content) (*flashcards.Deck, *flashcards.AttemptTracker) {
	d := flashcards.NewDeck(c.Cards)
	return d, flashcards.NewAttemptTracker(d, c.CaseSensitive, c.RequiresInput())
}

func TestSubmitCompletesOnce(t *testing.T) {
	d, tr := newTracker(threeCards())

	answers := []string{"paris", "lisbon", "rome"}
	for i, a := range answers {
		res := tr.Submit(i, a)
		if !res.Accepted {
			t.Fatalf("submit %d not accepted", i)
		}
		if res.Completed != (i == len(answers)-1) {
			t.Fatalf("submit %d: completed=%v", i, res.Completed)
		}
	}
	if tr.NumAnswered() != 3 {
		t.Fatalf("numAnswered=%d", tr.NumAnswered())
	}
	if d.State() != flashcards.StateCompleted || d.Current() != 2 {
		t.Fatalf("state=%s current=%d", d.State(), d.Current())
	}
	if res := tr.Submit(1, "madrid"); res.Accepted || res.Completed {
		t.Fatalf("re-submission accepted: %+v", res)
	}
	if rec, _ := tr.Record(1); rec.UserAnswer != "lisbon" {
		t.Fatalf("record overwritten: %+v", rec)
	}
}

func TestSubmitCompletionJumpsToLast(t *testing.T) {
	d, tr := newTracker(threeCards())
	tr.Submit(2, "Rome")
	tr.Submit(1, "Madrid")
	d.First()
	tr.Submit(0, "Paris")
	if !d.Completed() || d.Current() != 2 {
		t.Fatalf("completion should park on last card, current=%d", d.Current())
	}
}

func TestSubmitRequiresInput(t *testing.T) {
	_, tr := newTracker(catDog())
	res := tr.Submit(0, "")
	if res.Accepted || !res.NeedsInput {
		t.Fatalf("empty answer: %+v", res)
	}
	if tr.NumAnswered() != 0 || tr.Answered(0) {
		t.Fatalf("empty answer stored")
	}
}

func TestSubmitBlankAllowedWithoutRequiredInput(t *testing.T) {
	c := catDog()
	off := false
	c.ShowSolutionsRequiresInput = &off
	_, tr := newTracker(c)
	res := tr.Submit(0, "")
	if !res.Accepted || res.Correct {
		t.Fatalf("blank answer: %+v", res)
	}
}

func TestSubmitBlankOnAnswerlessCard(t *testing.T) {
	c := flashcards.Content{Cards: []flashcards.Card{{Text: "Say anything"}, {Text: "Dog", Answer: "Chien"}}}
	_, tr := newTracker(c)
	res := tr.Submit(0, "")
	if !res.Accepted || !res.Correct {
		t.Fatalf("answerless card with blank input: %+v", res)
	}
	if got := c.AnswerlessCards(); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("AnswerlessCards = %v", got)
	}
}

func TestSubmitOutOfRange(t *testing.T) {
	_, tr := newTracker(catDog())
	for _, i := range []int{-1, 2} {
		if res := tr.Submit(i, "x"); res.Accepted {
			t.Fatalf("index %d accepted", i)
		}
	}
}

func TestScoreIsDerived(t *testing.T) {
	d, tr := newTracker(threeCards())
	calc := flashcards.NewScoreCalculator(d, tr)
	if calc.Score() != 0 || calc.MaxScore() != 3 {
		t.Fatalf("initial %d/%d", calc.Score(), calc.MaxScore())
	}
	tr.Submit(0, "Paris")
	tr.Submit(1, "Lisbon")
	for i := 0; i < 3; i++ {
		if calc.Score() != 1 {
			t.Fatalf("call %d: score=%d", i, calc.Score())
		}
	}
	d.Next()
	d.Previous()
	tr.Submit(1, "Madrid")
	if calc.Score() != 1 {
		t.Fatalf("unrelated calls changed score to %d", calc.Score())
	}
	tr.Submit(2, "rome")
	if calc.Score() != 2 || calc.Scaled() != 2.0/3.0 {
		t.Fatalf("final %d scaled=%v", calc.Score(), calc.Scaled())
	}
}

func TestAggregate(t *testing.T) {
	c := catDog()
	c.Cards[0].Image = &flashcards.Image{Path: "images/cat.png", AltText: "a cat"}
	d, tr := newTracker(c)
	tr.Submit(0, "chat")
	tr.Submit(1, "loup")

	r := flashcards.Aggregate(d, tr, flashcards.DefaultL10n())
	if r.Score != 1 || r.MaxScore != 2 || !r.RetryEnabled {
		t.Fatalf("results: %+v", r)
	}
	if r.Summary != "1 of 2 correct" {
		t.Fatalf("summary %q", r.Summary)
	}
	cat, dog := r.Entries[0], r.Entries[1]
	if !cat.Correct || cat.ExpectedAnswer != "" || cat.ImagePath != "images/cat.png" || cat.NoImage {
		t.Fatalf("cat entry: %+v", cat)
	}
	if dog.Correct || dog.GivenAnswer != "loup" || dog.ExpectedAnswer != "Chien" || !dog.NoImage {
		t.Fatalf("dog entry: %+v", dog)
	}
}

func TestRetryEnabled(t *testing.T) {
	if !flashcards.RetryEnabled(1, 2) {
		t.Fatalf("1/2 should allow retry")
	}
	if flashcards.RetryEnabled(2, 2) {
		t.Fatalf("2/2 should not allow retry")
	}
}

func TestAnnouncements(t *testing.T) {
	l := flashcards.L10n{}
	if got := l.PageText(0, 3); got != "Page 1 of 3" {
		t.Fatalf("page: %q", got)
	}
	if got := l.ProgressText(1, 3); got != "Card 2 of 3" {
		t.Fatalf("progress: %q", got)
	}
	card := flashcards.Card{Answer: "<b>Chien</b>"}
	if got := l.AnswerAnnouncement(card, true); got != "Chien is correct!" {
		t.Fatalf("correct: %q", got)
	}
	if got := l.AnswerAnnouncement(card, false); got != "Incorrect answer. Correct answer was Chien" {
		t.Fatalf("incorrect: %q", got)
	}
	custom := flashcards.L10n{PageAnnouncement: "@current/@total"}
	if got := custom.PageText(4, 9); got != "5/9" {
		t.Fatalf("custom: %q", got)
	}
}

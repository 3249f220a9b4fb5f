package flashcards_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
)

var _ = Describe("Flashcard quiz", func() {
	var (
		clk  *fakeClock
		quiz *flashcards.Quiz
		rec  *recorder
	)

	start := func(c flashcards.Content) {
		clk = newFakeClock()
		rec = &recorder{}
		quiz = flashcards.New(c, flashcards.WithClock(clk))
		quiz.Subscribe(rec.listen)
		quiz.Attach()
	}

	AfterEach(func() {
		quiz.Close()
	})

	Context("Cat/Dog deck, case insensitive", func() {
		BeforeEach(func() { start(catDog()) })

		It("should score a perfect pass and disable retry", func() {
			Expect(quiz.Submit(0, "chat")).To(Equal(flashcards.SubmitResult{Accepted: true, Correct: true}))
			res := quiz.Submit(1, "chien")
			Expect(res.Accepted).To(BeTrue())
			Expect(res.Correct).To(BeTrue())
			Expect(res.Completed).To(BeTrue())

			Expect(quiz.GetScore()).To(Equal(2))
			Expect(quiz.GetMaxScore()).To(Equal(2))
			Expect(quiz.View().State).To(Equal(flashcards.StateCompleted))

			results, ok := quiz.ShowResults()
			Expect(ok).To(BeTrue())
			Expect(results.RetryEnabled).To(BeFalse())
		})

		It("should report the expected answer for a wrong card and enable retry", func() {
			quiz.Submit(0, "chat")
			quiz.Submit(1, "loup")

			Expect(quiz.GetScore()).To(Equal(1))
			results, ok := quiz.ShowResults()
			Expect(ok).To(BeTrue())
			Expect(results.RetryEnabled).To(BeTrue())
			Expect(results.Entries).To(HaveLen(2))
			Expect(results.Entries[1].GivenAnswer).To(Equal("loup"))
			Expect(results.Entries[1].ExpectedAnswer).To(Equal("Chien"))
			Expect(results.Entries[0].ExpectedAnswer).To(BeEmpty())
		})

		It("should refuse an empty answer when input is required", func() {
			res := quiz.Submit(0, "")
			Expect(res.Accepted).To(BeFalse())
			Expect(res.NeedsInput).To(BeTrue())
			Expect(quiz.View().NumAnswered).To(Equal(0))
			Expect(quiz.View().Card.Answered).To(BeFalse())
		})

		It("should keep the score stable across repeated reads", func() {
			quiz.Submit(0, "chat")
			first := quiz.GetScore()
			quiz.Next()
			quiz.Previous()
			quiz.JumpTo(7)
			Expect(quiz.GetScore()).To(Equal(first))
			Expect(quiz.GetScore()).To(Equal(first))
		})
	})

	Context("navigation bounds", func() {
		BeforeEach(func() { start(threeCards()) })

		It("should not move past either end", func() {
			Expect(quiz.Previous()).To(BeFalse())
			Expect(quiz.View().Current).To(Equal(0))
			quiz.Last()
			Expect(quiz.Next()).To(BeFalse())
			Expect(quiz.View().Current).To(Equal(2))
		})

		It("should silently ignore out-of-range jumps", func() {
			Expect(quiz.JumpTo(-1)).To(BeFalse())
			Expect(quiz.JumpTo(3)).To(BeFalse())
			Expect(quiz.View().Current).To(Equal(0))
		})
	})

	Context("three-card completion", func() {
		BeforeEach(func() { start(threeCards()) })

		It("should complete on the third accepted submission", func() {
			quiz.Submit(0, "paris")
			quiz.Submit(1, "madrid")
			Expect(quiz.ResultsAvailable()).To(BeFalse())
			quiz.Submit(2, "rome")

			v := quiz.View()
			Expect(v.NumAnswered).To(Equal(3))
			Expect(v.State).To(Equal(flashcards.StateCompleted))
			Expect(v.Current).To(Equal(2))
			Expect(quiz.ResultsAvailable()).To(BeTrue())
			Expect(rec.ofType(flashcards.EventCompleted)).To(HaveLen(1))
		})
	})

	Context("case sensitive deck", func() {
		BeforeEach(func() {
			c := flashcards.Content{CaseSensitive: true, Cards: []flashcards.Card{{Text: "Capital of France", Answer: "Paris"}}}
			start(c)
		})

		It("should only accept the exact case", func() {
			Expect(quiz.Submit(0, "paris").Correct).To(BeFalse())
			Expect(quiz.GetScore()).To(Equal(0))
		})
	})
})

package flashcards

import (
	"log"
	"sync"
	"time"

	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
)

const (
	// AutoAdvanceDelay is how long an incorrect answer stays on screen
	// before the quiz moves on by itself.
	AutoAdvanceDelay = 3500 * time.Millisecond
	// AnnounceDelay defers the page announcement until the card
	// transition has settled.
	AnnounceDelay = 500 * time.Millisecond
)

// Timer is the part of *time.Timer the quiz needs.
type Timer interface {
	Stop() bool
}

// Clock schedules the quiz's timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Quiz.
type Option func(*Quiz)

func WithClock(c Clock) Option { return func(q *Quiz) { q.clock = c } }

// WithImageResolver maps authored image paths to URLs the client can load.
func WithImageResolver(fn func(path string) string) Option {
	return func(q *Quiz) { q.resolve = fn }
}

// Quiz drives one learner's pass through a deck. All methods are safe for
// concurrent use; listeners run without the quiz lock held.
type Quiz struct {
	mu      sync.Mutex
	content Content
	l10n    L10n
	deck    *Deck
	tracker *AttemptTracker
	calc    ScoreCalculator
	clock   Clock
	resolve func(string) string

	attached     bool
	startedAt    time.Time
	finishedAt   time.Time
	resultsShown bool

	advanceTimer  Timer
	advanceGen    uint64
	announceTimer Timer
	announceGen   uint64

	events dispatcher
}

// New builds a quiz over content. It does nothing until Attach.
func New(content Content, opts ...Option) *Quiz {
	deck := NewDeck(content.Cards)
	tracker := NewAttemptTracker(deck, content.CaseSensitive, content.RequiresInput())
	q := &Quiz{
		content: content,
		l10n:    content.L10n.withDefaults(),
		deck:    deck,
		tracker: tracker,
		calc:    NewScoreCalculator(deck, tracker),
		clock:   realClock{},
	}
	for _, o := range opts {
		o(q)
	}
	if idx := content.AnswerlessCards(); len(idx) > 0 {
		log.Printf("flashcards: %q has cards without an answer %v; blank input is scored correct", content.Title, idx)
	}
	return q
}

// Subscribe registers l for every event and returns its unsubscribe func.
func (q *Quiz) Subscribe(l Listener) func() { return q.events.subscribe(l) }

// Attach starts the quiz on the first card. Only the first call has an
// effect; every other operation is ignored until then.
func (q *Quiz) Attach() bool {
	q.mu.Lock()
	if q.attached {
		q.mu.Unlock()
		return false
	}
	q.attached = true
	q.startedAt = q.clock.Now()
	evs := q.pageChangedLocked(false)
	q.mu.Unlock()
	q.events.emit(evs...)
	return true
}

// Next moves forward one card and cancels a pending auto-advance. A move
// that does not change the cursor leaves the timer running.
func (q *Quiz) Next() bool { return q.move(func(d *Deck) bool { return d.Next() }) }

// Previous moves back one card. Leaving the last card hides the results
// control, since ResultsAvailable requires the cursor on the last card.
func (q *Quiz) Previous() bool { return q.move(func(d *Deck) bool { return d.Previous() }) }

func (q *Quiz) First() bool { return q.move(func(d *Deck) bool { return d.First() }) }
func (q *Quiz) Last() bool  { return q.move(func(d *Deck) bool { return d.Last() }) }

// JumpTo positions the cursor; out-of-range indices are ignored.
func (q *Quiz) JumpTo(i int) bool { return q.move(func(d *Deck) bool { return d.JumpTo(i) }) }

func (q *Quiz) move(step func(*Deck) bool) bool {
	q.mu.Lock()
	if !q.attached {
		q.mu.Unlock()
		return false
	}
	moved := step(q.deck)
	var evs []Event
	if moved {
		q.cancelAdvanceLocked()
		q.resultsShown = false
		evs = q.pageChangedLocked(false)
	}
	q.mu.Unlock()
	q.events.emit(evs...)
	return moved
}

// Submit checks userAnswer for card index. The caller is expected to have
// trimmed the input.
func (q *Quiz) Submit(index int, userAnswer string) SubmitResult {
	q.mu.Lock()
	if !q.attached {
		q.mu.Unlock()
		return SubmitResult{}
	}
	before := q.deck.Current()
	res := q.tracker.Submit(index, userAnswer)
	if !res.Accepted {
		q.mu.Unlock()
		return res
	}

	card := q.deck.Card(index)
	evs := []Event{
		{Type: EventAnswerChecked, Index: index, Correct: res.Correct},
		{Type: EventAnnouncement, Text: q.l10n.AnswerAnnouncement(card, res.Correct)},
	}
	switch {
	case res.Completed:
		q.cancelAdvanceLocked()
		q.finishedAt = q.clock.Now()
		if q.deck.Current() != before {
			evs = append(evs, q.pageChangedLocked(false)...)
		}
		evs = append(evs, Event{Type: EventCompleted, Score: q.calc.Score(), MaxScore: q.calc.MaxScore()})
	case !res.Correct:
		q.scheduleAdvanceLocked()
	}
	q.mu.Unlock()
	q.events.emit(evs...)
	return res
}

// ResultsAvailable reports whether the "show results" control is offered:
// the deck is completed and the cursor is on the last card.
func (q *Quiz) ResultsAvailable() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resultsAvailableLocked()
}

func (q *Quiz) resultsAvailableLocked() bool {
	return q.attached && q.deck.Completed() && q.deck.IsLast()
}

// ShowResults switches to the results view when available.
func (q *Quiz) ShowResults() (Results, bool) {
	q.mu.Lock()
	if !q.resultsAvailableLocked() {
		q.mu.Unlock()
		return Results{}, false
	}
	q.cancelAdvanceLocked()
	q.resultsShown = true
	r := q.resultsLocked()
	q.mu.Unlock()
	q.events.emit(Event{Type: EventResultsShown, Score: r.Score, MaxScore: r.MaxScore})
	return r, true
}

// Results aggregates the current per-card breakdown.
func (q *Quiz) Results() Results {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resultsLocked()
}

func (q *Quiz) resultsLocked() Results {
	r := Aggregate(q.deck, q.tracker, q.l10n)
	for i := range r.Entries {
		r.Entries[i].ImagePath = q.resolvePath(r.Entries[i].ImagePath)
	}
	return r
}

// ResetTask clears every answer and returns to the first card in Active.
func (q *Quiz) ResetTask() {
	q.mu.Lock()
	if !q.attached {
		q.mu.Unlock()
		return
	}
	evs := q.resetLocked()
	q.mu.Unlock()
	q.events.emit(evs...)
}

func (q *Quiz) resetLocked() []Event {
	q.cancelAdvanceLocked()
	q.tracker.reset()
	q.deck.reset()
	q.resultsShown = false
	q.startedAt = q.clock.Now()
	q.finishedAt = time.Time{}
	return append([]Event{{Type: EventReset}}, q.pageChangedLocked(false)...)
}

// Retry is the results screen's retry action; it is only honoured while
// there is something left to improve.
func (q *Quiz) Retry() bool {
	q.mu.Lock()
	if !q.attached || !q.deck.Completed() || !RetryEnabled(q.calc.Score(), q.calc.MaxScore()) {
		q.mu.Unlock()
		return false
	}
	evs := q.resetLocked()
	q.mu.Unlock()
	q.events.emit(evs...)
	return true
}

func (q *Quiz) GetScore() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calc.Score()
}

func (q *Quiz) GetMaxScore() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calc.MaxScore()
}

// GetXAPIData populates st, an empty statement from the host factory, with
// this attempt.
func (q *Quiz) GetXAPIData(st *xapi.Statement) xapi.Data {
	q.mu.Lock()
	in := StatementInput{
		Content:   q.content,
		Cards:     q.deck.Cards(),
		Answers:   q.tracker.Answers(),
		Score:     q.calc.Score(),
		MaxScore:  q.calc.MaxScore(),
		Completed: q.deck.Completed(),
		Elapsed:   q.elapsedLocked(),
	}
	q.mu.Unlock()
	return xapi.Data{Statement: *BuildStatement(st, in)}
}

// LayoutChanged forwards the host's resize signal to listeners.
func (q *Quiz) LayoutChanged() {
	q.events.emit(Event{Type: EventLayoutChanged})
}

// Close stops pending timers. The quiz stays readable.
func (q *Quiz) Close() {
	q.mu.Lock()
	q.cancelAdvanceLocked()
	q.cancelAnnounceLocked()
	q.mu.Unlock()
}

func (q *Quiz) elapsedLocked() time.Duration {
	if q.startedAt.IsZero() {
		return 0
	}
	end := q.finishedAt
	if end.IsZero() {
		end = q.clock.Now()
	}
	return end.Sub(q.startedAt)
}

func (q *Quiz) resolvePath(p string) string {
	if p == "" || q.resolve == nil {
		return p
	}
	return q.resolve(p)
}

func (q *Quiz) scheduleAdvanceLocked() {
	q.cancelAdvanceLocked()
	gen := q.advanceGen
	q.advanceTimer = q.clock.AfterFunc(AutoAdvanceDelay, func() { q.autoAdvance(gen) })
}

// cancelAdvanceLocked stops the timer and invalidates one that has already
// fired but not yet taken the lock.
func (q *Quiz) cancelAdvanceLocked() {
	q.advanceGen++
	if q.advanceTimer != nil {
		q.advanceTimer.Stop()
		q.advanceTimer = nil
	}
}

func (q *Quiz) autoAdvance(gen uint64) {
	q.mu.Lock()
	if gen != q.advanceGen {
		q.mu.Unlock()
		return
	}
	q.advanceTimer = nil
	var evs []Event
	if q.deck.Next() {
		q.resultsShown = false
		evs = q.pageChangedLocked(true)
	}
	q.mu.Unlock()
	q.events.emit(evs...)
}

// pageChangedLocked returns the page event and schedules its deferred
// announcement, superseding one still pending. An empty deck has no pages.
func (q *Quiz) pageChangedLocked(auto bool) []Event {
	cur, total := q.deck.Current(), q.deck.Len()
	q.cancelAnnounceLocked()
	if total == 0 {
		return nil
	}
	gen := q.announceGen
	text := q.l10n.PageText(cur, total)
	q.announceTimer = q.clock.AfterFunc(AnnounceDelay, func() { q.announce(gen, text) })
	return []Event{{Type: EventPageChanged, Index: cur, Total: total, Auto: auto}}
}

func (q *Quiz) cancelAnnounceLocked() {
	q.announceGen++
	if q.announceTimer != nil {
		q.announceTimer.Stop()
		q.announceTimer = nil
	}
}

func (q *Quiz) announce(gen uint64, text string) {
	q.mu.Lock()
	if gen != q.announceGen {
		q.mu.Unlock()
		return
	}
	q.announceTimer = nil
	q.mu.Unlock()
	q.events.emit(Event{Type: EventAnnouncement, Text: text})
}

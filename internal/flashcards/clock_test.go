package flashcards_test

import (
	"sync"
	"time"

	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
)

/* ---------------- Manual clock: timers fire only on Advance ---------------- */

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	c       *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) flashcards.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward, firing due timers in deadline order without
// holding the clock lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

// pending counts timers that are neither stopped nor fired.
func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

/* ---------------- Event recorder ---------------- */

type recorder struct {
	mu     sync.Mutex
	events []flashcards.Event
}

func (r *recorder) listen(e flashcards.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) ofType(typ flashcards.EventType) []flashcards.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []flashcards.Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) texts() []string {
	var out []string
	for _, e := range r.ofType(flashcards.EventAnnouncement) {
		out = append(out, e.Text)
	}
	return out
}

func (r *recorder) clear() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func catDog() flashcards.Content {
	return flashcards.Content{
		Title:       "Animals",
		Description: "Translate to French",
		Cards: []flashcards.Card{
			{Text: "Cat", Answer: "Chat"},
			{Text: "Dog", Answer: "Chien"},
		},
	}
}

func threeCards() flashcards.Content {
	return flashcards.Content{
		Cards: []flashcards.Card{
			{Text: "Capital of France", Answer: "Paris"},
			{Text: "Capital of Spain", Answer: "Madrid"},
			{Text: "Capital of Italy", Answer: "Rome"},
		},
	}
}

package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-flashcards/internal/content"
	"github.com/mind-engage/mindengage-flashcards/internal/events"
	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
	"github.com/mind-engage/mindengage-flashcards/internal/metrics"
	"github.com/mind-engage/mindengage-flashcards/internal/session"
	"github.com/mind-engage/mindengage-flashcards/internal/statements"
	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

/* ---------------- Fakes ---------------- */

type decks map[string]flashcards.Content

func (d decks) Get(id string) (flashcards.Content, error) {
	c, ok := d[id]
	if !ok {
		return flashcards.Content{}, content.ErrNotFound
	}
	return c, nil
}

// heldClock queues timers until Flush.
type heldClock struct {
	mu  sync.Mutex
	now time.Time
	fns []*heldTimer
}

type heldTimer struct {
	f       func()
	stopped bool
}

func (t *heldTimer) Stop() bool {
	active := !t.stopped
	t.stopped = true
	return active
}

func (c *heldClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *heldClock) AfterFunc(_ time.Duration, f func()) flashcards.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &heldTimer{f: f}
	c.fns = append(c.fns, t)
	return t
}

func (c *heldClock) Flush() {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()
	for _, t := range fns {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

type memStore struct {
	statements.Store
	mu    sync.Mutex
	saved []statements.Record
}

func (s *memStore) Save(_ context.Context, rec statements.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, rec)
	return nil
}

func animals() decks {
	return decks{"animals": {
		Title:       "Animals",
		Description: "Translate to French",
		Cards: []flashcards.Card{
			{Text: "Cat", Answer: "Chat", Image: &flashcards.Image{Path: "images/cat.png"}},
			{Text: "Dog", Answer: "Chien"},
		},
	}}
}

func newManager(t *testing.T, reporters ...session.Reporter) (*session.Manager, *heldClock) {
	t.Helper()
	clock := &heldClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	f := xapi.NewFactory("https://lms.example.com/flashcards", "https://lms.example.com")
	m := session.NewManager(animals(), f, content.Resolver{AssetsBase: "https://cdn.example.com/assets"}, reporters...)
	m.Clock = clock
	m.Now = clock.Now
	t.Cleanup(m.Stop)
	return m, clock
}

/* ---------------- Tests ---------------- */

func TestCreateAttachesAndQueuesAnnouncement(t *testing.T) {
	m, clock := newManager(t)
	s, err := m.Create("animals", "u1", "Ada")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID == "" || m.Len() != 1 {
		t.Fatalf("session not registered: %+v", s)
	}
	v := s.Quiz.View()
	if v.Current != 0 || v.Total != 2 {
		t.Fatalf("view %+v", v)
	}
	if v.Card.Image == nil || v.Card.Image.Path != "https://cdn.example.com/assets/content/animals/images/cat.png" {
		t.Fatalf("image not resolved: %+v", v.Card.Image)
	}

	if got := s.Drain(); len(got) != 0 {
		t.Fatalf("announcement before delay: %v", got)
	}
	clock.Flush()
	got := s.Drain()
	if len(got) != 1 || got[0] != "Page 1 of 2" {
		t.Fatalf("announcements %v", got)
	}
	if again := s.Drain(); len(again) != 0 {
		t.Fatalf("drain did not clear: %v", again)
	}
}

func TestCreateUnknownContent(t *testing.T) {
	m, _ := newManager(t)
	if _, err := m.Create("nope", "u1", ""); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("want content.ErrNotFound, got %v", err)
	}
	if _, err := m.Get("missing"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("want session.ErrNotFound, got %v", err)
	}
}

func TestCompletionReportsOnce(t *testing.T) {
	store := &memStore{}
	var mu sync.Mutex
	var finished []session.Finished
	capture := session.ReporterFunc(func(_ context.Context, f session.Finished) error {
		mu.Lock()
		finished = append(finished, f)
		mu.Unlock()
		return nil
	})
	failing := session.ReporterFunc(func(context.Context, session.Finished) error {
		return errors.New("broker down")
	})
	m, _ := newManager(t, failing, session.StatementReporter(store), capture)
	reg := metrics.New()
	m.Metrics = reg

	s, err := m.Create("animals", "u1", "Ada")
	if err != nil {
		t.Fatal(err)
	}
	s.Quiz.Submit(0, "Chat")
	s.Quiz.Next()
	s.Quiz.Submit(1, "chat")
	s.Quiz.Submit(1, "Chien") // already answered, ignored

	if len(finished) != 1 {
		t.Fatalf("want one report, got %d", len(finished))
	}
	f := finished[0]
	if f.SessionID != s.ID || f.Score != 1 || f.MaxScore != 2 {
		t.Fatalf("finished %+v", f)
	}
	st := f.Statement
	if st.Context == nil || st.Context.Registration != s.ID {
		t.Fatalf("registration not set: %+v", st.Context)
	}
	if st.Result == nil || *st.Result.Success || !*st.Result.Completion || st.Result.Response != "Chat[,]chat" {
		t.Fatalf("result %+v", st.Result)
	}
	if st.Actor.Account == nil || st.Actor.Account.Name != "u1" {
		t.Fatalf("actor %+v", st.Actor)
	}
	if len(store.saved) != 1 || store.saved[0].ID != st.ID {
		t.Fatalf("statement not stored: %+v", store.saved)
	}
	if got := testutil.ToFloat64(reg.AttemptsFinished.WithLabelValues("animals")); got != 1 {
		t.Fatalf("attempts finished %v", got)
	}
	if got := testutil.ToFloat64(reg.Answers.WithLabelValues("animals", "true")); got != 1 {
		t.Fatalf("correct answers %v", got)
	}
}

func TestRetryOnlyWhenImprovable(t *testing.T) {
	m, _ := newManager(t)
	s, _ := m.Create("animals", "u1", "")
	if ok, _ := m.Retry(s.ID); ok {
		t.Fatal("retry allowed before completion")
	}
	s.Quiz.Submit(0, "Chat")
	s.Quiz.Submit(1, "x")
	ok, err := m.Retry(s.ID)
	if err != nil || !ok {
		t.Fatalf("retry: %v %v", ok, err)
	}
	if v := s.Quiz.View(); v.NumAnswered != 0 || v.Current != 0 {
		t.Fatalf("not reset: %+v", v)
	}
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	m, clock := newManager(t)
	m.IdleTTL = time.Hour
	old, _ := m.Create("animals", "u1", "")
	clock.mu.Lock()
	clock.now = clock.now.Add(45 * time.Minute)
	clock.mu.Unlock()
	fresh, _ := m.Create("animals", "u2", "")

	clock.mu.Lock()
	clock.now = clock.now.Add(30 * time.Minute)
	clock.mu.Unlock()
	if n := m.Sweep(); n != 1 {
		t.Fatalf("want 1 expired, got %d", n)
	}
	if _, err := m.Get(old.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("old session still present: %v", err)
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Fatalf("fresh session expired: %v", err)
	}
}

func TestDelete(t *testing.T) {
	m, _ := newManager(t)
	s, _ := m.Create("animals", "u1", "")
	if err := m.Delete(s.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.Delete(s.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("len %d", m.Len())
	}
}

type capturePublisher struct {
	got []events.AttemptFinished
}

func (p *capturePublisher) PublishAttemptFinished(_ context.Context, e events.AttemptFinished) error {
	p.got = append(p.got, e)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func TestEventReporterPublishesAttempt(t *testing.T) {
	pub := &capturePublisher{}
	m, _ := newManager(t, session.EventReporter(pub))
	s, _ := m.Create("animals", "u1", "")
	s.Quiz.Submit(0, "Chat")
	s.Quiz.Submit(1, "Chien")

	if len(pub.got) != 1 {
		t.Fatalf("want one event, got %d", len(pub.got))
	}
	e := pub.got[0]
	if e.SessionID != s.ID || e.ContentID != "animals" || e.Score != 2 || e.MaxScore != 2 || e.StatementID == "" {
		t.Fatalf("event %+v", e)
	}
}

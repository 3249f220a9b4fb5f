// Package session hosts running quizzes: one per learner attempt, kept in
// memory and dropped after a period of inactivity.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-flashcards/internal/content"
	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
	"github.com/mind-engage/mindengage-flashcards/internal/metrics"
	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
)

var ErrNotFound = errors.New("session not found")

// ContentSource loads decks by id.
type ContentSource interface {
	Get(id string) (flashcards.Content, error)
}

// Session is one learner's attempt at one deck.
type Session struct {
	ID        string    `json:"id"`
	ContentID string    `json:"content_id"`
	Subject   string    `json:"subject"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Quiz *flashcards.Quiz `json:"-"`

	mu            sync.Mutex
	lastSeen      time.Time
	announcements []string
	unsubscribe   func()
}

// Drain returns and clears the announcements queued since the last call.
func (s *Session) Drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.announcements
	s.announcements = nil
	return out
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) queue(text string) {
	s.mu.Lock()
	s.announcements = append(s.announcements, text)
	s.mu.Unlock()
}

// Manager creates, looks up and expires sessions, and reports every
// finished attempt to its reporters.
type Manager struct {
	Content   ContentSource
	Factory   *xapi.Factory
	Resolver  content.Resolver
	Reporters []Reporter
	Metrics   *metrics.Metrics // optional
	IdleTTL   time.Duration
	// ReportTimeout bounds one fan-out to the reporters.
	ReportTimeout time.Duration

	Now   func() time.Time
	Clock flashcards.Clock // optional; quizzes use wall time otherwise

	mu       sync.RWMutex
	sessions map[string]*Session
	sched    *gocron.Scheduler
}

func NewManager(src ContentSource, f *xapi.Factory, r content.Resolver, reporters ...Reporter) *Manager {
	return &Manager{
		Content:       src,
		Factory:       f,
		Resolver:      r,
		Reporters:     reporters,
		IdleTTL:       2 * time.Hour,
		ReportTimeout: 10 * time.Second,
		Now:           time.Now,
		sessions:      map[string]*Session{},
	}
}

// Create starts a quiz over contentID for subject and attaches it.
func (m *Manager) Create(contentID, subject, name string) (*Session, error) {
	c, err := m.Content.Get(contentID)
	if err != nil {
		return nil, err
	}
	opts := []flashcards.Option{flashcards.WithImageResolver(m.Resolver.For(contentID))}
	if m.Clock != nil {
		opts = append(opts, flashcards.WithClock(m.Clock))
	}
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		ContentID: contentID,
		Subject:   subject,
		Name:      name,
		CreatedAt: now,
		Quiz:      flashcards.New(c, opts...),
		lastSeen:  now,
	}
	s.unsubscribe = s.Quiz.Subscribe(func(e flashcards.Event) { m.onEvent(s, e) })

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	if m.Metrics != nil {
		m.Metrics.SessionStarted(contentID)
	}

	s.Quiz.Attach()
	log.Printf("session: %s started %q for %s", s.ID, contentID, subject)
	return s, nil
}

// Get returns the session and marks it as active.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	m.close(s)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Retry runs the results screen's retry action.
func (m *Manager) Retry(id string) (bool, error) {
	s, err := m.Get(id)
	if err != nil {
		return false, err
	}
	ok := s.Quiz.Retry()
	if ok && m.Metrics != nil {
		m.Metrics.Retried()
	}
	return ok, nil
}

// Statement builds the xAPI statement describing the attempt so far.
func (m *Manager) Statement(s *Session, verbID string) xapi.Statement {
	st := m.Factory.New(m.Factory.Learner(s.Subject, s.Name), verbID, s.ContentID, s.ID)
	return s.Quiz.GetXAPIData(st).Statement
}

// Sweep drops sessions idle for longer than IdleTTL and reports how many.
func (m *Manager) Sweep() int {
	if m.IdleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.IdleTTL)
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range expired {
		m.close(s)
	}
	return len(expired)
}

// StartSweeper runs Sweep every interval until Stop.
func (m *Manager) StartSweeper(every time.Duration) {
	m.sched = gocron.NewScheduler(time.UTC)
	_, err := m.sched.Every(every).SingletonMode().Do(func() {
		if n := m.Sweep(); n > 0 {
			log.Printf("session: expired %d idle session(s)", n)
		}
	})
	if err != nil {
		log.Printf("session: schedule sweep: %v", err)
		return
	}
	m.sched.StartAsync()
}

// Stop halts the sweeper and closes every session.
func (m *Manager) Stop() {
	if m.sched != nil {
		m.sched.Stop()
	}
	m.mu.Lock()
	all := m.sessions
	m.sessions = map[string]*Session{}
	m.mu.Unlock()
	for _, s := range all {
		m.close(s)
	}
}

func (m *Manager) close(s *Session) {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.Quiz.Close()
	if m.Metrics != nil {
		m.Metrics.SessionEnded()
	}
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) onEvent(s *Session, e flashcards.Event) {
	switch e.Type {
	case flashcards.EventAnnouncement:
		s.queue(e.Text)
	case flashcards.EventAnswerChecked:
		if m.Metrics != nil {
			m.Metrics.Answered(s.ContentID, e.Correct)
		}
	case flashcards.EventCompleted:
		if m.Metrics != nil {
			m.Metrics.Finished(s.ContentID, e.Score, e.MaxScore)
		}
		m.report(s, e)
	}
}

func (m *Manager) report(s *Session, e flashcards.Event) {
	f := Finished{
		SessionID: s.ID,
		ContentID: s.ContentID,
		Subject:   s.Subject,
		Score:     e.Score,
		MaxScore:  e.MaxScore,
		Statement: m.Statement(s, xapi.VerbAnswered),
		At:        m.now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.ReportTimeout)
	defer cancel()
	for _, r := range m.Reporters {
		if err := r.Report(ctx, f); err != nil {
			log.Printf("session: %s: report: %v", s.ID, err)
		}
	}
}

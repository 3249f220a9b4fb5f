package xapi

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Factory creates empty statements for the host. Activities only fill in
// the definition and result.
type Factory struct {
	ActivityBase string // e.g. https://lms.example.com/flashcards
	HomePage     string // account home page for learner actors
	Platform     string
	Language     string
	Now          func() time.Time
}

func NewFactory(activityBase, homePage string) *Factory {
	return &Factory{
		ActivityBase: strings.TrimSuffix(activityBase, "/"),
		HomePage:     homePage,
		Platform:     "mindengage-flashcards",
		Language:     "en-US",
		Now:          time.Now,
	}
}

// ActivityID is the IRI of one piece of content.
func (f *Factory) ActivityID(contentID string) string {
	return f.ActivityBase + "/content/" + contentID
}

// Learner builds an account actor from a local subject.
func (f *Factory) Learner(subject, name string) Actor {
	return Actor{
		ObjectType: "Agent",
		Name:       name,
		Account:    &Account{HomePage: f.HomePage, Name: subject},
	}
}

// New returns a statement with id, actor, verb, object id and timestamp
// set; definition and result are left for the activity.
func (f *Factory) New(actor Actor, verbID, contentID, registration string) *Statement {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	st := &Statement{
		ID:    uuid.NewString(),
		Actor: actor,
		Verb:  Verb{ID: verbID, Display: LanguageMap{f.Language: verbDisplay(verbID)}},
		Object: Object{
			ObjectType: "Activity",
			ID:         f.ActivityID(contentID),
			Definition: &Definition{},
		},
		Context: &Context{
			Registration: registration,
			Platform:     f.Platform,
			Language:     f.Language,
		},
		Timestamp: now().UTC(),
	}
	return st
}

func verbDisplay(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// NewScore builds a score; scaled is 0 when max is 0.
func NewScore(raw, max float64) *Score {
	s := &Score{Raw: raw, Min: 0, Max: max}
	if max > 0 {
		s.Scaled = math.Round(raw/max*10000) / 10000
	}
	return s
}

// Duration formats d as an ISO 8601 duration with centisecond precision.
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	sec := math.Round(d.Seconds()*100) / 100

	var b strings.Builder
	b.WriteString("PT")
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	fmt.Fprintf(&b, "%sS", strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", sec), "0"), "."))
	return b.String()
}

func Bool(b bool) *bool { return &b }

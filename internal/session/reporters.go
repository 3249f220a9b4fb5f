package session

import (
	"context"
	"time"

	"github.com/mind-engage/mindengage-flashcards/internal/events"
	"github.com/mind-engage/mindengage-flashcards/internal/statements"
	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
)

// Finished describes one completed pass through a deck.
type Finished struct {
	SessionID string
	ContentID string
	Subject   string
	Score     int
	MaxScore  int
	Statement xapi.Statement
	At        time.Time
}

// Reporter is told about every finished attempt.
type Reporter interface {
	Report(ctx context.Context, f Finished) error
}

type ReporterFunc func(ctx context.Context, f Finished) error

func (fn ReporterFunc) Report(ctx context.Context, f Finished) error { return fn(ctx, f) }

// StatementReporter stores the attempt's statement for forwarding.
func StatementReporter(store statements.Store) Reporter {
	return ReporterFunc(func(ctx context.Context, f Finished) error {
		rec, err := statements.NewRecord(f.SessionID, f.ContentID, f.Statement)
		if err != nil {
			return err
		}
		return store.Save(ctx, rec)
	})
}

// EventReporter publishes an attempt-finished event.
func EventReporter(p events.Publisher) Reporter {
	return ReporterFunc(func(ctx context.Context, f Finished) error {
		return p.PublishAttemptFinished(ctx, events.AttemptFinished{
			SessionID:   f.SessionID,
			ContentID:   f.ContentID,
			Subject:     f.Subject,
			Score:       f.Score,
			MaxScore:    f.MaxScore,
			StatementID: f.Statement.ID,
			FinishedAt:  f.At,
		})
	})
}

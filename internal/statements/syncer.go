package statements

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
)

// Syncer forwards stored statements to the LRS and records the outcome.
type Syncer struct {
	Store      Store
	LRS        LRSClient
	BatchSize  int
	MaxRetries int
	Timeout    time.Duration
	// OnResult, if set, observes every scheduled run.
	OnResult func(n int, err error)

	sched *gocron.Scheduler
}

func NewSyncer(store Store, lrs LRSClient) *Syncer {
	return &Syncer{Store: store, LRS: lrs, BatchSize: 50, MaxRetries: 5, Timeout: 30 * time.Second}
}

// SyncStatement forwards one statement regardless of its current state.
func (s *Syncer) SyncStatement(ctx context.Context, id string) error {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	_ = s.Store.MarkSyncPending(ctx, id)
	st, err := rec.Statement()
	if err != nil {
		_ = s.Store.MarkSyncFailed(ctx, id, err.Error())
		return err
	}
	if _, err := s.LRS.PostStatements(ctx, []xapi.Statement{st}); err != nil {
		_ = s.Store.MarkSyncFailed(ctx, id, err.Error())
		return fmt.Errorf("forward %s: %w", id, err)
	}
	return s.Store.MarkSyncOK(ctx, id)
}

// SyncPending forwards one batch of pending or retryable statements and
// reports how many were accepted by the LRS.
func (s *Syncer) SyncPending(ctx context.Context) (int, error) {
	recs, err := s.Store.Pending(ctx, s.BatchSize, s.MaxRetries)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}

	batch := make([]xapi.Statement, 0, len(recs))
	ids := make([]string, 0, len(recs))
	var errs []error
	for _, r := range recs {
		st, err := r.Statement()
		if err != nil {
			_ = s.Store.MarkSyncFailed(ctx, r.ID, err.Error())
			errs = append(errs, err)
			continue
		}
		batch = append(batch, st)
		ids = append(ids, r.ID)
	}
	if len(batch) == 0 {
		return 0, errors.Join(errs...)
	}

	if _, err := s.LRS.PostStatements(ctx, batch); err != nil {
		for _, id := range ids {
			_ = s.Store.MarkSyncFailed(ctx, id, err.Error())
		}
		return 0, errors.Join(append(errs, fmt.Errorf("forward batch: %w", err))...)
	}
	for _, id := range ids {
		if err := s.Store.MarkSyncOK(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return len(ids), errors.Join(errs...)
}

// Start runs SyncPending every interval until Stop.
func (s *Syncer) Start(every time.Duration) {
	s.sched = gocron.NewScheduler(time.UTC)
	_, err := s.sched.Every(every).SingletonMode().Do(s.runOnce)
	if err != nil {
		log.Printf("statements: schedule sync: %v", err)
		return
	}
	s.sched.StartAsync()
}

func (s *Syncer) Stop() {
	if s.sched != nil {
		s.sched.Stop()
	}
}

func (s *Syncer) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	n, err := s.SyncPending(ctx)
	if s.OnResult != nil {
		s.OnResult(n, err)
	}
	if err != nil {
		log.Printf("statements: sync: %v", err)
	}
	if n > 0 {
		log.Printf("statements: forwarded %d statement(s)", n)
	}
}

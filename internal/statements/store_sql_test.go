package statements_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-flashcards/internal/db"
	"github.com/mind-engage/mindengage-flashcards/internal/statements"
	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
)

func openSQLStore(t *testing.T) *statements.SQLStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return statements.NewSQLStore(dbh)
}

func saveStatement(t *testing.T, s *statements.SQLStore, id, session, content, subject string, at time.Time) {
	t.Helper()
	f := xapi.NewFactory("https://lms.example.test", "https://lms.example.test")
	f.Now = func() time.Time { return at }
	st := f.New(f.Learner(subject, ""), xapi.VerbCompleted, content, session)
	st.ID = id
	st.Result = &xapi.Result{Score: xapi.NewScore(1, 2), Success: xapi.Bool(false), Response: "chat[,]loup"}
	rec, err := statements.NewRecord(session, content, *st)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if err := s.Save(context.Background(), rec); err != nil {
		t.Fatalf("save %s: %v", id, err)
	}
}

func Test_SQLStore_SaveGetList(t *testing.T) {
	s := openSQLStore(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0)
	saveStatement(t, s, "a", "sess-1", "deck-1", "u1", base)
	saveStatement(t, s, "b", "sess-2", "deck-1", "u2", base.Add(time.Minute))
	saveStatement(t, s, "c", "sess-3", "deck-2", "u1", base.Add(2*time.Minute))

	rec, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.SyncStatus != statements.SyncPending || rec.ScoreMax != 2 || rec.Actor != "u1" {
		t.Fatalf("record %+v", rec)
	}
	st, err := rec.Statement()
	if err != nil || st.Result.Response != "chat[,]loup" {
		t.Fatalf("statement body: %v %+v", err, st.Result)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, statements.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	byContent, err := s.List(ctx, statements.Filter{ContentID: "deck-1"})
	if err != nil || len(byContent) != 2 || byContent[0].ID != "b" {
		t.Fatalf("list by content: %v %+v", err, byContent)
	}
	byActor, _ := s.List(ctx, statements.Filter{Actor: "u1"})
	if len(byActor) != 2 {
		t.Fatalf("list by actor: %+v", byActor)
	}
	bySession, _ := s.List(ctx, statements.Filter{SessionID: "sess-3"})
	if len(bySession) != 1 || bySession[0].ID != "c" {
		t.Fatalf("list by session: %+v", bySession)
	}
}

func Test_SQLStore_SyncLifecycle(t *testing.T) {
	s := openSQLStore(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0)
	saveStatement(t, s, "a", "sess-1", "deck-1", "u1", base)
	saveStatement(t, s, "b", "sess-2", "deck-1", "u2", base.Add(time.Second))

	pending, err := s.Pending(ctx, 10, 3)
	if err != nil || len(pending) != 2 || pending[0].ID != "a" {
		t.Fatalf("pending: %v %+v", err, pending)
	}

	if err := s.MarkSyncOK(ctx, "a"); err != nil {
		t.Fatalf("ok: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.MarkSyncFailed(ctx, "b", "lrs down"); err != nil {
			t.Fatalf("failed: %v", err)
		}
	}
	b, _ := s.Get(ctx, "b")
	if b.SyncStatus != statements.SyncFailed || b.Retries != 3 || b.LastError != "lrs down" {
		t.Fatalf("b %+v", b)
	}
	if pending, _ := s.Pending(ctx, 10, 3); len(pending) != 0 {
		t.Fatalf("exhausted and ok records still pending: %+v", pending)
	}

	if err := s.MarkSyncPending(ctx, "b"); err != nil {
		t.Fatalf("pending: %v", err)
	}
	if pending, _ := s.Pending(ctx, 10, 5); len(pending) != 1 || pending[0].ID != "b" {
		t.Fatalf("requeued: %+v", pending)
	}
}

func Test_Syncer_EndToEnd_SQLite(t *testing.T) {
	s := openSQLStore(t)
	saveStatement(t, s, "a", "sess-1", "deck-1", "u1", time.Unix(1700000000, 0))
	lrs := &fakeLRS{}
	syncer := statements.NewSyncer(s, lrs)
	n, err := syncer.SyncPending(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("sync n=%d err=%v", n, err)
	}
	a, _ := s.Get(context.Background(), "a")
	if a.SyncStatus != statements.SyncOK {
		t.Fatalf("status %q", a.SyncStatus)
	}
	if lrs.batches[0][0].ID != "a" {
		t.Fatalf("forwarded %+v", lrs.batches)
	}
}

// Package statements keeps the xAPI statements produced by finished quiz
// attempts and forwards them to a Learning Record Store.
package statements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
)

var ErrNotFound = errors.New("statement not found")

type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncOK      SyncStatus = "ok"
	SyncFailed  SyncStatus = "failed"
)

// Record is one stored statement with its forwarding state.
type Record struct {
	ID        string  `db:"id" json:"id"`
	SessionID string  `db:"session_id" json:"session_id"`
	ContentID string  `db:"content_id" json:"content_id"`
	Actor     string  `db:"actor" json:"actor"`
	Verb      string  `db:"verb" json:"verb"`
	ScoreRaw  float64 `db:"score_raw" json:"score_raw"`
	ScoreMax  float64 `db:"score_max" json:"score_max"`
	Success   bool    `db:"success" json:"success"`
	BodyJSON  string  `db:"body_json" json:"-"`
	CreatedAt int64   `db:"created_at" json:"created_at"`

	SyncStatus SyncStatus `db:"sync_status" json:"sync_status"`
	Retries    int        `db:"retries" json:"retries"`
	LastError  string     `db:"last_error" json:"last_error,omitempty"`
}

// NewRecord flattens a statement for storage.
func NewRecord(sessionID, contentID string, st xapi.Statement) (Record, error) {
	body, err := json.Marshal(st)
	if err != nil {
		return Record{}, fmt.Errorf("encode statement: %w", err)
	}
	rec := Record{
		ID:        st.ID,
		SessionID: sessionID,
		ContentID: contentID,
		Actor:     actorKey(st.Actor),
		Verb:      st.Verb.ID,
		BodyJSON:  string(body),
		CreatedAt: st.Timestamp.Unix(),
	}
	if r := st.Result; r != nil {
		if r.Score != nil {
			rec.ScoreRaw, rec.ScoreMax = r.Score.Raw, r.Score.Max
		}
		if r.Success != nil {
			rec.Success = *r.Success
		}
	}
	return rec, nil
}

// Statement decodes the stored body.
func (r Record) Statement() (xapi.Statement, error) {
	var st xapi.Statement
	if err := json.Unmarshal([]byte(r.BodyJSON), &st); err != nil {
		return xapi.Statement{}, fmt.Errorf("decode statement %s: %w", r.ID, err)
	}
	return st, nil
}

func actorKey(a xapi.Actor) string {
	switch {
	case a.Account != nil:
		return a.Account.Name
	case a.Mbox != "":
		return a.Mbox
	default:
		return a.Name
	}
}

// Filter narrows List; empty fields match everything.
type Filter struct {
	SessionID string
	ContentID string
	Actor     string
	Limit     int
}

// Store: implemented by SQLStore, faked in tests.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
	// Pending returns records not yet forwarded whose retries are below
	// maxRetries, oldest first.
	Pending(ctx context.Context, limit, maxRetries int) ([]Record, error)

	MarkSyncPending(ctx context.Context, id string) error
	MarkSyncOK(ctx context.Context, id string) error
	MarkSyncFailed(ctx context.Context, id, lastErr string) error
}

// LRSClient is satisfied by lrshttp.Client.
type LRSClient interface {
	PostStatements(ctx context.Context, sts []xapi.Statement) ([]string, error)
}

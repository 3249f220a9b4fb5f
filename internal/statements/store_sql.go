package statements

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type SQLStore struct {
	DB  *sqlx.DB
	Now func() time.Time
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{DB: db, Now: time.Now}
}

const selectRecord = `
SELECT s.id, s.session_id, s.content_id, s.actor, s.verb, s.score_raw, s.score_max,
       s.success, s.body_json, s.created_at,
       COALESCE(y.status, 'pending') AS sync_status,
       COALESCE(y.retries, 0)        AS retries,
       COALESCE(y.last_error, '')    AS last_error
  FROM statements s
  LEFT JOIN statement_sync y ON y.statement_id = s.id`

// Save inserts the statement and queues it for forwarding.
func (s *SQLStore) Save(ctx context.Context, rec Record) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO statements (id, session_id, content_id, actor, verb, score_raw, score_max, success, body_json, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`),
		rec.ID, rec.SessionID, rec.ContentID, rec.Actor, rec.Verb,
		rec.ScoreRaw, rec.ScoreMax, rec.Success, rec.BodyJSON, rec.CreatedAt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO statement_sync (statement_id, status, retries, updated_at)
		VALUES (?, 'pending', 0, ?)`), rec.ID, s.now()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.DB.GetContext(ctx, &rec, s.DB.Rebind(selectRecord+` WHERE s.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLStore) List(ctx context.Context, f Filter) ([]Record, error) {
	q := selectRecord + ` WHERE 1=1`
	var args []any
	if f.SessionID != "" {
		q += ` AND s.session_id = ?`
		args = append(args, f.SessionID)
	}
	if f.ContentID != "" {
		q += ` AND s.content_id = ?`
		args = append(args, f.ContentID)
	}
	if f.Actor != "" {
		q += ` AND s.actor = ?`
		args = append(args, f.Actor)
	}
	q += ` ORDER BY s.created_at DESC, s.id`
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q += ` LIMIT ?`
	args = append(args, limit)

	out := []Record{}
	if err := s.DB.SelectContext(ctx, &out, s.DB.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) Pending(ctx context.Context, limit, maxRetries int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	out := []Record{}
	err := s.DB.SelectContext(ctx, &out, s.DB.Rebind(selectRecord+`
		WHERE y.status IN ('pending','failed') AND y.retries < ?
		ORDER BY s.created_at, s.id
		LIMIT ?`), maxRetries, limit)
	return out, err
}

func (s *SQLStore) MarkSyncPending(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, s.DB.Rebind(`
		INSERT INTO statement_sync (statement_id, status, retries, updated_at)
		VALUES (?, 'pending', 0, ?)
		ON CONFLICT (statement_id)
		DO UPDATE SET status='pending', updated_at=excluded.updated_at`), id, s.now())
	return err
}

func (s *SQLStore) MarkSyncOK(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, s.DB.Rebind(`
		UPDATE statement_sync
		   SET status='ok', last_error=NULL, updated_at=?
		 WHERE statement_id=?`), s.now(), id)
	return err
}

func (s *SQLStore) MarkSyncFailed(ctx context.Context, id, lastErr string) error {
	_, err := s.DB.ExecContext(ctx, s.DB.Rebind(`
		INSERT INTO statement_sync (statement_id, status, retries, last_error, updated_at)
		VALUES (?, 'failed', 1, ?, ?)
		ON CONFLICT (statement_id)
		DO UPDATE SET
			status='failed',
			retries=statement_sync.retries+1,
			last_error=excluded.last_error,
			updated_at=excluded.updated_at`), id, lastErr, s.now())
	return err
}

func (s *SQLStore) now() int64 {
	if s.Now == nil {
		return time.Now().Unix()
	}
	return s.Now().Unix()
}

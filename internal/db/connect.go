package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // driver: sqlite
)

func init() {
	// sqlx only knows "sqlite3"; modernc registers as "sqlite".
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// SQLName is the database/sql driver name registered for d.
func (d Driver) SQLName() string {
	switch d {
	case DriverPostgres:
		return "pgx"
	default:
		return "sqlite"
	}
}

// Open opens a DB, tunes the pool and ensures the schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "file:flashcards.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		if dsn == "" {
			dsn = "postgres://localhost:5432/flashcards?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sqlx.Open(driver.SQLName(), dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer; modernc serialises anyway
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db.DB, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	schema := schemaSQLite
	if driver == DriverPostgres {
		schema = schemaPostgres
	}
	// Some drivers reject multi-statement scripts; fall back to one at a time.
	if _, err := db.ExecContext(ctx, schema); err == nil {
		return nil
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS statements (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  content_id TEXT NOT NULL,
  actor TEXT NOT NULL,
  verb TEXT NOT NULL,
  score_raw REAL NOT NULL DEFAULT 0,
  score_max REAL NOT NULL DEFAULT 0,
  success INTEGER NOT NULL DEFAULT 0,
  body_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS statements_content_idx ON statements(content_id);
CREATE INDEX IF NOT EXISTS statements_session_idx ON statements(session_id);

CREATE TABLE IF NOT EXISTS statement_sync (
  statement_id TEXT PRIMARY KEY REFERENCES statements(id) ON DELETE CASCADE,
  status TEXT NOT NULL,
  retries INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  updated_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS statements (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  content_id TEXT NOT NULL,
  actor TEXT NOT NULL,
  verb TEXT NOT NULL,
  score_raw DOUBLE PRECISION NOT NULL DEFAULT 0,
  score_max DOUBLE PRECISION NOT NULL DEFAULT 0,
  success BOOLEAN NOT NULL DEFAULT FALSE,
  body_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS statements_content_idx ON statements(content_id);
CREATE INDEX IF NOT EXISTS statements_session_idx ON statements(session_id);

CREATE TABLE IF NOT EXISTS statement_sync (
  statement_id TEXT PRIMARY KEY REFERENCES statements(id) ON DELETE CASCADE,
  status TEXT NOT NULL,
  retries INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  updated_at BIGINT NOT NULL
);
`

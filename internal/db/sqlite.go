package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// schema is applied on every open; statements are all idempotent.
const schema = `
	CREATE TABLE IF NOT EXISTS note (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_note_created_at ON note(created_at);
`

type OpenParams struct {
	// Path is the sqlite database file path, or ":memory:" in tests.
	Path string
}

// Open opens the single-file sqlite database, applies the schema and
// returns the handle. The handle is limited to one open connection:
// the whole app is a single process and sqlite's default transaction
// semantics per statement are all the coordination needed.
// The caller owns the handle and closes it on shutdown.
func Open(ctx context.Context, params OpenParams) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite3", params.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return sqlDB, nil
}

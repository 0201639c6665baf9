package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := Open(ctx, OpenParams{Path: ":memory:"})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, sqlDB.Close())
	}()

	// schema applied, note table queryable
	var count int
	require.NoError(t, sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM note;`).Scan(&count))
	assert.Zero(t, count)
}

func TestOpen_SchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/test.db"

	first, err := Open(ctx, OpenParams{Path: path})
	require.NoError(t, err)

	_, err = first.ExecContext(ctx, `INSERT INTO note (content, created_at) VALUES ('kept across opens', 1);`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, OpenParams{Path: path})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, second.Close())
	}()

	var count int
	require.NoError(t, second.QueryRowContext(ctx, `SELECT COUNT(*) FROM note;`).Scan(&count))
	assert.Equal(t, 1, count)
}

package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/pricetrack/sqlite"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()

		var itemCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&itemCount)
		require.NoError(t, err)

		var historyCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM price_history").Scan(&historyCount)
		require.NoError(t, err)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		var journalMode string
		err = db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})
}

func TestDB_Open_Reopen(t *testing.T) {
	t.Parallel()

	dbPath := t.TempDir() + "/items.db"

	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	require.NoError(t, db.Close())

	db = sqlite.NewDB(dbPath)
	require.NoError(t, db.Open(), "schema creation must be idempotent")
	require.NoError(t, db.Close())
}

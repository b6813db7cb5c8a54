package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertPref(key string) TxFunc {
	return func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO preferences (key, value, updated_at) VALUES (?, 'x', '2025-06-11T09:00:00Z')`, key)
		return err
	}
}

func hasPref(t *testing.T, database *sql.DB, key string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM preferences WHERE key = ?`, key).Scan(&n))
	return n == 1
}

func TestRunInTx_Commits(t *testing.T) {
	database := openTestDB(t)

	require.NoError(t, RunInTx(context.Background(), database, insertPref("theme")))
	assert.True(t, hasPref(t, database, "theme"))
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	database := openTestDB(t)
	boom := errors.New("boom")

	err := RunInTx(context.Background(), database, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insertPref("theme")(ctx, tx))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, hasPref(t, database, "theme"))
}

func TestRunInTx_RollsBackOnPanic(t *testing.T) {
	database := openTestDB(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTx(context.Background(), database, func(ctx context.Context, tx DBTX) error {
			_ = insertPref("theme")(ctx, tx)
			panic("boom")
		})
	})
	assert.False(t, hasPref(t, database, "theme"))
}

func TestSQLiteUnitOfWork_SharesOneTransaction(t *testing.T) {
	database := openTestDB(t)
	uow := NewSQLiteUnitOfWork(database)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		if err := insertPref("theme")(ctx, tx); err != nil {
			return err
		}
		// Duplicate key fails the second write and undoes the first.
		return insertPref("theme")(ctx, tx)
	})
	require.Error(t, err)
	assert.False(t, hasPref(t, database, "theme"))
}

func TestDSNAppliesPragmas(t *testing.T) {
	got := dsn("/tmp/state.db")
	assert.Equal(t, "/tmp/state.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)", got)

	database := openTestDB(t)
	var timeout int
	require.NoError(t, database.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}

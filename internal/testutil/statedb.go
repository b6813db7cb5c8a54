package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ethanhollins/cc-web-sub001/internal/db"
)

// NewTestDB returns a migrated in-memory state database closed at test end.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening state db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// FailingUoW lets the first Writes statements of a unit through and fails
// the next one with Err. Reads never count.
type FailingUoW struct {
	DB     *sql.DB
	Writes int
	Err    error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.RunInTx(ctx, u.DB, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &writeBudget{DBTX: tx, left: u.Writes, err: u.Err})
	})
}

type writeBudget struct {
	db.DBTX
	left int
	err  error
}

func (w *writeBudget) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if w.left == 0 {
		return nil, w.err
	}
	w.left--
	return w.DBTX.ExecContext(ctx, query, args...)
}

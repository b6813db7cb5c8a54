package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements fail on re-run once the column exists.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateCompactTabPositions(db); err != nil {
		return fmt.Errorf("compacting skill tab positions: %w", err)
	}
	return nil
}

// migrateCompactTabPositions renumbers skill tabs 0..n-1. Databases written
// before tabs could be reordered may hold gaps or duplicate positions.
func migrateCompactTabPositions(db *sql.DB) error {
	ctx := context.Background()

	var gaps int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT position, ROW_NUMBER() OVER (ORDER BY position, opened_at) - 1 AS want
			FROM skill_tabs
		) WHERE position != want`).Scan(&gaps)
	if err != nil {
		return fmt.Errorf("checking tab positions: %w", err)
	}
	if gaps == 0 {
		return nil
	}

	rows, err := db.QueryContext(ctx, `SELECT skill_id FROM skill_tabs ORDER BY position, opened_at`)
	if err != nil {
		return fmt.Errorf("listing tabs: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning tab: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listing tabs: %w", err)
	}

	return RunInTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		for i, id := range ids {
			if _, err := tx.ExecContext(ctx, `UPDATE skill_tabs SET position = ? WHERE skill_id = ?`, i, id); err != nil {
				return fmt.Errorf("renumbering tab %s: %w", id, err)
			}
		}
		return nil
	})
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS preferences (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS skill_tabs (
		skill_id  TEXT PRIMARY KEY,
		position  INTEGER NOT NULL DEFAULT 0,
		opened_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_skill_tabs_position ON skill_tabs(position)`,

	// Pinned tabs survive "close all".
	`ALTER TABLE skill_tabs ADD COLUMN pinned INTEGER NOT NULL DEFAULT 0`,
}

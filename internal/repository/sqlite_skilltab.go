package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/db"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// SQLiteSkillTabRepo implements SkillTabRepo using a SQLite database.
type SQLiteSkillTabRepo struct {
	db db.DBTX
}

func NewSQLiteSkillTabRepo(conn db.DBTX) *SQLiteSkillTabRepo {
	return &SQLiteSkillTabRepo{db: conn}
}

const skillTabColumns = `skill_id, position, pinned, opened_at`

func scanSkillTab(s interface{ Scan(...any) error }) (domain.SkillTab, error) {
	var (
		tab      domain.SkillTab
		pinned   int
		openedAt string
	)
	if err := s.Scan(&tab.SkillID, &tab.Position, &pinned, &openedAt); err != nil {
		return domain.SkillTab{}, err
	}
	tab.Pinned = intToBool(pinned)
	tab.OpenedAt = parseTime(openedAt)
	return tab, nil
}

// List returns open tabs in display order.
func (r *SQLiteSkillTabRepo) List(ctx context.Context) ([]domain.SkillTab, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+skillTabColumns+` FROM skill_tabs ORDER BY position, opened_at`)
	if err != nil {
		return nil, fmt.Errorf("listing skill tabs: %w", err)
	}
	defer rows.Close()

	var tabs []domain.SkillTab
	for rows.Next() {
		tab, err := scanSkillTab(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning skill tab: %w", err)
		}
		tabs = append(tabs, tab)
	}
	return tabs, rows.Err()
}

func (r *SQLiteSkillTabRepo) Get(ctx context.Context, skillID string) (*domain.SkillTab, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+skillTabColumns+` FROM skill_tabs WHERE skill_id = ?`, skillID)
	tab, err := scanSkillTab(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("skill tab %s: %w", skillID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning skill tab %s: %w", skillID, err)
	}
	return &tab, nil
}

func (r *SQLiteSkillTabRepo) Insert(ctx context.Context, tab domain.SkillTab) error {
	openedAt := tab.OpenedAt
	if openedAt.IsZero() {
		openedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO skill_tabs (skill_id, position, pinned, opened_at) VALUES (?, ?, ?, ?)`,
		tab.SkillID, tab.Position, boolToInt(tab.Pinned), openedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting skill tab %s: %w", tab.SkillID, err)
	}
	return nil
}

func (r *SQLiteSkillTabRepo) Delete(ctx context.Context, skillID string) error {
	return r.execOne(ctx, skillID, "deleting",
		`DELETE FROM skill_tabs WHERE skill_id = ?`, skillID)
}

func (r *SQLiteSkillTabRepo) SetPosition(ctx context.Context, skillID string, position int) error {
	return r.execOne(ctx, skillID, "moving",
		`UPDATE skill_tabs SET position = ? WHERE skill_id = ?`, position, skillID)
}

func (r *SQLiteSkillTabRepo) SetPinned(ctx context.Context, skillID string, pinned bool) error {
	return r.execOne(ctx, skillID, "pinning",
		`UPDATE skill_tabs SET pinned = ? WHERE skill_id = ?`, boolToInt(pinned), skillID)
}

// execOne runs a statement that must touch exactly the row for skillID.
func (r *SQLiteSkillTabRepo) execOne(ctx context.Context, skillID, verb, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s skill tab %s: %w", verb, skillID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("skill tab %s: %w", skillID, ErrNotFound)
	}
	return nil
}

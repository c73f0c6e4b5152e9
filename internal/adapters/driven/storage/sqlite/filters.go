package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
)

// filterStore implements driven.FilterStore.
type filterStore struct {
	store *Store
}

var _ driven.FilterStore = (*filterStore)(nil)

// Save stores or updates a filter.
func (s *filterStore) Save(ctx context.Context, filter *domain.SavedFilter) error {
	if err := filter.Validate(); err != nil {
		return err
	}

	working, err := json.Marshal(filter.Working)
	if err != nil {
		return fmt.Errorf("marshalling working selection: %w", err)
	}
	committed, err := json.Marshal(filter.Committed)
	if err != nil {
		return fmt.Errorf("marshalling committed selection: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO filters (id, name, display_form, elements_by, mode, working, committed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			display_form = excluded.display_form,
			elements_by = excluded.elements_by,
			mode = excluded.mode,
			working = excluded.working,
			committed = excluded.committed,
			updated_at = excluded.updated_at
	`, filter.ID, filter.Name, filter.DisplayForm, string(filter.ElementsBy), string(filter.Mode),
		string(working), string(committed), filter.CreatedAt, filter.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving filter: %w", err)
	}
	return nil
}

// Get retrieves a filter by ID.
func (s *filterStore) Get(ctx context.Context, id string) (*domain.SavedFilter, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, display_form, elements_by, mode, working, committed, created_at, updated_at
		FROM filters WHERE id = ?
	`, id)

	f, err := scanFilter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

// List returns all filters ordered by creation time.
func (s *filterStore) List(ctx context.Context) ([]domain.SavedFilter, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, display_form, elements_by, mode, working, committed, created_at, updated_at
		FROM filters ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying filters: %w", err)
	}
	defer rows.Close()

	filters := []domain.SavedFilter{}
	for rows.Next() {
		f, err := scanFilter(rows)
		if err != nil {
			return nil, err
		}
		filters = append(filters, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating filters: %w", err)
	}
	return filters, nil
}

// Delete removes a filter.
func (s *filterStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM filters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting filter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting filter: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilter(row rowScanner) (*domain.SavedFilter, error) {
	var f domain.SavedFilter
	var by, mode, working, committed string
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&f.ID, &f.Name, &f.DisplayForm, &by, &mode,
		&working, &committed, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning filter: %w", err)
	}

	f.ElementsBy = domain.ElementsBy(by)
	f.Mode = domain.SelectionMode(mode)
	if err := json.Unmarshal([]byte(working), &f.Working); err != nil {
		return nil, fmt.Errorf("unmarshalling working selection: %w", err)
	}
	if err := json.Unmarshal([]byte(committed), &f.Committed); err != nil {
		return nil, fmt.Errorf("unmarshalling committed selection: %w", err)
	}
	if createdAt.Valid {
		f.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		f.UpdatedAt = updatedAt.Time
	}
	return &f, nil
}

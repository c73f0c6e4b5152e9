package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
)

// elementStore implements driven.ElementStore.
type elementStore struct {
	store *Store
}

var _ driven.ElementStore = (*elementStore)(nil)

// SaveElements stores or updates elements of a display form.
// New elements are appended after the existing ones.
func (s *elementStore) SaveElements(ctx context.Context, displayForm string, elements []domain.Element) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var next int
	row := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM elements WHERE display_form = ?", displayForm)
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("reading element position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO elements (display_form, uri, value, title, position)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(display_form, uri) DO UPDATE SET
			value = excluded.value,
			title = excluded.title
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range elements {
		if e.URI == "" {
			return fmt.Errorf("%w: element %q has no uri", domain.ErrInvalidInput, e.Title)
		}
		if _, err := stmt.ExecContext(ctx, displayForm, e.URI, e.Value, e.Title, next); err != nil {
			return fmt.Errorf("saving element: %w", err)
		}
		next++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteElements removes every element of a display form.
func (s *elementStore) DeleteElements(ctx context.Context, displayForm string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM elements WHERE display_form = ?", displayForm)
	if err != nil {
		return fmt.Errorf("deleting elements: %w", err)
	}
	return nil
}

// ListDisplayForms returns the display forms that have elements, sorted.
func (s *elementStore) ListDisplayForms(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT DISTINCT display_form FROM elements ORDER BY display_form")
	if err != nil {
		return nil, fmt.Errorf("querying display forms: %w", err)
	}
	defer rows.Close()

	forms := []string{}
	for rows.Next() {
		var df string
		if err := rows.Scan(&df); err != nil {
			return nil, fmt.Errorf("scanning display form: %w", err)
		}
		forms = append(forms, df)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating display forms: %w", err)
	}
	return forms, nil
}

// LoadElements returns one page of elements of a display form.
func (s *elementStore) LoadElements(ctx context.Context, displayForm string, opts domain.LoadOptions) (domain.Page, error) {
	var exists bool
	row := s.store.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM elements WHERE display_form = ?)", displayForm)
	if err := row.Scan(&exists); err != nil {
		return domain.Page{}, fmt.Errorf("checking display form: %w", err)
	}
	if !exists {
		return domain.Page{}, fmt.Errorf("display form %s: %w", displayForm, domain.ErrNotFound)
	}

	where, args := whereClause(displayForm, opts)

	page := domain.Page{
		Offset:   opts.Offset,
		Limit:    opts.Limit,
		Elements: []domain.Element{},
	}
	row = s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM elements WHERE "+where, args...)
	if err := row.Scan(&page.TotalCount); err != nil {
		return domain.Page{}, fmt.Errorf("counting elements: %w", err)
	}

	query := "SELECT uri, value, title FROM elements WHERE " + where +
		" ORDER BY " + orderClause(opts.Order) + " LIMIT ? OFFSET ?"
	rows, err := s.store.db.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return domain.Page{}, fmt.Errorf("querying elements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.Element
		if err := rows.Scan(&e.URI, &e.Value, &e.Title); err != nil {
			return domain.Page{}, fmt.Errorf("scanning element: %w", err)
		}
		page.Elements = append(page.Elements, e)
	}
	if err := rows.Err(); err != nil {
		return domain.Page{}, fmt.Errorf("iterating elements: %w", err)
	}
	return page, nil
}

// whereClause builds the filter shared by the count and page queries.
func whereClause(displayForm string, opts domain.LoadOptions) (string, []any) {
	clauses := []string{"display_form = ?"}
	args := []any{displayForm}

	if opts.Search != "" {
		clauses = append(clauses, `title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(opts.Search)+"%")
	}

	if len(opts.Keys) > 0 {
		column := "uri"
		if opts.By == domain.ElementsByValue {
			column = "value"
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(opts.Keys)), ",")
		clauses = append(clauses, column+" IN ("+placeholders+")")
		for _, k := range opts.Keys {
			args = append(args, k)
		}
	}

	return strings.Join(clauses, " AND "), args
}

func orderClause(order domain.SortOrder) string {
	switch order {
	case domain.SortAsc:
		return "lower(title) ASC, position ASC"
	case domain.SortDesc:
		return "lower(title) DESC, position ASC"
	default:
		return "position ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

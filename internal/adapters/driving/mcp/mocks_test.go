package mcp

import (
	"context"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
)

// mockElementService is a mock implementation of driving.ElementService.
type mockElementService struct {
	page     domain.Page
	elements []domain.Element
	forms    []string
	err      error

	lastOpts domain.LoadOptions
	lastBy   domain.ElementsBy
}

func (m *mockElementService) ListPage(_ context.Context, _ string, opts domain.LoadOptions) (domain.Page, error) {
	m.lastOpts = opts
	return m.page, m.err
}

func (m *mockElementService) GetByKeys(
	_ context.Context,
	_ string,
	by domain.ElementsBy,
	_ []string,
) ([]domain.Element, error) {
	m.lastBy = by
	return m.elements, m.err
}

func (m *mockElementService) Import(_ context.Context, _ string, elements []domain.Element) (int, error) {
	return len(elements), m.err
}

func (m *mockElementService) DisplayForms(_ context.Context) ([]string, error) {
	return m.forms, m.err
}

func (m *mockElementService) PageSize() int {
	return domain.DefaultPageSize
}

// mockFilterService is a mock implementation of driving.FilterService.
type mockFilterService struct {
	filters []domain.SavedFilter
	filter  *domain.SavedFilter
	export  domain.AttributeFilter
	err     error

	lastOp domain.SelectionOp
}

func (m *mockFilterService) Create(
	_ context.Context,
	_, _ string,
	_ domain.ElementsBy,
	_ domain.SelectionMode,
) (*domain.SavedFilter, error) {
	return m.filter, m.err
}

func (m *mockFilterService) Get(_ context.Context, _ string) (*domain.SavedFilter, error) {
	return m.filter, m.err
}

func (m *mockFilterService) List(_ context.Context) ([]domain.SavedFilter, error) {
	return m.filters, m.err
}

func (m *mockFilterService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockFilterService) Apply(_ context.Context, _ string, op domain.SelectionOp) (*domain.SavedFilter, error) {
	m.lastOp = op
	return m.filter, m.err
}

func (m *mockFilterService) Commit(_ context.Context, _ string) (*domain.SavedFilter, error) {
	return m.filter, m.err
}

func (m *mockFilterService) Revert(_ context.Context, _ string) (*domain.SavedFilter, error) {
	return m.filter, m.err
}

func (m *mockFilterService) Export(_ context.Context, _ string) (domain.AttributeFilter, error) {
	return m.export, m.err
}

func (m *mockFilterService) Open(_ context.Context, _ string) (driving.AttributeFilterHandler, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockFilterService) Save(
	_ context.Context,
	_ string,
	_ driving.AttributeFilterHandler,
) (*domain.SavedFilter, error) {
	return m.filter, m.err
}

func sampleFilter() *domain.SavedFilter {
	return &domain.SavedFilter{
		ID:          "flt-1",
		Name:        "Regions",
		DisplayForm: "label.region",
		ElementsBy:  domain.ElementsByURI,
		Mode:        domain.SelectionModeMulti,
		Working:     domain.Selection{Inverted: true, Items: domain.NewKeySet("/e/2")},
		Committed:   domain.SelectAll(),
	}
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attrfilter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

func TestElementService_ListPage_DefaultLimit(t *testing.T) {
	store := seededStore(10)
	svc := NewElementService(store, store, 4)

	page, err := svc.ListPage(context.Background(), testForm, domain.LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, 4, page.Limit)
	assert.Len(t, page.Elements, 4)
	assert.Equal(t, 10, page.TotalCount)
	assert.Equal(t, 4, svc.PageSize())
}

func TestElementService_ListPage_Validation(t *testing.T) {
	store := seededStore(1)
	svc := NewElementService(store, store, 0)
	ctx := context.Background()

	tests := []struct {
		name string
		opts domain.LoadOptions
	}{
		{"negative offset", domain.LoadOptions{Offset: -1}},
		{"negative limit", domain.LoadOptions{Limit: -5}},
		{"limit too large", domain.LoadOptions{Limit: 10001}},
		{"bad order", domain.LoadOptions{Order: "random"}},
		{"bad key kind", domain.LoadOptions{By: "id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListPage(ctx, testForm, tt.opts)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := svc.ListPage(ctx, "", domain.LoadOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestElementService_ListPage_NoSource(t *testing.T) {
	svc := NewElementService(nil, nil, 0)

	_, err := svc.ListPage(context.Background(), testForm, domain.LoadOptions{})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestElementService_GetByKeys(t *testing.T) {
	store := seededStore(5)
	svc := NewElementService(store, store, 2)

	elements, err := svc.GetByKeys(context.Background(), testForm, domain.ElementsByValue, []string{"value-3", "value-1"})

	require.NoError(t, err)
	assert.Equal(t, []domain.Element{element(1), element(3)}, elements)

	elements, err = svc.GetByKeys(context.Background(), testForm, domain.ElementsByURI, nil)
	require.NoError(t, err)
	assert.Empty(t, elements)
}

func TestElementService_Import(t *testing.T) {
	store := memory.NewElementStore()
	svc := NewElementService(store, store, 0)
	ctx := context.Background()

	n, err := svc.Import(ctx, testForm, []domain.Element{element(0), element(1)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-import replaces.
	n, err = svc.Import(ctx, testForm, []domain.Element{element(5)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	page, err := svc.ListPage(ctx, testForm, domain.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []domain.Element{element(5)}, page.Elements)

	forms, err := svc.DisplayForms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{testForm}, forms)
}

func TestElementService_Import_Errors(t *testing.T) {
	store := memory.NewElementStore()
	ctx := context.Background()

	_, err := NewElementService(store, nil, 0).Import(ctx, testForm, nil)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	svc := NewElementService(store, store, 0)
	_, err = svc.Import(ctx, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Import(ctx, testForm, []domain.Element{{Title: "no uri"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

func TestExtractFilterID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid filter URI",
			uri:      "attrfilter://filters/flt-456",
			expected: "flt-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://filters/flt-456",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "attrfilter://filters/flt-456/extra",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractFilterID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDisplayFormsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns forms", func(t *testing.T) {
		server, err := NewServer(&Ports{Elements: &mockElementService{forms: []string{"label.region"}}})
		require.NoError(t, err)

		result, err := server.handleDisplayFormsResource(ctx, makeReadResourceRequest("attrfilter://display-forms"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "label.region")
	})

	t.Run("remote source lists nothing", func(t *testing.T) {
		server, err := NewServer(&Ports{Elements: &mockElementService{err: domain.ErrNotImplemented}})
		require.NoError(t, err)

		result, err := server.handleDisplayFormsResource(ctx, makeReadResourceRequest("attrfilter://display-forms"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleFiltersResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil filter service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Elements: &mockElementService{}})
		require.NoError(t, err)

		result, err := server.handleFiltersResource(ctx, makeReadResourceRequest("attrfilter://filters"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns filters", func(t *testing.T) {
		mockFilters := &mockFilterService{filters: []domain.SavedFilter{*sampleFilter()}}
		server, err := NewServer(&Ports{Elements: &mockElementService{}, Filters: mockFilters})
		require.NoError(t, err)

		result, err := server.handleFiltersResource(ctx, makeReadResourceRequest("attrfilter://filters"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "flt-1")
		assert.Contains(t, result.Contents[0].Text, "Regions")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		mockFilters := &mockFilterService{err: errors.New("database error")}
		server, err := NewServer(&Ports{Elements: &mockElementService{}, Filters: mockFilters})
		require.NoError(t, err)

		_, err = server.handleFiltersResource(ctx, makeReadResourceRequest("attrfilter://filters"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing filters")
	})
}

func TestServer_handleFilterResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns committed filter", func(t *testing.T) {
		mockFilters := &mockFilterService{
			export: domain.FilterFromSelection("label.region", domain.ElementsByValue, domain.SelectOnly("north")),
		}
		server, err := NewServer(&Ports{Elements: &mockElementService{}, Filters: mockFilters})
		require.NoError(t, err)

		result, err := server.handleFilterResource(ctx, makeReadResourceRequest("attrfilter://filters/flt-1"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "positiveAttributeFilter")
		assert.Contains(t, result.Contents[0].Text, "north")
	})

	t.Run("unknown filter is not found", func(t *testing.T) {
		mockFilters := &mockFilterService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Elements: &mockElementService{}, Filters: mockFilters})
		require.NoError(t, err)

		_, err = server.handleFilterResource(ctx, makeReadResourceRequest("attrfilter://filters/nope"))

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Elements: &mockElementService{}, Filters: &mockFilterService{}})
		require.NoError(t, err)

		_, err = server.handleFilterResource(ctx, makeReadResourceRequest("attrfilter://invalid/uri"))

		require.Error(t, err)
	})

	t.Run("nil filter service returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Elements: &mockElementService{}})
		require.NoError(t, err)

		_, err = server.handleFilterResource(ctx, makeReadResourceRequest("attrfilter://filters/flt-1"))

		require.Error(t, err)
	})
}

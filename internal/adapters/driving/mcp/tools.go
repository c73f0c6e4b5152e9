package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// errFiltersUnavailable is returned by filter tools when no filter service is wired.
var errFiltersUnavailable = errors.New("mcp: filter service is not configured")

// ListElementsInput is the input schema for the list_elements tool.
type ListElementsInput struct {
	DisplayForm string `json:"display_form" jsonschema:"identifier of the attribute display form"`
	Offset      int    `json:"offset,omitempty" jsonschema:"position of the first element (default 0)"`
	Limit       int    `json:"limit,omitempty" jsonschema:"page size (default from settings)"`
	Search      string `json:"search,omitempty" jsonschema:"case-insensitive title substring"`
	Order       string `json:"order,omitempty" jsonschema:"sort by title: asc or desc"`
}

// ElementOutput represents a single element.
type ElementOutput struct {
	Position int    `json:"position"`
	URI      string `json:"uri,omitempty"`
	Value    string `json:"value,omitempty"`
	Title    string `json:"title"`
}

// ListElementsOutput is the output schema for the list_elements tool.
type ListElementsOutput struct {
	Elements   []ElementOutput `json:"elements"`
	Offset     int             `json:"offset"`
	Limit      int             `json:"limit"`
	TotalCount int             `json:"total_count"`
	HasMore    bool            `json:"has_more"`
}

// GetElementsInput is the input schema for the get_elements tool.
type GetElementsInput struct {
	DisplayForm string   `json:"display_form" jsonschema:"identifier of the attribute display form"`
	Keys        []string `json:"keys" jsonschema:"element keys to look up"`
	By          string   `json:"by,omitempty" jsonschema:"key kind: uri (default) or value"`
}

// GetElementsOutput is the output schema for the get_elements tool.
type GetElementsOutput struct {
	Elements []ElementOutput `json:"elements"`
	Count    int             `json:"count"`
}

// FilterIDInput identifies a saved filter.
type FilterIDInput struct {
	ID string `json:"id" jsonschema:"saved filter id"`
}

// ChangeSelectionInput is the input schema for the change_selection tool.
type ChangeSelectionInput struct {
	ID   string   `json:"id" jsonschema:"saved filter id"`
	Op   string   `json:"op" jsonschema:"one of add, remove, only, all, none, invert, clear"`
	Keys []string `json:"keys,omitempty" jsonschema:"element keys for add, remove and only"`
}

// SelectionOutput is a selection in tool output.
type SelectionOutput struct {
	Inverted bool     `json:"is_inverted"`
	Keys     []string `json:"keys"`
}

// FilterOutput is a saved filter in tool output.
type FilterOutput struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	DisplayForm string          `json:"display_form"`
	ElementsBy  string          `json:"elements_by"`
	Mode        string          `json:"mode"`
	Working     SelectionOutput `json:"working"`
	Committed   SelectionOutput `json:"committed"`
	Dirty       bool            `json:"dirty"`
}

// ListFiltersOutput is the output schema for the list_filters tool.
type ListFiltersOutput struct {
	Filters []FilterOutput `json:"filters"`
	Count   int            `json:"count"`
}

// ExportFilterOutput is the output schema for the export_filter tool.
type ExportFilterOutput struct {
	Filter map[string]any `json:"filter"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_elements",
		Description: "List one page of attribute elements of a display form",
	}, s.handleListElements)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_elements",
		Description: "Look attribute elements up by key",
	}, s.handleGetElements)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_filters",
		Description: "List saved attribute filters",
	}, s.handleListFilters)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_filter",
		Description: "Show the working and committed selections of a saved filter",
	}, s.handleGetFilter)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "change_selection",
		Description: "Edit the working selection of a saved filter",
	}, s.handleChangeSelection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "commit_filter",
		Description: "Make the working selection of a saved filter the committed one",
	}, s.handleCommitFilter)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "revert_filter",
		Description: "Discard uncommitted selection changes of a saved filter",
	}, s.handleRevertFilter)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_filter",
		Description: "Return the committed selection as a positive or negative attribute filter",
	}, s.handleExportFilter)
}

func (s *Server) handleListElements(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListElementsInput,
) (*mcp.CallToolResult, ListElementsOutput, error) {
	page, err := s.ports.Elements.ListPage(ctx, input.DisplayForm, domain.LoadOptions{
		Offset: input.Offset,
		Limit:  input.Limit,
		Search: input.Search,
		Order:  domain.SortOrder(input.Order),
	})
	if err != nil {
		return nil, ListElementsOutput{}, err
	}

	output := ListElementsOutput{
		Elements:   make([]ElementOutput, len(page.Elements)),
		Offset:     page.Offset,
		Limit:      page.Limit,
		TotalCount: page.TotalCount,
		HasMore:    page.Offset+len(page.Elements) < page.TotalCount,
	}
	for i, e := range page.Elements {
		output.Elements[i] = toElementOutput(page.Offset+i, e)
	}
	return nil, output, nil
}

func (s *Server) handleGetElements(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetElementsInput,
) (*mcp.CallToolResult, GetElementsOutput, error) {
	by, err := domain.ParseElementsBy(input.By)
	if err != nil {
		return nil, GetElementsOutput{}, err
	}

	elements, err := s.ports.Elements.GetByKeys(ctx, input.DisplayForm, by, input.Keys)
	if err != nil {
		return nil, GetElementsOutput{}, err
	}

	output := GetElementsOutput{
		Elements: make([]ElementOutput, len(elements)),
		Count:    len(elements),
	}
	for i, e := range elements {
		output.Elements[i] = toElementOutput(i, e)
	}
	return nil, output, nil
}

func (s *Server) handleListFilters(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListFiltersOutput, error) {
	if s.ports.Filters == nil {
		return nil, ListFiltersOutput{}, errFiltersUnavailable
	}

	filters, err := s.ports.Filters.List(ctx)
	if err != nil {
		return nil, ListFiltersOutput{}, err
	}

	output := ListFiltersOutput{
		Filters: make([]FilterOutput, len(filters)),
		Count:   len(filters),
	}
	for i := range filters {
		output.Filters[i] = toFilterOutput(&filters[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetFilter(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterIDInput,
) (*mcp.CallToolResult, FilterOutput, error) {
	if s.ports.Filters == nil {
		return nil, FilterOutput{}, errFiltersUnavailable
	}
	f, err := s.ports.Filters.Get(ctx, input.ID)
	if err != nil {
		return nil, FilterOutput{}, err
	}
	return nil, toFilterOutput(f), nil
}

func (s *Server) handleChangeSelection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChangeSelectionInput,
) (*mcp.CallToolResult, FilterOutput, error) {
	if s.ports.Filters == nil {
		return nil, FilterOutput{}, errFiltersUnavailable
	}
	op := domain.SelectionOp{Kind: domain.SelectionOpKind(input.Op), Keys: input.Keys}
	f, err := s.ports.Filters.Apply(ctx, input.ID, op)
	if err != nil {
		return nil, FilterOutput{}, err
	}
	return nil, toFilterOutput(f), nil
}

func (s *Server) handleCommitFilter(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterIDInput,
) (*mcp.CallToolResult, FilterOutput, error) {
	if s.ports.Filters == nil {
		return nil, FilterOutput{}, errFiltersUnavailable
	}
	f, err := s.ports.Filters.Commit(ctx, input.ID)
	if err != nil {
		return nil, FilterOutput{}, err
	}
	return nil, toFilterOutput(f), nil
}

func (s *Server) handleRevertFilter(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterIDInput,
) (*mcp.CallToolResult, FilterOutput, error) {
	if s.ports.Filters == nil {
		return nil, FilterOutput{}, errFiltersUnavailable
	}
	f, err := s.ports.Filters.Revert(ctx, input.ID)
	if err != nil {
		return nil, FilterOutput{}, err
	}
	return nil, toFilterOutput(f), nil
}

func (s *Server) handleExportFilter(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterIDInput,
) (*mcp.CallToolResult, ExportFilterOutput, error) {
	if s.ports.Filters == nil {
		return nil, ExportFilterOutput{}, errFiltersUnavailable
	}
	af, err := s.ports.Filters.Export(ctx, input.ID)
	if err != nil {
		return nil, ExportFilterOutput{}, err
	}

	// Round-trip through JSON so the output keeps the wire shape.
	data, err := json.Marshal(af)
	if err != nil {
		return nil, ExportFilterOutput{}, fmt.Errorf("marshalling filter: %w", err)
	}
	var filter map[string]any
	if err := json.Unmarshal(data, &filter); err != nil {
		return nil, ExportFilterOutput{}, fmt.Errorf("unmarshalling filter: %w", err)
	}
	return nil, ExportFilterOutput{Filter: filter}, nil
}

func toElementOutput(pos int, e domain.Element) ElementOutput {
	return ElementOutput{Position: pos, URI: e.URI, Value: e.Value, Title: e.Title}
}

func toSelectionOutput(sel domain.Selection) SelectionOutput {
	return SelectionOutput{Inverted: sel.Inverted, Keys: sel.Items.Keys()}
}

func toFilterOutput(f *domain.SavedFilter) FilterOutput {
	return FilterOutput{
		ID:          f.ID,
		Name:        f.Name,
		DisplayForm: f.DisplayForm,
		ElementsBy:  f.ElementsBy.String(),
		Mode:        string(f.Mode),
		Working:     toSelectionOutput(f.Working),
		Committed:   toSelectionOutput(f.Committed),
		Dirty:       f.IsDirty(),
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for attrfilter resources.
	uriScheme = "attrfilter://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "display-forms",
		Name:        "display-forms",
		Description: "Display forms with stored elements",
		MIMEType:    "application/json",
	}, s.handleDisplayFormsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "filters",
		Name:        "filters",
		Description: "List of all saved filters",
		MIMEType:    "application/json",
	}, s.handleFiltersResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "filters/{filterId}",
		Name:        "filter",
		Description: "Committed attribute filter of a saved filter",
		MIMEType:    "application/json",
	}, s.handleFilterResource)
}

// handleDisplayFormsResource returns the display forms with stored elements.
func (s *Server) handleDisplayFormsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	forms, err := s.ports.Elements.DisplayForms(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotImplemented) {
			return jsonResult(req.Params.URI, []string{})
		}
		return nil, fmt.Errorf("listing display forms: %w", err)
	}
	if forms == nil {
		forms = []string{}
	}
	return jsonResult(req.Params.URI, forms)
}

// handleFiltersResource returns a list of all saved filters.
func (s *Server) handleFiltersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Filters == nil {
		return jsonResult(req.Params.URI, []FilterOutput{})
	}

	filters, err := s.ports.Filters.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing filters: %w", err)
	}

	infos := make([]FilterOutput, len(filters))
	for i := range filters {
		infos[i] = toFilterOutput(&filters[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleFilterResource returns the committed wire filter of one saved filter.
func (s *Server) handleFilterResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Filters == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractFilterID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	af, err := s.ports.Filters.Export(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("exporting filter: %w", err)
	}
	return jsonResult(req.Params.URI, af)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFilterID extracts the filter ID from a URI like attrfilter://filters/{filterId}.
func extractFilterID(uri string) string {
	const prefix = uriScheme + "filters/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
	"github.com/custodia-labs/attrfilter/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// Verify interface compliance.
var _ driven.ElementSource = (*Source)(nil)

// Config holds the remote element source settings.
type Config struct {
	// BaseURL is the root of the element API.
	BaseURL string

	// Token is an optional bearer token.
	Token string

	// Rate is the request rate in requests per second.
	Rate float64

	// HTTPClient overrides the client used when no token is set.
	HTTPClient *http.Client
}

// Source lists elements from an HTTP API of the form
// GET {base}/displayForms/{displayForm}/elements.
type Source struct {
	base        *url.URL
	client      *http.Client
	rateLimiter *RateLimiter
}

// NewSource creates a remote element source.
func NewSource(cfg Config) (*Source, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: remote source needs a base URL", domain.ErrInvalidInput)
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", domain.ErrInvalidInput, cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, ts)
		client.Timeout = DefaultTimeout
	}

	return &Source{
		base:        base,
		client:      client,
		rateLimiter: NewRateLimiter(cfg.Rate),
	}, nil
}

// LoadElements fetches one page of elements.
func (s *Source) LoadElements(
	ctx context.Context,
	displayForm string,
	opts domain.LoadOptions,
) (domain.Page, error) {
	if displayForm == "" {
		return domain.Page{}, fmt.Errorf("%w: display form is required", domain.ErrInvalidInput)
	}

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return domain.Page{}, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := s.endpoint(displayForm, opts)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return domain.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("remote: GET %s", endpoint)
	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Page{}, ctxErr
		}
		return domain.Page{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	s.rateLimiter.UpdateFromResponse(resp)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Page{}, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        endpoint,
		}
	}

	var page domain.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return domain.Page{}, fmt.Errorf("%w: decode page: %v", domain.ErrSourceUnavailable, err)
	}
	if page.Limit == 0 {
		page.Limit = opts.Limit
	}
	if err := page.Validate(); err != nil {
		return domain.Page{}, fmt.Errorf("%w: invalid page: %v", domain.ErrSourceUnavailable, err)
	}
	if page.Offset != opts.Offset {
		return domain.Page{}, fmt.Errorf("%w: asked for offset %d, got %d",
			domain.ErrSourceUnavailable, opts.Offset, page.Offset)
	}
	return page, nil
}

func (s *Source) endpoint(displayForm string, opts domain.LoadOptions) string {
	u := s.base.JoinPath("displayForms", displayForm, "elements")

	q := url.Values{}
	q.Set("offset", strconv.Itoa(opts.Offset))
	q.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Order != "" {
		q.Set("order", string(opts.Order))
	}
	if len(opts.Keys) > 0 {
		by := opts.By
		if by == "" {
			by = domain.ElementsByURI
		}
		q.Set("by", by.String())
		for _, k := range opts.Keys {
			q.Add("key", k)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

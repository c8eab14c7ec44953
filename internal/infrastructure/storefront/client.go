package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/catalog/internal/domain/catalog"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// Config holds storefront client configuration
type Config struct {
	// BaseURL is the upstream API root, e.g. "https://api.example.com/v1".
	BaseURL string
	// PageSize is the fixed page size requested from list endpoints.
	PageSize int
	// PageBatchSize caps concurrent page requests after the first page.
	PageBatchSize int
	// MaxRetries is the rate-limit retry budget for first-page fetches.
	MaxRetries int
	// RetryBaseDelay is the initial backoff delay; it strictly doubles on
	// each retry, with no jitter.
	RetryBaseDelay time.Duration
	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int
}

// DefaultConfig returns the default client configuration
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		PageSize:       100,
		PageBatchSize:  5,
		MaxRetries:     5,
		RetryBaseDelay: 3 * time.Second,
		TimeoutSeconds: 30,
	}
}

// Validate validates the configuration and fills zero values with defaults
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.PageBatchSize <= 0 {
		c.PageBatchSize = 5
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 5
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = 3 * time.Second
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Client implements the catalog.Gateway port against the storefront REST API
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a storefront API client with the given configuration
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// ---------------------------------------------------------------------------
// Paginated collection fetch
// ---------------------------------------------------------------------------

// FetchAll retrieves one logical collection across all of its pages and
// returns a single flat list, preserving page order.
//
// The first page is retried on rate-limit responses with exponential backoff;
// any other failure propagates immediately. Pages after the first are fetched
// concurrently in fixed-size batches, and a failed later page degrades to an
// empty contribution instead of aborting the whole fetch. The result can
// therefore under-report items after partial failures; callers treat that as
// a documented limitation, not corruption.
func (c *Client) FetchAll(ctx context.Context, endpoint string, extra url.Values) ([]catalog.RawRecord, error) {
	payload, err := c.fetchFirstPage(ctx, endpoint, extra)
	if err != nil {
		return nil, err
	}

	collection := collectionName(endpoint)
	first := ExtractItems(payload, collection)

	totalPages := TotalPages(payload)
	if totalPages <= 1 {
		return first, nil
	}

	// Indexed by page number; each goroutine writes only its own slot.
	pages := make([][]catalog.RawRecord, totalPages+1)
	pages[1] = first

	for batchStart := 2; batchStart <= totalPages; batchStart += c.config.PageBatchSize {
		batchEnd := batchStart + c.config.PageBatchSize - 1
		if batchEnd > totalPages {
			batchEnd = totalPages
		}

		var wg sync.WaitGroup
		for page := batchStart; page <= batchEnd; page++ {
			wg.Add(1)
			go func(page int) {
				defer wg.Done()
				payload, err := c.fetchPage(ctx, endpoint, page, extra)
				if err != nil {
					c.logger.Warn("Page fetch failed, contributing empty page",
						zap.String("endpoint", endpoint),
						zap.Int("page", page),
						zap.Error(err),
					)
					return
				}
				pages[page] = ExtractItems(payload, collection)
			}(page)
		}
		wg.Wait()
	}

	items := make([]catalog.RawRecord, 0, len(first)*totalPages)
	for _, page := range pages[1:] {
		items = append(items, page...)
	}

	c.logger.Debug("Collection fetched",
		zap.String("endpoint", endpoint),
		zap.Int("total_pages", totalPages),
		zap.Int("items", len(items)),
	)
	return items, nil
}

// fetchFirstPage fetches page 1 with the rate-limit retry budget.
// The backoff sequence is RetryBaseDelay, doubled before each further
// attempt (3s, 6s, 12s, 24s, 48s with defaults).
func (c *Client) fetchFirstPage(ctx context.Context, endpoint string, extra url.Values) (any, error) {
	delay := c.config.RetryBaseDelay
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Rate limited, backing off",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		payload, err := c.fetchPage(ctx, endpoint, 1, extra)
		if err == nil {
			return payload, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("storefront: retry budget exhausted after %d attempts: %w",
		c.config.MaxRetries+1, lastErr)
}

// fetchPage performs a single GET against a list endpoint.
func (c *Client) fetchPage(ctx context.Context, endpoint string, page int, extra url.Values) (any, error) {
	u, err := c.buildURL(endpoint, func(q url.Values) {
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(c.config.PageSize))
		for key, values := range extra {
			for _, value := range values {
				q.Add(key, value)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("storefront: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, endpoint)
}

// ---------------------------------------------------------------------------
// Create operations
// ---------------------------------------------------------------------------

// CreateBrand creates a brand upstream and returns the created record.
func (c *Client) CreateBrand(ctx context.Context, data map[string]any, opts url.Values) (catalog.RawRecord, error) {
	return c.create(ctx, "/brands", "brand", data, opts)
}

// CreateCategory creates a category upstream and returns the created record.
func (c *Client) CreateCategory(ctx context.Context, data map[string]any, opts url.Values) (catalog.RawRecord, error) {
	return c.create(ctx, "/categories", "category", data, opts)
}

// CreateProduct creates a product upstream and returns the created record.
func (c *Client) CreateProduct(ctx context.Context, data map[string]any, opts url.Values) (catalog.RawRecord, error) {
	return c.create(ctx, "/products", "product", data, opts)
}

func (c *Client) create(ctx context.Context, endpoint, kind string, data map[string]any, opts url.Values) (catalog.RawRecord, error) {
	u, err := c.buildURL(endpoint, func(q url.Values) {
		for key, values := range opts {
			for _, value := range values {
				q.Add(key, value)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("storefront: failed to marshal %s payload: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("storefront: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	payload, err := c.do(req, endpoint)
	if err != nil {
		return nil, err
	}

	record := extractCreated(payload, kind)
	if record == nil {
		return nil, fmt.Errorf("storefront: create %s returned no record", kind)
	}
	return record, nil
}

// extractCreated unwraps a create response. The API returns either the bare
// created entity or an envelope carrying it under the kind name or "data".
func extractCreated(payload any, kind string) catalog.RawRecord {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range []string{kind, "data"} {
		if nested, ok := obj[key].(map[string]any); ok {
			return nested
		}
	}
	return obj
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// buildURL joins the base URL with an endpoint (which may carry its own
// query string) and applies extra query parameters.
func (c *Client) buildURL(endpoint string, applyQuery func(url.Values)) (string, error) {
	u, err := url.Parse(strings.TrimRight(c.config.BaseURL, "/") + endpoint)
	if err != nil {
		return "", fmt.Errorf("storefront: invalid endpoint %q: %w", endpoint, err)
	}
	q := u.Query()
	if applyQuery != nil {
		applyQuery(q)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// do executes the request and decodes the JSON payload. HTTP 429 maps to
// ErrRateLimited; other error statuses map to StatusError.
func (c *Client) do(req *http.Request, endpoint string) (any, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storefront: request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("storefront: %s: %w", endpoint, ErrRateLimited)
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("storefront: failed to read response from %s: %w", endpoint, err)
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("storefront: failed to parse response from %s: %w", endpoint, err)
	}
	return payload, nil
}

// Ensure Client implements the catalog.Gateway port
var _ catalog.Gateway = (*Client)(nil)

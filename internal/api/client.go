package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cellarly/cellarctl/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed
	// read requests.
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the initial delay between retry attempts.
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff.
	DefaultMaxRetryDelay = 5 * time.Second
)

// Client is an HTTP client for the cellar server's REST API.
type Client struct {
	// BaseURL is the server base URL (e.g., "https://cellar.example.com").
	BaseURL string

	// Token is the bearer token sent with every request.
	Token string

	// HTTPClient is the underlying HTTP client.
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for retryable
	// failures on read requests. Writes are never retried.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts.
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff.
	MaxRetryDelay time.Duration

	log *zap.Logger
}

// NewClient creates a client for the cellar server at baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:       trimTrailingSlash(baseURL),
		Token:         token,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
		log:           logging.GetLogger(),
	}
}

// SetTimeout sets the HTTP request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior for read requests.
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// Ping performs a health check against the server.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/api/health", nil)
}

// ListUnsharedBottles returns the bottles in the caller's cellar that have
// not been shared yet. These are the candidates for the share wizard's
// bottle picker.
func (c *Client) ListUnsharedBottles(ctx context.Context) ([]Bottle, error) {
	var bottles []Bottle
	if err := c.get(ctx, "/api/bottles?shared=false", &bottles); err != nil {
		return nil, err
	}
	return bottles, nil
}

// ListBottles returns all bottles in the caller's cellar.
func (c *Client) ListBottles(ctx context.Context) ([]Bottle, error) {
	var bottles []Bottle
	if err := c.get(ctx, "/api/bottles", &bottles); err != nil {
		return nil, err
	}
	return bottles, nil
}

// ListRecipients returns the users the caller may share bottles with.
func (c *Client) ListRecipients(ctx context.Context) ([]Recipient, error) {
	var recipients []Recipient
	if err := c.get(ctx, "/api/recipients", &recipients); err != nil {
		return nil, err
	}
	return recipients, nil
}

// SearchWines searches the wine catalog. An empty query returns the most
// recently added entries.
func (c *Client) SearchWines(ctx context.Context, query string, limit int) ([]Wine, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/wines"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var wines []Wine
	if err := c.get(ctx, path, &wines); err != nil {
		return nil, err
	}
	return wines, nil
}

// ListLocations returns the caller's cellar storage locations.
func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	var locations []Location
	if err := c.get(ctx, "/api/locations", &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// CreateWine creates a new catalog entry.
func (c *Client) CreateWine(ctx context.Context, req CreateWineRequest) (*Wine, error) {
	var wine Wine
	if err := c.doRequest(ctx, http.MethodPost, "/api/wines", req, &wine); err != nil {
		return nil, err
	}
	return &wine, nil
}

// ShareBottles submits a share request: existing bottle ids, new bottle
// specifications, and recipient user ids in a single atomic POST.
//
// Sharing is not idempotent, so this call is never retried. A failure is
// surfaced to the caller, who may resubmit deliberately.
func (c *Client) ShareBottles(ctx context.Context, req ShareRequest) (*ShareResponse, error) {
	var resp ShareResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/bottles/share", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// get performs a GET request with retry on retryable failures.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(currentDelay):
			case <-ctx.Done():
				return newNetworkError("request cancelled", ctx.Err())
			}
			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		err := c.doRequest(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
		c.log.Debug("retrying request",
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return lastErr
}

// doRequest performs a single HTTP exchange. A non-nil body is JSON-encoded;
// a non-nil out receives the decoded response body.
func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return newParseError("failed to encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return newNetworkError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return newNetworkError("could not reach the cellar server", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return newAuthError("authentication failed (check your token)")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(resp.Body)
		return newHTTPError(resp.StatusCode, resp.Status, payload)
	}

	if out == nil {
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError("failed to read response body", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return newParseError(fmt.Sprintf("failed to parse response from %s", path), err)
	}
	return nil
}

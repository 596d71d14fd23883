// Package fetch provides a cached HTTP client for registry API calls.
// Every source provider goes through this client so that responses are
// shared via the response cache and failures surface as typed errors.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/daniel/resume-sentinel/internal/cache"
)

// DefaultTimeout is the per-request timeout for registry calls.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies the service to registry operators.
const DefaultUserAgent = "resume-sentinel/1.0"

// maxBodySize caps response bodies so a misbehaving registry cannot exhaust
// memory. The largest expected payload (the SEC ticker dataset) is ~2 MB.
const maxBodySize = 16 << 20

// Error describes a failed registry request.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns sensible defaults for registry calls.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client wraps an http.Client with read-through response caching. Concurrent
// requests for the same cache key collapse into one upstream call.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	log       zerolog.Logger
	userAgent string
	flight    singleflight.Group
}

// NewClient creates a cached fetch client. The cache may not be nil; tests
// use cache.NewMemory().
func NewClient(c cache.Cache, log zerolog.Logger, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		cache:     c,
		log:       log.With().Str("component", "fetch").Logger(),
		userAgent: opts.UserAgent,
	}
}

// Request describes one cacheable GET.
type Request struct {
	URL         string
	Params      map[string]string
	Headers     map[string]string
	CachePrefix string        // provider name; empty disables caching
	CacheTTL    time.Duration // per-provider TTL
}

// GetJSON performs a cached GET and unmarshals the JSON response body into
// out. The raw body is cached, so a warm cache replays the exact payload.
func (c *Client) GetJSON(ctx context.Context, req Request, out any) error {
	body, err := c.getBody(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{URL: req.URL, Message: "malformed JSON payload", Cause: err}
	}
	return nil
}

func (c *Client) getBody(ctx context.Context, req Request) ([]byte, error) {
	if req.CachePrefix == "" {
		return c.fetchRemote(ctx, req)
	}

	params := make(map[string]string, len(req.Params)+1)
	for k, v := range req.Params {
		params[k] = v
	}
	params["__url"] = req.URL
	key := cache.Key(req.CachePrefix, params)
	if body, ok := c.cache.Get(ctx, key); ok {
		c.log.Debug().Str("url", req.URL).Msg("cache hit")
		return body, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		// A concurrent call may have filled the cache while this one waited.
		if body, ok := c.cache.Get(ctx, key); ok {
			return body, nil
		}
		body, err := c.fetchRemote(ctx, req)
		if err != nil {
			return nil, err
		}
		c.cache.Set(ctx, key, body, req.CacheTTL)
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) fetchRemote(ctx context.Context, req Request) ([]byte, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, &Error{URL: req.URL, Message: "invalid URL", Cause: err}
	}
	if len(req.Params) > 0 {
		q := u.Query()
		for k, v := range req.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{URL: req.URL, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &Error{URL: req.URL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{URL: req.URL, Message: "failed to read body", Cause: err}
	}
	return body, nil
}

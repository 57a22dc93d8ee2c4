// Package client talks to the chart-generation service: it posts birth data,
// decodes the returned chart into a snapshot and caches raw responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/version"
)

const (
	// DefaultURL is the chart service used when none is configured.
	DefaultURL = "http://localhost:8080"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries the per-request correlation ID.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 8 << 20
)

// APIError is a non-success reply from the chart service.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("chart service")
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	b.WriteString(": ")
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(http.StatusText(e.Status))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Cache stores raw service responses by request key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Client generates charts through the chart service.
type Client struct {
	http    *http.Client
	url     string
	timeout time.Duration
	cache   Cache
	log     *logging.Logger
	detect  bool

	group singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithURL sets the chart service base URL.
func WithURL(url string) Option {
	return func(c *Client) {
		c.url = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCache enables the response cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithAspectDetection computes aspects locally when a response has none.
func WithAspectDetection(on bool) Option {
	return func(c *Client) {
		c.detect = on
	}
}

// New creates a chart service client.
func New(opts ...Option) *Client {
	c := &Client{
		url:     DefaultURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	return c
}

// URL returns the configured service URL.
func (c *Client) URL() string {
	return c.url
}

// Result is the outcome of one Generate call.
type Result struct {
	Request   Request
	Snapshot  *chart.Snapshot
	Raw       []byte
	FetchedAt time.Time
	Duration  time.Duration
	Cached    bool
	Shared    bool
	RequestID string
	Err       error
}

type fetched struct {
	raw       []byte
	requestID string
	cached    bool
}

// Generate requests a chart. Identical requests in flight at the same time
// share a single round trip; every caller gets its own snapshot.
func (c *Client) Generate(ctx context.Context, req Request) Result {
	start := time.Now()
	req = req.Normalized()
	res := Result{Request: req, FetchedAt: start}

	if err := req.Validate(); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	key := req.CacheKey()
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// The flight outlives any single caller; only the timeout ends it.
		fctx, cancel := c.flightContext(ctx)
		defer cancel()
		return c.fetch(fctx, key, req)
	})

	var sr singleflight.Result
	select {
	case sr = <-ch:
	case <-ctx.Done():
		res.Duration = time.Since(start)
		res.Err = fmt.Errorf("generate: %w", ctx.Err())
		return res
	}
	res.Duration = time.Since(start)
	res.Shared = sr.Shared
	if sr.Err != nil {
		res.Err = sr.Err
		return res
	}

	f := sr.Val.(*fetched)
	res.Raw = f.raw
	res.RequestID = f.requestID
	res.Cached = f.cached

	snap, err := decodeBytes(f.raw, DecodeOptions{DetectAspects: c.detect})
	if err != nil {
		res.Err = err
		return res
	}
	res.Snapshot = snap
	return res
}

// flightContext detaches a shared fetch from the caller that started it,
// keeping its values but not its cancellation.
func (c *Client) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.timeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, c.timeout)
}

func (c *Client) fetch(ctx context.Context, key string, req Request) (*fetched, error) {
	if c.cache != nil {
		raw, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.log.Warn("cache lookup failed: %v", err)
		case ok:
			if _, derr := decodeBytes(raw, DecodeOptions{}); derr == nil {
				c.log.Debug("cache hit for %s", key)
				return &fetched{raw: raw, cached: true}, nil
			}
			c.log.Warn("discarding unreadable cache entry %s", key)
		}
	}

	id := uuid.NewString()
	log := c.log.With("request_id", id)

	raw, err := c.post(ctx, id, req)
	if err != nil {
		log.Warn("generate failed: %v", err)
		return nil, err
	}
	log.Info("generated chart for %s", req.Name)

	if c.cache != nil {
		if _, derr := decodeBytes(raw, DecodeOptions{}); derr == nil {
			if err := c.cache.Put(ctx, key, raw); err != nil {
				log.Warn("cache store failed: %v", err)
			}
		}
	}
	return &fetched{raw: raw, requestID: id}, nil
}

func (c *Client) post(ctx context.Context, id string, req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("User-Agent", "ls-natal/"+version.Version)
	hreq.Header.Set(RequestIDHeader, id)

	resp, err := c.http.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("post generate: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, raw)
	}
	return raw, nil
}

func parseAPIError(status int, raw []byte) *APIError {
	e := &APIError{Status: status}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		e.Message = body.Error
		e.Detail = body.Message
	}
	if e.Message == "" && len(raw) > 0 && len(raw) < 200 {
		e.Message = strings.TrimSpace(string(raw))
	}
	return e
}

// Health reports whether the chart service answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(hreq)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

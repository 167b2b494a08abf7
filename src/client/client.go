// Package client is the typed wrapper around the remote catalog service.
//
// Every remote operation the storefront performs has one method here. The
// methods translate the loosely typed JSON the service returns into the
// internal movie, user and subscription shapes, filling placeholders for
// missing fields, and turn transport or status failures into *APIError
// values carrying a user-facing message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 5 * time.Minute
	maxBodyBytes    = 8 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Cache      Cache
	CacheTTL   time.Duration
	Logger     *slog.Logger
}

// Client talks to the remote catalog service.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    Cache
	cacheTTL time.Duration
	group    singleflight.Group
	logger   *slog.Logger
}

// New builds a Client. Zero options fall back to sane defaults.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	cache := opts.Cache
	if cache == nil {
		cache = NopCache{}
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     httpClient,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger,
	}
}

// request describes one remote call. fallback is the user-facing message
// used when the service gives no reason of its own.
type request struct {
	op          string
	fallback    string
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

func (r request) url(base string) string {
	u := base + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	return u
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// do performs the call and decodes a successful body into out (when non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	target := r.url(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return &APIError{Op: r.op, Message: r.fallback, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "remote call failed",
			slog.String("op", r.op), slog.String("url", target), slog.String("error", err.Error()))
		return &APIError{Op: r.op, Message: r.fallback, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &APIError{Op: r.op, StatusCode: http.StatusBadGateway, Message: r.fallback, Err: fmt.Errorf("read body: %w", err)}
	}
	c.logger.DebugContext(ctx, "remote call",
		slog.String("op", r.op), slog.String("method", r.method), slog.String("url", target),
		slog.Int("status", resp.StatusCode), slog.Duration("elapsed", time.Since(started)))

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := statusError(r.op, r.fallback, resp.StatusCode, body)
		c.logger.WarnContext(ctx, "remote call rejected",
			slog.String("op", r.op), slog.Int("status", resp.StatusCode), slog.String("message", apiErr.Message))
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Op: r.op, StatusCode: http.StatusBadGateway, Message: r.fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// getCached serves an unauthenticated GET from the cache, collapsing
// identical concurrent misses into one remote call.
func (c *Client) getCached(ctx context.Context, r request, out any) error {
	key := "catalog:" + r.path + "?" + r.query.Encode()
	if data, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		var raw json.RawMessage
		if err := c.do(ctx, r, &raw); err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			raw = json.RawMessage("{}")
		}
		c.cache.Set(ctx, key, raw, c.cacheTTL)
		return []byte(raw), nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(v.([]byte), out); err != nil {
		return &APIError{Op: r.op, StatusCode: http.StatusBadGateway, Message: r.fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// invalidate drops cached catalog reads after a write.
func (c *Client) invalidate(ctx context.Context) {
	if err := c.cache.Purge(ctx); err != nil {
		c.logger.WarnContext(ctx, "[Cache] purge failed", slog.String("error", err.Error()))
	}
}

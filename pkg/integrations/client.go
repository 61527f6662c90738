package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/walletgraph/pkg/cache"
	"github.com/matzehuels/walletgraph/pkg/observability"
)

// Client provides shared HTTP functionality for all explorer API clients.
// It handles caching, retry logic, rate limiting and common request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
	limiter   *RateLimiter
	backoff   cache.Backoff
}

// NewClient creates a Client with the given cache, key namespace, TTL and
// default headers. A nil cache disables caching. Pass nil for headers if no
// default headers are needed.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		keyer:     cache.NewDefaultKeyer(),
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
		backoff:   cache.DefaultBackoff,
	}
}

// WithRateLimiter shares a limiter with the client. Requests wait for a
// token for their host before being sent.
func (c *Client) WithRateLimiter(l *RateLimiter) *Client {
	c.limiter = l
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

// WithBackoff overrides the retry policy used by [Client.Cached].
func (c *Client) WithBackoff(b cache.Backoff) *Client {
	c.backoff = b
	return c
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// Fetch is retried on retryable errors; on success v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	fullKey := c.keyer.HTTPKey(c.namespace, key)
	hooks := observability.Cache()

	if !refresh {
		if data, ok, err := c.cache.Get(ctx, fullKey); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, "http")
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, "http")
	}

	if err := cache.Retry(ctx, c.backoff, fetch); err != nil {
		return err
	}

	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, fullKey, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, "http", len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, host); err != nil {
			return nil, err
		}
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, MaxDetailBytes))
		resp.Body.Close()
		return nil, checkStatus(resp.StatusCode, detail)
	}
	return resp.Body, nil
}

func checkStatus(code int, body []byte) error {
	switch {
	case code >= 200 && code <= 299:
		return nil
	case code == http.StatusNotFound:
		return &StatusError{StatusCode: code, Body: string(body), err: ErrNotFound}
	case code == http.StatusTooManyRequests, code >= 500:
		return cache.Retryable(&StatusError{StatusCode: code, Body: string(body), err: ErrNetwork})
	default:
		return &StatusError{StatusCode: code, Body: string(body), err: ErrNetwork}
	}
}

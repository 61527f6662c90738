// Package walletapi is the client for the unified wallet endpoint,
// GET {base}/api/wallet/{address}?limit&cursor, served by `walletgraph serve`.
//
// It is the fetch capability behind [txgraph.Fetcher]. Pages are never
// cached or retried here; the proxy behind the endpoint owns both.
//
// [txgraph.Fetcher]: github.com/matzehuels/walletgraph/pkg/txgraph.Fetcher
package walletapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/walletgraph/pkg/buildinfo"
	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/integrations"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// DefaultBaseURL is where `walletgraph serve` listens by default.
const DefaultBaseURL = "http://localhost:5000"

// Client fetches raw wallet pages.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client for the wallet endpoint at baseURL.
// An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := integrations.NewClient(nil, "walletapi", 0, map[string]string{
		"Accept":     "application/json",
		"User-Agent": buildinfo.UserAgent(),
	})
	if timeout > 0 {
		h := integrations.NewHTTPClient()
		h.Timeout = timeout
		c.WithHTTPClient(h)
	}
	return &Client{
		Client:  c,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the endpoint root.
func (c *Client) BaseURL() string { return c.baseURL }

// PageURL builds the request URL for one page.
func (c *Client) PageURL(address string, limit int, cursor string) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(txgraph.ClampLimit(limit)))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	return fmt.Sprintf("%s/api/wallet/%s?%s", c.baseURL, integrations.PathEscape(address), q.Encode())
}

// FetchRaw implements [txgraph.Source].
//
// Non-success responses become *errors.ProviderError carrying the status and
// up to 200 bytes of body. Transport and decode failures are NETWORK_FAILURE.
// Context cancellation is returned unchanged.
func (c *Client) FetchRaw(ctx context.Context, address string, limit int, cursor string) (*txgraph.RawPage, error) {
	var page txgraph.RawPage
	err := c.Get(ctx, c.PageURL(address, limit, cursor), &page)
	if err == nil {
		return &page, nil
	}

	var se *integrations.StatusError
	switch {
	case errors.As(err, &se):
		return nil, &errs.ProviderError{Status: se.StatusCode, Detail: se.Body}
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		return nil, errs.Wrap(errs.ErrCodeNetworkFailure, err, "fetch %s", address)
	}
}

var _ txgraph.Source = (*Client)(nil)

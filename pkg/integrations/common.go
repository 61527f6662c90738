package integrations

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/walletgraph/pkg/cache"
)

const httpTimeout = 10 * time.Second

// MaxDetailBytes is how much of an error body is kept on a [StatusError].
const MaxDetailBytes = 200

var (
	// ErrNotFound is returned when an address or transaction doesn't exist upstream.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-success responses).
	ErrNetwork = cache.ErrNetwork
)

// StatusError is a non-success HTTP response.
type StatusError struct {
	StatusCode int
	Body       string // at most MaxDetailBytes of the response body
	err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: status %d", e.err, e.StatusCode)
}

// Unwrap returns ErrNotFound or ErrNetwork.
func (e *StatusError) Unwrap() error { return e.err }

// NewHTTPClient creates an HTTP client with a standard timeout for explorer requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// PathEscape percent-encodes a string for use as a single path segment.
func PathEscape(s string) string { return url.PathEscape(s) }

// Truncate returns at most n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

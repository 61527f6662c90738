package cache

import "strings"

// Keyer builds cache keys for each kind of cached data.
type Keyer interface {
	// HTTPKey is the key for a raw upstream response.
	HTTPKey(namespace, key string) string

	// PageKey is the key for one unified wallet page.
	PageKey(provider, address string, opts PageKeyOpts) string

	// RenderKey is the key for a rendered graph artifact.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// PageKeyOpts are the request parameters that change a wallet page.
type PageKeyOpts struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor,omitempty"`
}

// RenderKeyOpts are the render parameters that change an artifact.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine,omitempty"`
}

// DefaultKeyer is the standard key layout:
//
//	http:{namespace}:{key}
//	page:{provider}:{sha256(address, opts)}
//	render:{sha256(graphHash, opts)}
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:{namespace}:{key}".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// PageKey hashes the address with its page options. Addresses are
// case-sensitive (base58), so no case folding is applied.
func (DefaultKeyer) PageKey(provider, address string, opts PageKeyOpts) string {
	return hashKey("page:"+strings.ToLower(provider), address, opts)
}

// RenderKey hashes the graph digest with the render options.
func (DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}

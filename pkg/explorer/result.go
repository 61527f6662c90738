package explorer

import (
	"errors"

	errs "github.com/matzehuels/walletgraph/pkg/errors"
)

// Kind classifies the outcome of an operation.
type Kind int

const (
	KindOK Kind = iota
	KindSkipped
	KindNoMorePages
	KindProviderError
	KindNetworkFailure
	KindFailed
)

var kindNames = [...]string{"ok", "skipped", "no_more_pages", "provider_error", "network_failure", "failed"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Result is the outcome of ExpandIfNeeded or LoadMore.
type Result struct {
	Kind     Kind
	Err      error // nil for KindOK and KindSkipped
	NewNodes int   // nodes added to the graph
}

// OK reports whether the operation fetched and merged a page.
func (r Result) OK() bool { return r.Kind == KindOK }

func failed(err error) Result {
	return Result{Kind: kindOf(err), Err: err}
}

func kindOf(err error) Kind {
	var pe *errs.ProviderError
	switch {
	case err == nil:
		return KindOK
	case errors.As(err, &pe):
		return KindProviderError
	case errs.Is(err, errs.ErrCodeNoMorePages):
		return KindNoMorePages
	case errs.Is(err, errs.ErrCodeNetworkFailure):
		return KindNetworkFailure
	default:
		return KindFailed
	}
}

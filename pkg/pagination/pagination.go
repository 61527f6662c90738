// Package pagination tracks per-address paging state across repeated
// expand and load-more operations.
//
// Each address has a [PageInfo] with an explicit [State]:
//
//	Uninitialized --Start/Advance--> HasCursor | Exhausted
//	HasCursor     --Advance-------> HasCursor | Exhausted
//	Exhausted     --Advance-------> HasCursor | Exhausted
//
// [Start] and [Advance] are the only ways to produce a PageInfo from a fetch
// result; the [Book] keyed by address is immutable and copy-on-write.
package pagination

import "maps"

// State tags a PageInfo.
type State int

const (
	Uninitialized State = iota
	HasCursor
	Exhausted
)

func (s State) String() string {
	switch s {
	case HasCursor:
		return "has_cursor"
	case Exhausted:
		return "exhausted"
	default:
		return "uninitialized"
	}
}

// Result is what a page fetch reports to the tracker.
type Result struct {
	Cursor    string // "" when the explorer has no further page
	PageCount int    // transactions in the page
	Total     *int   // provider-reported total, nil when unknown
}

// PageInfo is the paging state of one address.
type PageInfo struct {
	State  State  `json:"state"`
	Cursor string `json:"cursor,omitempty"`
	Loaded int    `json:"loaded"`
	Total  *int   `json:"total,omitempty"`
}

// Start records an initial load. Loaded is reset to the page count and a
// missing total falls back to the previously known one.
func Start(prev PageInfo, r Result) PageInfo {
	total := r.Total
	if total == nil {
		total = prev.Total
	}
	return PageInfo{
		State:  stateFor(r.Cursor),
		Cursor: r.Cursor,
		Loaded: r.PageCount,
		Total:  copyInt(total),
	}
}

// Advance records an expand or load-more. Loaded accumulates, the cursor is
// replaced and the total only changes when the result reports one.
func Advance(prev PageInfo, r Result) PageInfo {
	total := prev.Total
	if r.Total != nil {
		total = r.Total
	}
	return PageInfo{
		State:  stateFor(r.Cursor),
		Cursor: r.Cursor,
		Loaded: prev.Loaded + r.PageCount,
		Total:  copyInt(total),
	}
}

// HasMore reports whether another page may exist: a cursor is stored, or
// the known total exceeds what has been loaded.
func (p PageInfo) HasMore() bool {
	if p.Cursor != "" {
		return true
	}
	return p.Total != nil && p.Loaded < *p.Total
}

func stateFor(cursor string) State {
	if cursor != "" {
		return HasCursor
	}
	return Exhausted
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Book maps addresses to their PageInfo. The zero value is an empty book.
// Books are values: With returns a new Book and never modifies the receiver.
type Book struct {
	pages map[string]PageInfo
}

// NewBook returns an empty book.
func NewBook() Book { return Book{} }

// With returns a copy of the book with address set to info.
func (b Book) With(address string, info PageInfo) Book {
	next := make(map[string]PageInfo, len(b.pages)+1)
	maps.Copy(next, b.pages)
	next[address] = info
	return Book{pages: next}
}

// Get returns the PageInfo for address; ok is false for unknown addresses.
func (b Book) Get(address string) (PageInfo, bool) {
	p, ok := b.pages[address]
	return p, ok
}

// Cursor returns the stored cursor for address, or "".
func (b Book) Cursor(address string) string {
	return b.pages[address].Cursor
}

// HasMore reports HasMore for address; unknown addresses have no more pages.
func (b Book) HasMore(address string) bool {
	p, ok := b.pages[address]
	return ok && p.HasMore()
}

// HasMoreMap returns HasMore for every tracked address.
func (b Book) HasMoreMap() map[string]bool {
	out := make(map[string]bool, len(b.pages))
	for addr, p := range b.pages {
		out[addr] = p.HasMore()
	}
	return out
}

// Len returns the number of tracked addresses.
func (b Book) Len() int { return len(b.pages) }

// Snapshot returns a copy of the underlying map for serialization.
func (b Book) Snapshot() map[string]PageInfo {
	return maps.Clone(b.pages)
}

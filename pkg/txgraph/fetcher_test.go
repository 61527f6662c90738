package txgraph

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/walletgraph/pkg/activity"
	errs "github.com/matzehuels/walletgraph/pkg/errors"
)

type fakeSource struct {
	page  *RawPage
	err   error
	calls []fakeCall
}

type fakeCall struct {
	address string
	limit   int
	cursor  string
}

func (f *fakeSource) FetchRaw(ctx context.Context, address string, limit int, cursor string) (*RawPage, error) {
	f.calls = append(f.calls, fakeCall{address, limit, cursor})
	return f.page, f.err
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestFetchPage(t *testing.T) {
	src := &fakeSource{page: &RawPage{
		TotalReceived: 5000,
		TotalSent:     1000,
		FinalBalance:  4000,
		NextCursor:    strPtr("t2"),
		TotalTxs:      intPtr(7),
		Txs: []RawTx{
			{Hash: "t1", Inputs: []RawIO{ioOf("addr")}, Outputs: []RawIO{ioOf("x")}, Confirmations: 2},
			{Hash: "t2", Inputs: []RawIO{ioOf("y")}, Outputs: []RawIO{ioOf("addr")}},
			{Hash: "t3", Inputs: []RawIO{ioOf("z")}, Outputs: []RawIO{ioOf("addr")}},
		},
	}}
	sink := activity.New()
	f := NewFetcher(src, sink, quietLogger())

	page, err := f.FetchPage(context.Background(), "  addr ", FetchOptions{Limit: 2})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}

	if len(src.calls) != 1 || src.calls[0] != (fakeCall{"addr", 2, ""}) {
		t.Errorf("calls = %+v, want one call for trimmed address", src.calls)
	}
	if page.NextCursor != "t2" {
		t.Errorf("NextCursor = %q, want t2", page.NextCursor)
	}
	if page.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3 (raw count)", page.PageCount)
	}
	if page.Total == nil || *page.Total != 7 {
		t.Errorf("Total = %v, want 7", page.Total)
	}
	if page.Fragment.HasNode("z") {
		t.Error("fragment should be capped at limit transactions")
	}
	if len(page.Details.Txs) != 3 || page.Details.Balance != 4000 {
		t.Errorf("Details = %+v", page.Details)
	}

	entries := sink.Entries()
	if len(entries) != 1 || entries[0].Message != "Fetching addr (limit=2, cursor=none)" {
		t.Errorf("log = %+v", entries)
	}
}

func TestFetchPageWithCursor(t *testing.T) {
	src := &fakeSource{page: &RawPage{}}
	sink := activity.New()
	f := NewFetcher(src, sink, quietLogger())

	page, err := f.FetchPage(context.Background(), "addr", FetchOptions{Limit: 99, Cursor: "abc"})
	if err != nil {
		t.Fatal(err)
	}

	if src.calls[0].limit != MaxLimit || src.calls[0].cursor != "abc" {
		t.Errorf("call = %+v, want limit 50 cursor abc", src.calls[0])
	}
	if got := sink.Entries()[0].Message; got != "Fetching addr (limit=50, cursor=abc)" {
		t.Errorf("log = %q", got)
	}
	if page.NextCursor != "" || page.Total != nil {
		t.Errorf("page = %+v, want no cursor and unknown total", page)
	}
	if len(page.Fragment.Nodes) != 1 {
		t.Errorf("nodes = %d, want center only", len(page.Fragment.Nodes))
	}
}

func TestFetchPageEmptyAddress(t *testing.T) {
	src := &fakeSource{}
	sink := activity.New()
	f := NewFetcher(src, sink, quietLogger())

	for _, addr := range []string{"", "   ", "\t\n"} {
		_, err := f.FetchPage(context.Background(), addr, FetchOptions{})
		if !errs.Is(err, errs.ErrCodeEmptyAddress) {
			t.Errorf("FetchPage(%q) error = %v, want EMPTY_ADDRESS", addr, err)
		}
	}
	if len(src.calls) != 0 {
		t.Errorf("source called %d times, want 0", len(src.calls))
	}
	if sink.Len() != 0 {
		t.Errorf("log has %d entries, want 0", sink.Len())
	}
}

func TestFetchPageProviderError(t *testing.T) {
	src := &fakeSource{err: &errs.ProviderError{Status: 502, Detail: "upstream down"}}
	sink := activity.New()
	f := NewFetcher(src, sink, quietLogger())

	_, err := f.FetchPage(context.Background(), "addr", FetchOptions{Limit: 2})
	if !errs.Is(err, errs.ErrCodeProvider) {
		t.Fatalf("error = %v, want PROVIDER_ERROR", err)
	}
	if err.Error() != "API error 502" {
		t.Errorf("message = %q, want it to carry the status", err.Error())
	}

	entries := sink.Entries()
	if len(entries) != 2 {
		t.Fatalf("log entries = %d, want 2", len(entries))
	}
	if entries[1].Message != "API error 502" || entries[1].Level != activity.LevelError {
		t.Errorf("error entry = %+v", entries[1])
	}
	if entries[1].Meta["body"] != "upstream down" {
		t.Errorf("meta = %v, want body", entries[1].Meta)
	}
	if len(src.calls) != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", len(src.calls))
	}
}

func TestFetchPageNetworkFailure(t *testing.T) {
	src := &fakeSource{err: errs.Wrap(errs.ErrCodeNetworkFailure, context.DeadlineExceeded, "fetch addr")}
	sink := activity.New()
	f := NewFetcher(src, sink, quietLogger())

	_, err := f.FetchPage(context.Background(), "addr", FetchOptions{})
	if !errs.Is(err, errs.ErrCodeNetworkFailure) {
		t.Errorf("error = %v, want NETWORK_FAILURE", err)
	}
	if sink.Len() != 1 {
		t.Errorf("log entries = %d, want only the Fetching line", sink.Len())
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultLimit},
		{-5, 1},
		{1, 1},
		{2, 2},
		{50, 50},
		{51, 50},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

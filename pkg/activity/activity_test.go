package activity

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogAppends(t *testing.T) {
	l := New()
	Infof(l, "Fetching %s (limit=%d, cursor=%s)", "addr", 2, "none")
	l.Log(LevelError, "API error 500", Meta{"body": "boom"})

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Message != "Fetching addr (limit=2, cursor=none)" {
		t.Errorf("message = %q", entries[0].Message)
	}
	if entries[0].Level != LevelInfo || entries[1].Level != LevelError {
		t.Errorf("levels = %s, %s", entries[0].Level, entries[1].Level)
	}
	if entries[1].Meta["body"] != "boom" {
		t.Errorf("meta = %v", entries[1].Meta)
	}
	if entries[0].ID == "" || entries[0].ID == entries[1].ID {
		t.Error("entries should have unique ids")
	}
}

func TestLogNeverTruncates(t *testing.T) {
	l := New()
	for i := range 1005 {
		Infof(l, "Fetching addr%d", i)
	}

	entries := l.Entries()
	if len(entries) != 1005 {
		t.Fatalf("entries = %d, want 1005", len(entries))
	}
	if entries[0].Message != "Fetching addr0" || entries[1004].Message != "Fetching addr1004" {
		t.Errorf("kept %q..%q, want addr0..addr1004", entries[0].Message, entries[1004].Message)
	}
}

func TestLogUpdateAndClear(t *testing.T) {
	l := New()
	Infof(l, "a")
	Infof(l, "b")

	l.Update(func(es []Entry) []Entry { return es[1:] })
	if got := l.Entries(); len(got) != 1 || got[0].Message != "b" {
		t.Errorf("after Update = %v", got)
	}

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", l.Len())
	}
}

func TestEntriesIsCopy(t *testing.T) {
	l := New()
	Infof(l, "a")
	got := l.Entries()
	got[0].Message = "mutated"

	if l.Entries()[0].Message != "a" {
		t.Error("Entries should return a copy")
	}
}

func TestSubscribe(t *testing.T) {
	l := New()
	ch, cancel := l.Subscribe(4)

	Infof(l, "hello")

	select {
	case e := <-ch:
		if e.Message != "hello" {
			t.Errorf("message = %q, want hello", e.Message)
		}
	case <-time.After(time.Second):
		t.Fatal("no entry received")
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}

	Infof(l, "after cancel")
}

func TestSubscribeSlowConsumerDoesNotBlock(t *testing.T) {
	l := New()
	_, cancel := l.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := range 10 {
			Infof(l, "line %d", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer blocked on slow subscriber")
	}
}

func TestMirror(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	l := New().Mirror(logger)
	l.Log(LevelError, "API error 502", Meta{"body": "bad gateway"})

	out := buf.String()
	if !strings.Contains(out, "API error 502") || !strings.Contains(out, "bad gateway") {
		t.Errorf("mirror output = %q", out)
	}
}

func TestDiscard(t *testing.T) {
	Discard.Log(LevelInfo, "x", nil)
	Discard.Update(func(es []Entry) []Entry { return es })
}

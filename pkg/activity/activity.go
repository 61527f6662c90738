// Package activity is the user-facing activity log.
//
// Every fetch, expansion and failure appends an [Entry]. The log is what the
// terminal explorer shows in its log panel and what the server streams to
// browsers over SSE. Operator logging goes through charmbracelet/log instead;
// a [Log] can mirror its entries there with [Log.Mirror].
package activity

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Level is the severity of an entry.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Meta is optional structured context attached to an entry.
type Meta map[string]any

// Entry is one line of the activity log.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Meta      Meta      `json:"meta,omitempty"`
}

// Sink accepts log lines. Update replaces the whole entry list atomically.
type Sink interface {
	Log(level Level, msg string, meta Meta)
	Update(fn func([]Entry) []Entry)
}

// Infof logs a formatted info line to s.
func Infof(s Sink, format string, args ...any) {
	s.Log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Errorf logs a formatted error line to s.
func Errorf(s Sink, format string, args ...any) {
	s.Log(LevelError, fmt.Sprintf(format, args...), nil)
}

// Log is an in-memory Sink with subscribers. The zero value is not usable;
// call [New].
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	subs    map[chan Entry]struct{}
	mirror  *log.Logger
	now     func() time.Time
}

// New creates an empty log. Entries are only ever appended; the log is
// emptied by [Log.Clear] or rewritten by [Log.Update], never trimmed.
func New() *Log {
	return &Log{
		subs: make(map[chan Entry]struct{}),
		now:  time.Now,
	}
}

// Mirror copies every new entry to logger at debug (info entries) or warn
// (error entries) level.
func (l *Log) Mirror(logger *log.Logger) *Log {
	l.mu.Lock()
	l.mirror = logger
	l.mu.Unlock()
	return l
}

// Log appends an entry and notifies subscribers.
func (l *Log) Log(level Level, msg string, meta Meta) {
	e := Entry{
		ID:        uuid.NewString(),
		Timestamp: l.now(),
		Level:     level,
		Message:   msg,
		Meta:      meta,
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	mirror := l.mirror
	l.notifyLocked(e)
	l.mu.Unlock()

	if mirror != nil {
		kv := make([]any, 0, len(meta)*2)
		for k, v := range meta {
			kv = append(kv, k, v)
		}
		if level == LevelError {
			mirror.Warn(msg, kv...)
		} else {
			mirror.Debug(msg, kv...)
		}
	}
}

// Update replaces the entry list with fn(current). fn receives a copy.
// Subscribers are not notified of updates, only of appended entries.
func (l *Log) Update(fn func([]Entry) []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = fn(append([]Entry(nil), l.entries...))
}

// Clear empties the log.
func (l *Log) Clear() {
	l.Update(func([]Entry) []Entry { return nil })
}

// Entries returns a copy of the current entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Subscribe returns a channel of newly appended entries and a cancel func.
// Slow subscribers miss entries rather than blocking writers.
func (l *Log) Subscribe(buffer int) (<-chan Entry, func()) {
	ch := make(chan Entry, max(buffer, 1))

	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, ch)
			close(ch)
			l.mu.Unlock()
		})
	}
	return ch, cancel
}

func (l *Log) notifyLocked(e Entry) {
	for ch := range l.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Log(Level, string, Meta)       {}
func (discard) Update(func([]Entry) []Entry) {}

var _ Sink = (*Log)(nil)

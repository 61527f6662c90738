// Package session keeps explorer sessions in memory for the HTTP API.
//
// A [Session] bundles one exploration: its [explorer.Controller], the
// controller's store and the activity log that the browser shows and
// streams. Sessions are identified by random UUIDs and expire after a
// period without requests. Nothing is persisted; a restart drops every
// session.
//
// # Usage
//
//	reg := session.NewRegistry(session.Options{Source: proxyService})
//	sess := reg.Create()
//	sess.Controller.Submit(ctx, "bc1q...")
//
//	sess, err := reg.Get(id) // refreshes the idle timer
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
//
// Run [Registry.Janitor] in a goroutine to evict idle sessions.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/walletgraph/pkg/activity"
	"github.com/matzehuels/walletgraph/pkg/explorer"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Default durations.
const (
	// DefaultIdleTTL is how long a session survives without requests.
	DefaultIdleTTL = 30 * time.Minute

	// DefaultSweepInterval is how often the janitor looks for idle sessions.
	DefaultSweepInterval = time.Minute
)

// Session is one in-memory exploration.
type Session struct {
	ID         string
	Controller *explorer.Controller
	Store      *explorer.MemoryStore
	Log        *activity.Log
	CreatedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// IsExpired reports whether the session has been idle longer than ttl.
func (s *Session) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastSeen()) > ttl
}

// Options configure a Registry.
type Options struct {
	Source       txgraph.Source // wallet page source shared by all sessions
	PageSize     int            // explorer page size, 0 for the default
	DetailsLimit int            // details panel size, 0 for the default
	MaxNeighbors int            // per-transaction address cap, 0 for the default
	IdleTTL      time.Duration  // 0 for DefaultIdleTTL
	Logger       *log.Logger    // defaults to log.Default()
}

// Registry holds the live sessions. All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
		now:      time.Now,
	}
}

// Create starts a new empty session.
func (r *Registry) Create() *Session {
	now := r.now()
	id := uuid.NewString()

	logger := r.opts.Logger.With("session", id[:8])
	entries := activity.New().Mirror(logger)
	store := explorer.NewMemoryStore()
	fetcher := txgraph.NewFetcher(r.opts.Source, entries, logger).WithMaxNeighbors(r.opts.MaxNeighbors)

	sess := &Session{
		ID: id,
		Controller: explorer.New(fetcher, explorer.Options{
			Store:        store,
			Sink:         entries,
			Logger:       logger,
			PageSize:     r.opts.PageSize,
			DetailsLimit: r.opts.DetailsLimit,
		}),
		Store:     store,
		Log:       entries,
		CreatedAt: now,
		lastSeen:  now,
	}

	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()

	r.opts.Logger.Debug("session created", "id", id)
	return sess
}

// Get returns the session with id and refreshes its idle timer.
// Expired sessions are removed and reported as ErrNotFound.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := r.now()
	if sess.IsExpired(now, r.opts.IdleTTL) {
		r.Delete(id)
		return nil, ErrNotFound
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cleanup removes idle sessions and returns how many were removed.
func (r *Registry) Cleanup() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, sess := range r.sessions {
		if sess.IsExpired(now, r.opts.IdleTTL) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Janitor calls Cleanup every interval until ctx is done.
func (r *Registry) Janitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Cleanup(); n > 0 {
				r.opts.Logger.Debug("evicted idle sessions", "count", n, "live", r.Len())
			}
		}
	}
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/walletgraph/pkg/buildinfo"
	"github.com/matzehuels/walletgraph/pkg/proxy"
	"github.com/matzehuels/walletgraph/pkg/session"
)

// DefaultAddr is the listen address of `walletgraph serve`.
const DefaultAddr = ":5000"

const shutdownTimeout = 10 * time.Second

// Options configure a Server.
type Options struct {
	Proxy    *proxy.Service    // required
	Sessions *session.Registry // nil disables the session API
	Logger   *log.Logger       // defaults to log.Default()
}

// Server routes the proxy and the session API.
type Server struct {
	router   chi.Router
	proxy    *proxy.Service
	sessions *session.Registry
	logger   *log.Logger
}

// New builds the router.
func New(opts Options) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		proxy:    opts.Proxy,
		sessions: opts.Sessions,
		logger:   opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestID, middleware.Recoverer, cors, s.accessLog)

	r.Get("/healthz", s.handleHealth)
	s.proxy.Register(r)

	if s.sessions == nil {
		return
	}
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/seed", s.handleSeed)
			r.Post("/clear", s.handleClear)
			r.Post("/expand/{address}", s.handleExpand)
			r.Post("/load-more/{address}", s.handleLoadMore)
			r.Post("/relayout", s.handleRelayout)
			r.Put("/nodes/{nodeID}/position", s.handleMoveNode)
			r.Put("/selection", s.handleSelect)
			r.Get("/view", s.handleView)
			r.Get("/details/{address}", s.handleDetails)
			r.Get("/log", s.handleLog)
			r.Get("/log/stream", s.handleLogStream)
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
// The session janitor runs for the lifetime of the server.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // log streams stay open
		IdleTimeout:  60 * time.Second,
	}

	if s.sessions != nil {
		go s.sessions.Janitor(ctx, session.DefaultSweepInterval)
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "provider", s.proxy.Provider().Name())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"provider": s.proxy.Provider().Name(),
	}
	if s.sessions != nil {
		body["sessions"] = s.sessions.Len()
	}
	writeJSON(w, http.StatusOK, body)
}

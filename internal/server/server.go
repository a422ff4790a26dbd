// Package server exposes the exposure dashboard over HTTP. Every request is
// a stateless evaluation of the shared, read-only resolver.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/robot-exposure/internal/resolver"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	RatePerSecond  float64 // per client; 0 disables limiting
	RateBurst      int
}

// Server serves the dashboard and its JSON API.
type Server struct {
	res     *resolver.Resolver
	opts    Options
	limiter *clientLimiter
}

// New creates a Server over res.
func New(res *resolver.Resolver, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	s := &Server{res: res, opts: opts}
	if opts.RatePerSecond > 0 {
		s.limiter = newClientLimiter(opts.RatePerSecond, opts.RateBurst)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.middleware)
		}
		r.Get("/", s.handleDashboard)
		r.Route("/api", func(r chi.Router) {
			r.Get("/professions", s.handleProfessions)
			r.Get("/applications", s.handleApplications)
			r.Get("/resolve", s.handleResolve)
			r.Get("/chart", s.handleChart)
		})
	})

	return r
}

// ListenAndServe serves on port until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

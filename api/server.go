// Package api exposes the portfolios of a tracker over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/folio/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds server configuration.
type Config struct {
	Addr     string
	Tracker  *tracker.Tracker
	Currency string // used to render report amounts
	Log      zerolog.Logger
}

// Server is the HTTP server of the portfolio API.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	tracker  *tracker.Tracker
	currency string
	log      zerolog.Logger
}

// New creates a server, ready to Start.
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		tracker:  cfg.Tracker,
		currency: cfg.Currency,
		log:      cfg.Log.With().Str("component", "api").Logger(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/users/{user}", func(r chi.Router) {
		r.Get("/portfolio", s.handleGetPortfolio)
		r.Get("/summary", s.handleGetSummary)
		r.Route("/positions/{symbol}", func(r chi.Router) {
			r.Get("/", s.handleGetPosition)
			r.Get("/breakdown", s.handleGetBreakdown)
			r.Get("/lots", s.handleGetLots)
			r.Get("/transactions", s.handleGetTransactions)
		})
		r.Post("/buy", s.handleBuy)
		r.Post("/sell", s.handleSell)
		r.Post("/refresh", s.handleRefresh)
	})
}

// Handler returns the root handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

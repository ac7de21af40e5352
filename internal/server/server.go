// Package server provides the HTTP server and routing for Stockfolio.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/shkang/stockfolio/internal/config"
	commissionhandlers "github.com/shkang/stockfolio/internal/modules/commission/handlers"
	currencyhandlers "github.com/shkang/stockfolio/internal/modules/currency/handlers"
	lotshandlers "github.com/shkang/stockfolio/internal/modules/lots/handlers"
	ordershandlers "github.com/shkang/stockfolio/internal/modules/orders/handlers"
	portfoliohandlers "github.com/shkang/stockfolio/internal/modules/portfolio/handlers"
	realizedhandlers "github.com/shkang/stockfolio/internal/modules/realized/handlers"
)

// Handlers groups the module handlers the server mounts under /api
type Handlers struct {
	Currency   *currencyhandlers.Handler
	Commission *commissionhandlers.Handler
	Lots       *lotshandlers.Handler
	Orders     *ordershandlers.Handler
	Portfolio  *portfoliohandlers.Handler
	Realized   *realizedhandlers.Handler
	System     *SystemHandlers
}

// Config holds server configuration
type Config struct {
	Port     int
	Log      zerolog.Logger
	Config   *config.Config
	Handlers Handlers
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    *config.Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg.Config,
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes(cfg.Handlers)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes mounts every module under /api
func (s *Server) setupRoutes(h Handlers) {
	if h.System != nil {
		s.router.Get("/health", h.System.HandleHealth)
	}

	s.router.Route("/api", func(r chi.Router) {
		if h.System != nil {
			r.Route("/system", func(r chi.Router) {
				r.Get("/status", h.System.HandleSystemStatus)
				r.Get("/database", h.System.HandleDatabaseStats)
			})
		}
		if h.Currency != nil {
			h.Currency.RegisterRoutes(r)
		}
		if h.Commission != nil {
			h.Commission.RegisterRoutes(r)
		}
		if h.Lots != nil {
			h.Lots.RegisterRoutes(r)
		}
		if h.Orders != nil {
			h.Orders.RegisterRoutes(r)
		}
		if h.Portfolio != nil {
			h.Portfolio.RegisterRoutes(r)
		}
		if h.Realized != nil {
			h.Realized.RegisterRoutes(r)
		}
	})
}

// Router exposes the mux, mainly for tests
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
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

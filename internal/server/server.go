package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/audit"
	"github.com/gosuda/frontdesk/internal/config"
	"github.com/gosuda/frontdesk/internal/dispatch"
	"github.com/gosuda/frontdesk/internal/server/middleware"
	"github.com/gosuda/frontdesk/internal/session"
	"github.com/gosuda/frontdesk/internal/store/postgres"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	cfg        *config.Config
}

// New creates a Server with all routes wired.
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, sessions *session.Manager, dispatcher *dispatch.Dispatcher, auditor *audit.Logger) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router: router,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Per-tenant rate overrides come from the tenant's stored policy; zero
	// values fall back to the process-wide default.
	ratePolicy := func(ctx context.Context, tenantID uuid.UUID) (float64, int, bool) {
		tenant, err := store.Tenants().GetByID(ctx, tenantID)
		if err != nil || tenant.Policy.RatePerSecond <= 0 {
			return 0, 0, false
		}
		burst := tenant.Policy.RateBurst
		if burst <= 0 {
			burst = cfg.Server.RateBurst
		}
		return tenant.Policy.RatePerSecond, burst, true
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Authenticated tenant-facing routes (chat, sessions, audit).
	// 2. Operator provisioning routes, self-hosted deployments only.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret, store.APIKeys()))
			r.Use(middleware.RequireTenant())
			r.Use(middleware.RateLimit(ctx, cfg.Server.RatePerSec, cfg.Server.RateBurst, ratePolicy))

			apiConfig := huma.DefaultConfig("Frontdesk API", "1.0.0")
			apiConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			api := humachi.New(r, apiConfig)
			registerAPIRoutes(api, store, sessions, dispatcher, auditor)
		})

		if cfg.SelfHosted {
			r.Group(func(r chi.Router) {
				adminConfig := huma.DefaultConfig("Frontdesk Admin API", "1.0.0")
				adminConfig.Servers = []*huma.Server{
					{URL: "/api/v1"},
				}
				adminAPI := humachi.New(r, adminConfig)
				registerAdminRoutes(adminAPI, store, cfg)
			})
			log.Info().Msg("self-hosted mode: admin provisioning routes enabled")
		}
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

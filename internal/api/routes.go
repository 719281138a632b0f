package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insulindose/interest-api/internal/config"
)

// SetupRoutes configures the router: public submit endpoint, API-key-gated
// admin listing, health, and metrics.
func SetupRoutes(h *Handlers, health *HealthChecker, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// Exact production origins plus a preview-deployment suffix pattern.
	// An empty allow-list opens the API up for local development.
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  allowOrigin(cfg.CORS),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))

	r.Get("/health", health.HandleHealth)
	r.Get("/health/live", health.HandleLiveness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/interest", h.HandleSubmit)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAPIKey(cfg.Admin.APIKey))
			r.Get("/interest", h.HandleAdminList)
		})
	})

	return r
}

// allowOrigin builds the CORS origin check: exact match against the
// configured allow-list, suffix match for preview deployments, wildcard
// fallback when nothing is configured.
func allowOrigin(cfg config.CORSConfig) func(r *http.Request, origin string) bool {
	return func(r *http.Request, origin string) bool {
		if len(cfg.Origins) == 0 && cfg.PreviewSuffix == "" {
			return true
		}
		for _, o := range cfg.Origins {
			if origin == o {
				return true
			}
		}
		if cfg.PreviewSuffix != "" && strings.HasSuffix(origin, cfg.PreviewSuffix) {
			return true
		}
		return false
	}
}

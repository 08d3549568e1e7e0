// Package httptransport wires the console's JSON surface. Handlers stay
// thin: they decode input, delegate to services, and render the shared
// envelope. The browser UI is the real view layer and lives elsewhere.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dinardap-console/internal/platform/middleware"
)

// NewRouter assembles the console routes with the platform middleware
// chain. requestTimeout bounds each request end to end; upstream calls
// inherit the deadline.
func NewRouter(sessions *SessionHandler, queries *RegistryHandler, logger *slog.Logger, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", sessions.handleLogin)
		r.Delete("/session", sessions.handleLogout)
		r.Get("/session", sessions.handleGet)
		r.Post("/session/refresh", sessions.handleRefresh)
		r.Get("/session/user", sessions.handleCurrentUser)

		r.Route("/v1", func(r chi.Router) {
			r.Get("/citizens/{cedula}", queries.handleLookup)
			r.Get("/citizens/{cedula}/validation", queries.handleValidation)
			r.Get("/citizens/{cedula}/profile", queries.handleProfile)
			r.Post("/search", queries.handleSearch)
			r.Get("/audit", queries.handleAudit)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

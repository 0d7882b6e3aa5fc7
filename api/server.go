/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. Metrics:    Request counts and latency for /metrics
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/persons/*       Person catalog, records, profiles
  /api/units/*         Unit catalog, records, profiles
  /api/positions/*     Position catalog
  /api/recalc/*        User-initiated recalculation
  /api/scenarios/*     Demo scenarios
  /metrics             Prometheus metrics

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - metrics/metrics.go: The counters the middleware feeds
  - cmd/server/main.go: Server startup
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meritdesk/awards-engine/metrics"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Person routes
		r.Route("/persons", func(r chi.Router) {
			r.Get("/", h.ListPersons)
			r.Post("/", h.SavePerson)
			r.Get("/{id}", h.GetPerson)
			r.Get("/{id}/awards", h.ListAnnualAwards)
			r.Post("/{id}/awards", h.CreateAnnualAward)
			r.Get("/{id}/achievements", h.ListAchievements)
			r.Post("/{id}/achievements", h.CreateAchievement)
			r.Get("/{id}/assignments", h.ListAssignments)
			r.Post("/{id}/assignments", h.CreateAssignment)
			r.Post("/{id}/assignments/close", h.CloseAssignment)
			r.Get("/{id}/profiles", h.GetProfiles)
			r.Post("/{id}/profiles/service/grant", h.GrantServiceTier)
			r.Post("/{id}/profiles/contribution/grant", h.GrantContributionTier)
		})

		// Record routes addressed by record id
		r.Route("/awards", func(r chi.Router) {
			r.Put("/{id}", h.UpdateAnnualAward)
			r.Delete("/{id}", h.DeleteAnnualAward)
			r.Post("/{id}/citation", h.GrantCitation)
		})
		r.Route("/achievements", func(r chi.Router) {
			r.Post("/{id}/approve", h.ApproveAchievement)
			r.Post("/{id}/reject", h.RejectAchievement)
			r.Delete("/{id}", h.DeleteAchievement)
		})
		r.Route("/assignments", func(r chi.Router) {
			r.Delete("/{id}", h.DeleteAssignment)
		})

		// Unit routes
		r.Route("/units", func(r chi.Router) {
			r.Get("/", h.ListUnits)
			r.Post("/", h.SaveUnit)
			r.Get("/{id}", h.GetUnit)
			r.Get("/{id}/awards", h.ListUnitAwards)
			r.Post("/{id}/awards", h.CreateUnitAward)
			r.Get("/{id}/profile", h.GetUnitProfile)
		})
		r.Route("/unit-awards", func(r chi.Router) {
			r.Put("/{id}", h.UpdateUnitAward)
			r.Delete("/{id}", h.DeleteUnitAward)
		})

		// Position routes
		r.Route("/positions", func(r chi.Router) {
			r.Get("/", h.ListPositions)
			r.Post("/", h.SavePosition)
		})

		// Recalculation routes
		r.Route("/recalc", func(r chi.Router) {
			r.Post("/persons/{id}", h.RecalcPerson)
			r.Post("/units/{id}", h.RecalcUnit)
			r.Post("/all", h.RecalcAll)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// metricsMiddleware records request counts and latency per method and
// status class.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		statusClass := fmt.Sprintf("%dxx", ww.Status()/100)
		metrics.HTTPRequest(r.Method, statusClass, time.Since(start))
	})
}

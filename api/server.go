/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:      Request logging
  2. Recoverer:   Panic recovery (500 instead of crash)
  3. RequestID:   Unique ID per request for tracing
  4. CORS:        Cross-origin requests for the calendar frontend
  5. RequireAuth: Bearer-token authentication (all /api routes except health)

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go:     Token middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler, resolver TokenResolver) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/api/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(RequireAuth(resolver))

		r.Post("/day-type", h.QuickSubmit)

		r.Route("/days", func(r chi.Router) {
			r.Get("/", h.ListDays)
			r.Delete("/", h.DeleteDays)
			r.Put("/{date}", h.PutDay)
			r.Delete("/{date}", h.DeleteDay)
		})

		r.Route("/allowance", func(r chi.Router) {
			r.Get("/", h.ListAllowances)
			r.Put("/{year}", h.PutAllowance)
		})

		r.Get("/stats", h.GetStats)
	})

	return r
}

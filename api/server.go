/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the dashboard

ROUTE GROUPS:
  /api/people/*    People, contracts, corrections, hours, flex results
  /api/flex/*      Company-wide report and integrity check
  /api/holidays/*  Public holidays

SECURITY NOTE:
  No authentication middleware. Run behind the company proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/people", func(r chi.Router) {
			r.Get("/", h.ListPeople)
			r.Post("/", h.CreatePerson)
			r.Get("/{id}/contracts", h.ListContracts)
			r.Post("/{id}/contracts", h.CreateContract)
			r.Get("/{id}/corrections", h.ListCorrections)
			r.Post("/{id}/corrections", h.CreateCorrection)
			r.Post("/{id}/hours", h.CreateHourEntries)
			r.Get("/{id}/flex", h.GetFlex)
			r.Get("/{id}/flex/chart", h.GetFlexChart)
		})

		r.Route("/flex", func(r chi.Router) {
			r.Get("/report", h.GetReport)
			r.Get("/integrity", h.GetIntegrity)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
		})
	})

	return r
}

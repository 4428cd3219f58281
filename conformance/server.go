/*
server.go - HTTP router and middleware configuration for the
conformance surface

ROUTER: chi, same middleware stack as the rest of this codebase's HTTP
surfaces (logging, panic recovery, request IDs, CORS). This package has
no static frontend to serve - it is a standalone API for CI and
cross-language conformance runs.
*/
package conformance

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all conformance routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Route("/datasets", func(r chi.Router) {
		r.Get("/", h.ListDatasets)
		r.Post("/", h.LoadDataset)
		r.Get("/{name}", h.GetDataset)
		r.Post("/{name}/run", h.RunDataset)
	})

	return r
}

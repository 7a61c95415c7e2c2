/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/transactions/*   Transaction recording and listing
  /api/categories/*     Category registry (rename/merge cascade)
  /api/stores/*         Store management
  /api/statements/*     Cash-flow and profit-and-loss statements
  /api/exports/*        CSV downloads

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public and
  scoped only by the company_id query parameter.

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
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Transaction routes
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		// Category routes
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.UpsertCategory)
			r.Post("/merge", h.MergeCategories)
			r.Post("/{id}/rename", h.RenameCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})

		// Store routes
		r.Route("/stores", func(r chi.Router) {
			r.Get("/", h.ListStores)
			r.Post("/", h.CreateStore)
			r.Put("/{id}", h.UpdateStore)
			r.Delete("/{id}", h.DeleteStore)
		})

		// Statement routes
		r.Route("/statements", func(r chi.Router) {
			r.Get("/cash-flow", h.GetCashFlowStatement)
			r.Get("/profit-loss", h.GetProfitLossStatement)
		})

		// Export routes
		r.Route("/exports", func(r chi.Router) {
			r.Get("/cash-flow", h.ExportCashFlow)
			r.Get("/profit-loss", h.ExportProfitLoss)
		})
	})

	return r
}

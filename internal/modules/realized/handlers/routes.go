package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers realized-profit routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/realized", func(r chi.Router) {
		r.Get("/", h.HandleGetSnapshot)
		r.Post("/filter", h.HandleSetFilter)
		r.Post("/filter/clear", h.HandleClearFilter)
		r.Post("/currency", h.HandleSetCurrency)
	})
}

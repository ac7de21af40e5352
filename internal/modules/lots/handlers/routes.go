package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers lot routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/lots", func(r chi.Router) {
		r.Get("/{symbol}", h.HandleGetLots)
		r.Post("/{symbol}/validate-sell", h.HandleValidateSell)
	})
}

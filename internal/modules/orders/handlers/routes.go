package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers order routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.HandleSubmitOrder)
}

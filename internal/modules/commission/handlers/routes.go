package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers commission routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/commission", func(r chi.Router) {
		r.Post("/quote", h.HandleQuote)
		r.Get("/rates/{broker}/{market}/{side}", h.HandleGetRates)
	})
}

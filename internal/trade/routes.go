package trade

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/purchases", h.CreatePurchase)
	r.Put("/purchases/{id}", h.UpdatePurchase)
	r.Post("/sales", h.CreateSale)
	r.Put("/sales/{id}", h.UpdateSale)
	r.Post("/returns", h.CreateReturn)
}

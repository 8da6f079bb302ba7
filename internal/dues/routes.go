package dues

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dues", h.Pending)
	r.Post("/dues/{id}/clear", h.Clear)
}

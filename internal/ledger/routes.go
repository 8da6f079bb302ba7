package ledger

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledger/{type}/{key}", h.Statement)
	r.Post("/ledger/{type}/{key}/backfill", h.Backfill)
}

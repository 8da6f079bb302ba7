package dues

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tyreledger/tyreledger/internal/platform/httpx"
	"github.com/tyreledger/tyreledger/internal/query"
	"github.com/tyreledger/tyreledger/internal/shared"
	"github.com/tyreledger/tyreledger/internal/trade"
)

// Handler exposes pending dues over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the dues handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

type pendingResponse struct {
	Sales      []trade.Sale      `json:"sales"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	rng := shared.DayRange{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	sales, err := h.service.Pending(r.Context(), rng)
	if err != nil {
		h.logger.Error("pending dues failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	filtered := query.Filter(sales, r.URL.Query().Get("q"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	paged, p := shared.Paginate(filtered, page, shared.DefaultPageSize)
	httpx.JSON(w, http.StatusOK, pendingResponse{Sales: paged, Pagination: p})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("clear due failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

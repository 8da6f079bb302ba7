package ledger

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tyreledger/tyreledger/internal/platform/httpx"
	"github.com/tyreledger/tyreledger/internal/shared"
)

// TotalsFn resolves the account's current total cost, the figure every
// statement row displays as its balance.
type TotalsFn func(ctx context.Context, accountType AccountType, accountKey string) (float64, error)

// Handler exposes ledger statements over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
	totals  TotalsFn
}

// NewHandler builds the ledger handler.
func NewHandler(logger *slog.Logger, service *Service, totals TotalsFn) *Handler {
	return &Handler{logger: logger, service: service, totals: totals}
}

func parseAccountType(raw string) (AccountType, bool) {
	switch AccountType(raw) {
	case AccountCompany, AccountCustomer:
		return AccountType(raw), true
	}
	return "", false
}

type statementResponse struct {
	Rows       []Row             `json:"rows"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	accountType, ok := parseAccountType(chi.URLParam(r, "type"))
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown account type")
		return
	}
	key := chi.URLParam(r, "key")
	rng := shared.DayRange{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	totalCost, err := h.totals(r.Context(), accountType, key)
	if err != nil {
		h.logger.Error("resolve account totals failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	rows, err := h.service.Build(r.Context(), accountType, key, totalCost, rng)
	if err != nil {
		h.logger.Error("build ledger failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	paged, p := shared.Paginate(rows, page, shared.DefaultPageSize)
	httpx.JSON(w, http.StatusOK, statementResponse{Rows: paged, Pagination: p})
}

func (h *Handler) Backfill(w http.ResponseWriter, r *http.Request) {
	accountType, ok := parseAccountType(chi.URLParam(r, "type"))
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown account type")
		return
	}
	created, err := h.service.Backfill(r.Context(), accountType, chi.URLParam(r, "key"))
	if err != nil {
		h.logger.Error("ledger backfill failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"created": created})
}

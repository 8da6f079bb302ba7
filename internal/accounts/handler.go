package accounts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/platform/httpx"
	"github.com/tyreledger/tyreledger/internal/query"
	"github.com/tyreledger/tyreledger/internal/shared"
)

// Handler exposes reconciled account listings and payment entry over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the accounts handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

type listResponse struct {
	Accounts   []Reconciled      `json:"accounts"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	reconciled, err := h.service.List(r.Context(), ledger.AccountCompany)
	if err != nil {
		h.logger.Error("list companies failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	filtered := query.Filter(reconciled, r.URL.Query().Get("q"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	paged, p := shared.Paginate(filtered, page, shared.DefaultPageSize)
	httpx.JSON(w, http.StatusOK, listResponse{Accounts: paged, Pagination: p})
}

// ListCustomers applies the multi-token customer search: every token must hit
// the customer name or a numeric figure within its tolerance band.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	reconciled, err := h.service.List(r.Context(), ledger.AccountCustomer)
	if err != nil {
		h.logger.Error("list customers failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	q := r.URL.Query().Get("q")
	filtered := make([]Reconciled, 0, len(reconciled))
	for _, rec := range reconciled {
		fields := []query.NumericField{
			{Value: float64(rec.TotalItems), Tolerance: query.ItemsTolerance},
			{Value: rec.TotalCost, Tolerance: query.MoneyTolerance},
			{Value: rec.TotalPaid, Tolerance: query.MoneyTolerance},
			{Value: rec.Due, Tolerance: query.MoneyTolerance},
		}
		if query.MatchTokens(rec.Key, fields, q) {
			filtered = append(filtered, rec)
		}
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	paged, p := shared.Paginate(filtered, page, shared.DefaultPageSize)
	httpx.JSON(w, http.StatusOK, listResponse{Accounts: paged, Pagination: p})
}

func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	accountType := ledger.AccountType(chi.URLParam(r, "type"))
	if accountType != ledger.AccountCompany && accountType != ledger.AccountCustomer {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown account type")
		return
	}
	brands, err := h.service.Brands(r.Context(), accountType, chi.URLParam(r, "key"))
	if err != nil {
		h.logger.Error("list brands failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, brands)
}

func (h *Handler) CompanyPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	detail, err := h.service.ReplacePayment(r.Context(), req)
	if err != nil {
		h.logger.Error("company payment failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) CustomerPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	detail, err := h.service.AccumulatePayment(r.Context(), req)
	if err != nil {
		h.logger.Error("customer payment failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

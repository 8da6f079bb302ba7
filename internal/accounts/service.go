package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/shared"
	"github.com/tyreledger/tyreledger/internal/trade"
)

// FeedReader exposes the transaction records of the latest snapshot.
type FeedReader interface {
	Purchases(ctx context.Context) ([]trade.Purchase, error)
	Sales(ctx context.Context) ([]trade.Sale, error)
}

// Service reconciles aggregated transaction totals with recorded payments.
type Service struct {
	repo     Repository
	feed     FeedReader
	idem     *shared.IdempotencyStore
	cache    *Cache
	notifier trade.Notifier
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds the accounts service. idem, cache, and notifier may be
// nil in tests.
func NewService(repo Repository, feed FeedReader, idem *shared.IdempotencyStore, cache *Cache, notifier trade.Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		feed:     feed,
		idem:     idem,
		cache:    cache,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger,
	}
}

const idempotencyModule = "accounts.payment"

func (s *Service) summariesFor(ctx context.Context, accountType ledger.AccountType) (map[string]*Summary, error) {
	switch accountType {
	case ledger.AccountCompany:
		purchases, err := s.feed.Purchases(ctx)
		if err != nil {
			return nil, fmt.Errorf("accounts: read purchases: %w", err)
		}
		return AggregatePurchases(purchases), nil
	default:
		sales, err := s.feed.Sales(ctx)
		if err != nil {
			return nil, fmt.Errorf("accounts: read sales: %w", err)
		}
		return AggregateSales(sales), nil
	}
}

// List returns the reconciled accounts of one type, served from the summary
// cache when warm.
func (s *Service) List(ctx context.Context, accountType ledger.AccountType) ([]Reconciled, error) {
	load := func(ctx context.Context) ([]Reconciled, error) {
		summaries, err := s.summariesFor(ctx, accountType)
		if err != nil {
			return nil, err
		}
		details, err := s.repo.ListDetails(ctx, accountType)
		if err != nil {
			return nil, err
		}
		return Reconcile(summaries, details), nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.Reconciled(ctx, accountType, load)
}

// Brands returns the brand-level reconciliation of one account.
func (s *Service) Brands(ctx context.Context, accountType ledger.AccountType, key string) ([]BrandReconciled, error) {
	summaries, err := s.summariesFor(ctx, accountType)
	if err != nil {
		return nil, err
	}
	sum, ok := summaries[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	details, err := s.repo.ListDetails(ctx, accountType)
	if err != nil {
		return nil, err
	}
	return ReconcileBrands(sum, details), nil
}

// TotalCost resolves the account's current aggregated total cost.
func (s *Service) TotalCost(ctx context.Context, accountType ledger.AccountType, key string) (float64, error) {
	summaries, err := s.summariesFor(ctx, accountType)
	if err != nil {
		return 0, err
	}
	sum, ok := summaries[key]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return sum.TotalCost, nil
}

func (s *Service) checkPayment(req PaymentRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return shared.NewValidationError(verrs[0].Field(), verrs[0].Tag())
		}
		return shared.NewValidationError("", err.Error())
	}
	return nil
}

func (s *Service) finishPayment(ctx context.Context, opID string, detail Detail, brandDetail *Detail, entry ledger.Entry) error {
	if s.idem != nil {
		if err := s.idem.CheckAndInsert(ctx, opID, idempotencyModule); err != nil {
			return err
		}
	}
	if err := s.repo.UpsertPayment(ctx, detail, brandDetail, entry); err != nil {
		if s.idem != nil {
			if delErr := s.idem.Delete(ctx, opID); delErr != nil {
				s.logger.Warn("rollback idempotency key failed", slog.Any("error", delErr))
			}
		}
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("summary cache invalidate failed", slog.Any("error", err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Bump(ctx); err != nil {
			s.logger.Warn("feed bump failed", slog.Any("error", err))
		}
	}
	return nil
}

// ReplacePayment records a company payment. The submitted amount replaces the
// stored total paid; with a brand selected, an analogous brand-level detail is
// upserted in the same unit.
func (s *Service) ReplacePayment(ctx context.Context, req PaymentRequest) (*Detail, error) {
	if err := s.checkPayment(req); err != nil {
		return nil, err
	}

	summaries, err := s.summariesFor(ctx, ledger.AccountCompany)
	if err != nil {
		return nil, err
	}
	sum, ok := summaries[req.Key]
	if !ok {
		return nil, fmt.Errorf("company %q: %w", req.Key, shared.ErrNotFound)
	}

	amount := shared.Round2(req.Amount)
	discount := shared.Round2(req.DiscountAmount)
	date := req.Date
	if date == "" {
		date = time.Now().Format(shared.DayFormat)
	}

	detail := Detail{
		AccountType:    ledger.AccountCompany,
		Key:            req.Key,
		TotalPaid:      amount,
		DiscountAmount: discount,
		Due:            computeDue(sum.TotalCost, amount, discount),
		Date:           date,
		TotalItems:     sum.TotalItems,
		TotalCost:      sum.TotalCost,
	}

	var brandDetail *Detail
	if req.Brand != "" {
		b, ok := sum.Brands[req.Brand]
		if !ok {
			return nil, fmt.Errorf("brand %q of company %q: %w", req.Brand, req.Key, shared.ErrNotFound)
		}
		brandDetail = &Detail{
			AccountType: ledger.AccountCompany,
			Key:         req.Key,
			Brand:       req.Brand,
			TotalPaid:   amount,
			Due:         computeDue(b.TotalCost, amount, 0),
			Date:        date,
			TotalItems:  b.TotalItems,
			TotalCost:   b.TotalCost,
		}
	}

	opID := req.OperationID
	if opID == "" {
		opID = uuid.NewString()
	}
	entry := ledger.Entry{
		ID:            uuid.NewString(),
		AccountType:   ledger.AccountCompany,
		AccountKey:    req.Key,
		InvoiceNumber: opID,
		Date:          date,
		Narration:     "Payment to company",
		Credit:        amount,
	}

	if err := s.finishPayment(ctx, opID, detail, brandDetail, entry); err != nil {
		return nil, err
	}
	return &detail, nil
}

// AccumulatePayment records a customer payment. The submitted amount is added
// to the stored total paid. A payment method is required; bank transfers also
// require the bank name.
func (s *Service) AccumulatePayment(ctx context.Context, req PaymentRequest) (*Detail, error) {
	if err := s.checkPayment(req); err != nil {
		return nil, err
	}
	if req.Method == "" {
		return nil, shared.NewValidationError("method", "required")
	}
	if req.Method == MethodBankTransfer && req.BankName == "" {
		return nil, shared.NewValidationError("bank_name", "required for bank transfer")
	}

	summaries, err := s.summariesFor(ctx, ledger.AccountCustomer)
	if err != nil {
		return nil, err
	}
	sum, ok := summaries[req.Key]
	if !ok {
		return nil, fmt.Errorf("customer %q: %w", req.Key, shared.ErrNotFound)
	}

	paid := shared.Round2(req.Amount)
	existing, err := s.repo.GetDetail(ctx, ledger.AccountCustomer, req.Key, "")
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		paid = shared.Round2(existing.TotalPaid + paid)
	}
	discount := shared.Round2(req.DiscountAmount)
	if existing != nil && req.DiscountAmount == 0 {
		discount = existing.DiscountAmount
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format(shared.DayFormat)
	}

	detail := Detail{
		AccountType:    ledger.AccountCustomer,
		Key:            req.Key,
		TotalPaid:      paid,
		DiscountAmount: discount,
		Due:            computeDue(sum.TotalCost, paid, discount),
		Date:           date,
		TotalItems:     sum.TotalItems,
		TotalCost:      sum.TotalCost,
	}

	opID := req.OperationID
	if opID == "" {
		opID = uuid.NewString()
	}
	narration := fmt.Sprintf("Payment_%s", req.Method)
	if req.Method == MethodBankTransfer {
		narration = fmt.Sprintf("Payment_%s_%s", req.Method, req.BankName)
	}
	entry := ledger.Entry{
		ID:            uuid.NewString(),
		AccountType:   ledger.AccountCustomer,
		AccountKey:    req.Key,
		InvoiceNumber: opID,
		Date:          date,
		Narration:     narration,
		Credit:        shared.Round2(req.Amount),
	}

	if err := s.finishPayment(ctx, opID, detail, nil, entry); err != nil {
		return nil, err
	}
	return &detail, nil
}

package trade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tyreledger/tyreledger/internal/shared"
)

// Notifier announces store changes so feed subscribers reload their snapshot.
type Notifier interface {
	Bump(ctx context.Context) error
}

// Service validates and persists trade records.
type Service struct {
	repo     Repository
	notifier Notifier
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds the trade service.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *Service) checkStruct(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return shared.NewValidationError(verrs[0].Field(), verrs[0].Tag())
		}
		return shared.NewValidationError("", err.Error())
	}
	return nil
}

func (s *Service) bump(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Bump(ctx); err != nil {
		s.logger.Warn("feed bump failed", slog.Any("error", err))
	}
}

// CreatePurchase records a purchase transaction.
func (s *Service) CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (*Purchase, error) {
	if err := s.checkStruct(req); err != nil {
		return nil, err
	}
	p := Purchase{
		ID:        uuid.NewString(),
		Company:   req.Company,
		Brand:     req.Brand,
		Model:     req.Model,
		Size:      req.Size,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Date:      req.Date,
		ShopStock: req.ShopStock,
	}
	if err := s.repo.CreatePurchase(ctx, p); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return &p, nil
}

// CreateSale records a sale transaction.
func (s *Service) CreateSale(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	if err := s.checkStruct(req); err != nil {
		return nil, err
	}
	sale := Sale{
		ID:              uuid.NewString(),
		Customer:        req.Customer,
		Company:         req.Company,
		Brand:           req.Brand,
		Model:           req.Model,
		Size:            req.Size,
		UnitPrice:       req.UnitPrice,
		Quantity:        req.Quantity,
		DiscountPercent: req.DiscountPercent,
		Due:             shared.Round2(req.Due),
		Date:            req.Date,
		InvoiceNumber:   req.InvoiceNumber,
	}
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return &sale, nil
}

// CreateReturn records a return transaction. The returned quantity may never
// exceed the quantity of the original sale.
func (s *Service) CreateReturn(ctx context.Context, req CreateReturnRequest) (*Return, error) {
	if err := s.checkStruct(req); err != nil {
		return nil, err
	}
	if req.ReturnQuantity > req.OriginalQuantity {
		return nil, shared.NewValidationError("return_quantity", fmt.Sprintf("exceeds original quantity %d", req.OriginalQuantity))
	}
	rec := Return{
		ID:                uuid.NewString(),
		Customer:          req.Customer,
		Company:           req.Company,
		Brand:             req.Brand,
		Model:             req.Model,
		Size:              req.Size,
		OriginalUnitPrice: req.OriginalUnitPrice,
		OriginalQuantity:  req.OriginalQuantity,
		ReturnUnitPrice:   req.ReturnUnitPrice,
		ReturnQuantity:    req.ReturnQuantity,
		Date:              req.Date,
		Comment:           req.Comment,
	}
	if err := s.repo.CreateReturn(ctx, rec); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return &rec, nil
}

// UpdatePurchase overwrites a purchase by id.
func (s *Service) UpdatePurchase(ctx context.Context, id string, req UpdatePurchaseRequest) (*Purchase, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "required")
	}
	if err := s.checkStruct(req); err != nil {
		return nil, err
	}
	p := Purchase{
		ID:        id,
		Company:   req.Company,
		Brand:     req.Brand,
		Model:     req.Model,
		Size:      req.Size,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Date:      req.Date,
		ShopStock: req.ShopStock,
	}
	if err := s.repo.UpdatePurchase(ctx, p); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return &p, nil
}

// UpdateSale overwrites a sale by id.
func (s *Service) UpdateSale(ctx context.Context, id string, req UpdateSaleRequest) (*Sale, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "required")
	}
	if err := s.checkStruct(req); err != nil {
		return nil, err
	}
	sale := Sale{
		ID:              id,
		Customer:        req.Customer,
		Company:         req.Company,
		Brand:           req.Brand,
		Model:           req.Model,
		Size:            req.Size,
		UnitPrice:       req.UnitPrice,
		Quantity:        req.Quantity,
		DiscountPercent: req.DiscountPercent,
		Due:             shared.Round2(req.Due),
		Date:            req.Date,
		InvoiceNumber:   req.InvoiceNumber,
	}
	if err := s.repo.UpdateSale(ctx, sale); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return &sale, nil
}

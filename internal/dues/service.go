// Package dues narrows sale records to those with outstanding per-sale dues
// and clears them on manual settlement.
package dues

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tyreledger/tyreledger/internal/shared"
	"github.com/tyreledger/tyreledger/internal/trade"
)

// FeedReader exposes the sale records of the latest snapshot.
type FeedReader interface {
	Sales(ctx context.Context) ([]trade.Sale, error)
}

// Service filters and settles per-sale dues. The per-sale due figure is
// maintained independently of the account-level due; clearing one never
// touches the other.
type Service struct {
	feed     FeedReader
	repo     trade.Repository
	notifier trade.Notifier
	logger   *slog.Logger
}

// NewService builds the dues service.
func NewService(feed FeedReader, repo trade.Repository, notifier trade.Notifier, logger *slog.Logger) *Service {
	return &Service{feed: feed, repo: repo, notifier: notifier, logger: logger}
}

// Pending returns the sales with a positive due, optionally narrowed to an
// inclusive day range (both bounds or no filter).
func (s *Service) Pending(ctx context.Context, rng shared.DayRange) ([]trade.Sale, error) {
	sales, err := s.feed.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("dues: read sales: %w", err)
	}
	out := make([]trade.Sale, 0, len(sales))
	for _, sale := range sales {
		if sale.Due <= 0 {
			continue
		}
		if !rng.Contains(sale.Date) {
			continue
		}
		out = append(out, sale)
	}
	return out, nil
}

// Clear zeroes the sale's due figure.
func (s *Service) Clear(ctx context.Context, saleID string) error {
	if saleID == "" {
		return shared.NewValidationError("id", "required")
	}
	if err := s.repo.ClearSaleDue(ctx, saleID); err != nil {
		return err
	}
	if s.notifier != nil {
		if err := s.notifier.Bump(ctx); err != nil {
			s.logger.Warn("feed bump failed", slog.Any("error", err))
		}
	}
	return nil
}

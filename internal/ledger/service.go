package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/tyreledger/tyreledger/internal/shared"
	"github.com/tyreledger/tyreledger/internal/trade"
)

// FeedReader exposes the sale records of the latest snapshot.
type FeedReader interface {
	Sales(ctx context.Context) ([]trade.Sale, error)
}

// Service builds ledger statements and back-fills entries from historical sales.
type Service struct {
	repo   Repository
	feed   FeedReader
	logger *slog.Logger
}

// NewService builds the ledger service.
func NewService(repo Repository, feed FeedReader, logger *slog.Logger) *Service {
	return &Service{repo: repo, feed: feed, logger: logger}
}

func accountKeyOf(s trade.Sale, accountType AccountType) string {
	var key string
	switch accountType {
	case AccountCompany:
		key = s.Company
	default:
		key = s.Customer
	}
	if key == "" {
		return "N/A"
	}
	return key
}

// DefaultNarration describes a back-filled sale entry.
func DefaultNarration(s trade.Sale) string {
	return fmt.Sprintf("%s %s Qty_%d_Rate_%v", s.Size, s.Brand, s.Quantity, s.UnitPrice)
}

// Backfill synthesizes one entry per sale of the account that has no entry
// with the same invoice number yet. Running it twice on an unchanged feed
// writes nothing the second time.
func (s *Service) Backfill(ctx context.Context, accountType AccountType, accountKey string) (int, error) {
	sales, err := s.feed.Sales(ctx)
	if err != nil {
		return 0, fmt.Errorf("ledger: backfill read sales: %w", err)
	}

	created := 0
	for _, sale := range sales {
		if accountKeyOf(sale, accountType) != accountKey {
			continue
		}
		if sale.InvoiceNumber == "" {
			continue
		}
		exists, err := s.repo.HasInvoice(ctx, accountType, sale.InvoiceNumber)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		entry := Entry{
			ID:            uuid.NewString(),
			AccountType:   accountType,
			AccountKey:    accountKey,
			InvoiceNumber: sale.InvoiceNumber,
			Date:          sale.Date,
			Narration:     DefaultNarration(sale),
			Debit:         shared.LineTotal(sale.UnitPrice, sale.Quantity),
			Credit:        0,
		}
		if err := s.repo.Insert(ctx, entry); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		s.logger.Info("ledger backfill", slog.String("account", accountKey), slog.Int("entries", created))
	}
	return created, nil
}

// BackfillAll back-fills every account key present in the sales feed.
func (s *Service) BackfillAll(ctx context.Context, accountType AccountType) (int, error) {
	sales, err := s.feed.Sales(ctx)
	if err != nil {
		return 0, fmt.Errorf("ledger: backfill read sales: %w", err)
	}
	seen := make(map[string]struct{})
	total := 0
	for _, sale := range sales {
		key := accountKeyOf(sale, accountType)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		n, err := s.Backfill(ctx, accountType, key)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Build returns the account's statement: entries filtered to the inclusive
// day range (both bounds or no filter), sorted ascending by date. Every row
// displays totalCost as its balance.
func (s *Service) Build(ctx context.Context, accountType AccountType, accountKey string, totalCost float64, rng shared.DayRange) ([]Row, error) {
	if _, err := s.Backfill(ctx, accountType, accountKey); err != nil {
		return nil, err
	}

	entries, err := s.repo.List(ctx, accountType, accountKey)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		if !rng.Contains(e.Date) {
			continue
		}
		rows = append(rows, Row{Entry: e, Balance: shared.Round2(totalCost)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows, nil
}

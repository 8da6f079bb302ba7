package feed

import (
	"context"
	"fmt"

	"github.com/tyreledger/tyreledger/internal/accounts"
	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/trade"
)

type storeLoader struct {
	trades   trade.Repository
	accounts accounts.Repository
	entries  ledger.Repository
}

// NewLoader builds a Loader that assembles snapshots from the store
// repositories.
func NewLoader(trades trade.Repository, accountRepo accounts.Repository, entryRepo ledger.Repository) Loader {
	return &storeLoader{trades: trades, accounts: accountRepo, entries: entryRepo}
}

func (l *storeLoader) Load(ctx context.Context) (*Snapshot, error) {
	purchases, err := l.trades.ListPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed: load purchases: %w", err)
	}
	sales, err := l.trades.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed: load sales: %w", err)
	}
	returns, err := l.trades.ListReturns(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed: load returns: %w", err)
	}
	companyDetails, err := l.accounts.ListDetails(ctx, ledger.AccountCompany)
	if err != nil {
		return nil, fmt.Errorf("feed: load company details: %w", err)
	}
	customerDetails, err := l.accounts.ListDetails(ctx, ledger.AccountCustomer)
	if err != nil {
		return nil, fmt.Errorf("feed: load customer details: %w", err)
	}
	companyEntries, err := l.entries.ListAll(ctx, ledger.AccountCompany)
	if err != nil {
		return nil, fmt.Errorf("feed: load company entries: %w", err)
	}
	customerEntries, err := l.entries.ListAll(ctx, ledger.AccountCustomer)
	if err != nil {
		return nil, fmt.Errorf("feed: load customer entries: %w", err)
	}

	return &Snapshot{
		Purchases:       purchases,
		Sales:           sales,
		Returns:         returns,
		CompanyDetails:  companyDetails,
		CustomerDetails: customerDetails,
		LedgerEntries:   append(companyEntries, customerEntries...),
	}, nil
}

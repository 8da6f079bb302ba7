package accounts

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/shared"
	"github.com/tyreledger/tyreledger/internal/trade"
)

type detailKey struct {
	accountType ledger.AccountType
	key         string
	brand       string
}

type memoryAccountsRepo struct {
	details map[detailKey]Detail
	entries []ledger.Entry
}

func newMemoryAccountsRepo() *memoryAccountsRepo {
	return &memoryAccountsRepo{details: make(map[detailKey]Detail)}
}

func (r *memoryAccountsRepo) ListDetails(ctx context.Context, accountType ledger.AccountType) ([]Detail, error) {
	var out []Detail
	for k, d := range r.details {
		if k.accountType == accountType {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memoryAccountsRepo) GetDetail(ctx context.Context, accountType ledger.AccountType, key, brand string) (*Detail, error) {
	d, ok := r.details[detailKey{accountType, key, brand}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &d, nil
}

func (r *memoryAccountsRepo) UpsertPayment(ctx context.Context, detail Detail, brandDetail *Detail, entry ledger.Entry) error {
	r.details[detailKey{detail.AccountType, detail.Key, detail.Brand}] = detail
	if brandDetail != nil {
		r.details[detailKey{brandDetail.AccountType, brandDetail.Key, brandDetail.Brand}] = *brandDetail
	}
	r.entries = append(r.entries, entry)
	return nil
}

type accountsFeed struct {
	purchases []trade.Purchase
	sales     []trade.Sale
}

func (f *accountsFeed) Purchases(ctx context.Context) ([]trade.Purchase, error) {
	return f.purchases, nil
}

func (f *accountsFeed) Sales(ctx context.Context) ([]trade.Sale, error) {
	return f.sales, nil
}

func newAccountsService(repo Repository, feed FeedReader) *Service {
	return NewService(repo, feed, nil, nil, nil, slog.Default())
}

func testFeed() *accountsFeed {
	return &accountsFeed{
		purchases: []trade.Purchase{
			{Company: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 5, Date: "2024-03-01"},
		},
		sales: []trade.Sale{
			{Customer: "Basit", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 5, Due: 500, Date: "2024-03-01", InvoiceNumber: "INV-1"},
		},
	}
}

func TestReplacePaymentOverwritesTotalPaid(t *testing.T) {
	repo := newMemoryAccountsRepo()
	svc := newAccountsService(repo, testFeed())

	first, err := svc.ReplacePayment(context.Background(), PaymentRequest{Key: "Acme", Amount: 300, DiscountAmount: 50})
	require.NoError(t, err)
	require.Equal(t, float64(300), first.TotalPaid)
	require.Equal(t, float64(150), first.Due)

	// company reconciliation is last-write-wins
	second, err := svc.ReplacePayment(context.Background(), PaymentRequest{Key: "Acme", Amount: 100})
	require.NoError(t, err)
	require.Equal(t, float64(100), second.TotalPaid)
	require.Equal(t, float64(400), second.Due)
}

func TestReplacePaymentClampsDue(t *testing.T) {
	svc := newAccountsService(newMemoryAccountsRepo(), testFeed())

	detail, err := svc.ReplacePayment(context.Background(), PaymentRequest{Key: "Acme", Amount: 600})
	require.NoError(t, err)
	require.Zero(t, detail.Due)
}

func TestReplacePaymentUnknownCompany(t *testing.T) {
	svc := newAccountsService(newMemoryAccountsRepo(), testFeed())

	_, err := svc.ReplacePayment(context.Background(), PaymentRequest{Key: "Nowhere", Amount: 100})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReplacePaymentRequiresKeyAndAmount(t *testing.T) {
	svc := newAccountsService(newMemoryAccountsRepo(), testFeed())

	_, err := svc.ReplacePayment(context.Background(), PaymentRequest{Amount: 100})
	require.True(t, shared.IsValidation(err))

	_, err = svc.ReplacePayment(context.Background(), PaymentRequest{Key: "Acme"})
	require.True(t, shared.IsValidation(err))
}

func TestReplacePaymentBrandLevelUpsert(t *testing.T) {
	repo := newMemoryAccountsRepo()
	svc := newAccountsService(repo, testFeed())

	_, err := svc.ReplacePayment(context.Background(), PaymentRequest{Key: "Acme", Brand: "X", Amount: 200})
	require.NoError(t, err)

	brand, ok := repo.details[detailKey{ledger.AccountCompany, "Acme", "X"}]
	require.True(t, ok)
	require.Equal(t, float64(200), brand.TotalPaid)
	require.Equal(t, float64(300), brand.Due)
}

func TestReplacePaymentUnknownBrand(t *testing.T) {
	svc := newAccountsService(newMemoryAccountsRepo(), testFeed())

	_, err := svc.ReplacePayment(context.Background(), PaymentRequest{Key: "Acme", Brand: "Z", Amount: 100})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReplacePaymentEmitsLedgerEntry(t *testing.T) {
	repo := newMemoryAccountsRepo()
	svc := newAccountsService(repo, testFeed())

	_, err := svc.ReplacePayment(context.Background(), PaymentRequest{Key: "Acme", Amount: 250, Date: "2024-03-05"})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)

	entry := repo.entries[0]
	require.Equal(t, ledger.AccountCompany, entry.AccountType)
	require.Equal(t, "Acme", entry.AccountKey)
	require.Equal(t, float64(250), entry.Credit)
	require.Zero(t, entry.Debit)
	require.Equal(t, "2024-03-05", entry.Date)
	require.NotEmpty(t, entry.InvoiceNumber)
}

func TestAccumulatePaymentAddsToExisting(t *testing.T) {
	repo := newMemoryAccountsRepo()
	svc := newAccountsService(repo, testFeed())

	first, err := svc.AccumulatePayment(context.Background(), PaymentRequest{Key: "Basit", Amount: 200, Method: MethodCash})
	require.NoError(t, err)
	require.Equal(t, float64(200), first.TotalPaid)
	require.Equal(t, float64(300), first.Due)

	// customer reconciliation accumulates
	second, err := svc.AccumulatePayment(context.Background(), PaymentRequest{Key: "Basit", Amount: 100, Method: MethodCash})
	require.NoError(t, err)
	require.Equal(t, float64(300), second.TotalPaid)
	require.Equal(t, float64(200), second.Due)
}

func TestAccumulatePaymentRequiresMethod(t *testing.T) {
	svc := newAccountsService(newMemoryAccountsRepo(), testFeed())

	_, err := svc.AccumulatePayment(context.Background(), PaymentRequest{Key: "Basit", Amount: 100})
	require.True(t, shared.IsValidation(err))
}

func TestAccumulatePaymentBankTransferRequiresBankName(t *testing.T) {
	svc := newAccountsService(newMemoryAccountsRepo(), testFeed())

	_, err := svc.AccumulatePayment(context.Background(), PaymentRequest{Key: "Basit", Amount: 100, Method: MethodBankTransfer})
	require.True(t, shared.IsValidation(err))

	_, err = svc.AccumulatePayment(context.Background(), PaymentRequest{Key: "Basit", Amount: 100, Method: MethodBankTransfer, BankName: "First National"})
	require.NoError(t, err)
}

func TestAccumulatePaymentNarrationCarriesMethod(t *testing.T) {
	repo := newMemoryAccountsRepo()
	svc := newAccountsService(repo, testFeed())

	_, err := svc.AccumulatePayment(context.Background(), PaymentRequest{Key: "Basit", Amount: 100, Method: MethodBankTransfer, BankName: "First National"})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	require.Equal(t, "Payment_bank_transfer_First National", repo.entries[0].Narration)
}

func TestTotalCost(t *testing.T) {
	svc := newAccountsService(newMemoryAccountsRepo(), testFeed())

	cost, err := svc.TotalCost(context.Background(), ledger.AccountCompany, "Acme")
	require.NoError(t, err)
	require.Equal(t, float64(500), cost)

	_, err = svc.TotalCost(context.Background(), ledger.AccountCompany, "Nobody")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

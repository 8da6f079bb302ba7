package trade

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyreledger/tyreledger/internal/shared"
)

type memoryTradeRepo struct {
	purchases map[string]Purchase
	sales     map[string]Sale
	returns   map[string]Return
}

func newMemoryTradeRepo() *memoryTradeRepo {
	return &memoryTradeRepo{
		purchases: make(map[string]Purchase),
		sales:     make(map[string]Sale),
		returns:   make(map[string]Return),
	}
}

func (r *memoryTradeRepo) ListPurchases(ctx context.Context) ([]Purchase, error) {
	var out []Purchase
	for _, p := range r.purchases {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryTradeRepo) ListSales(ctx context.Context) ([]Sale, error) {
	var out []Sale
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, nil
}

func (r *memoryTradeRepo) ListReturns(ctx context.Context) ([]Return, error) {
	var out []Return
	for _, rec := range r.returns {
		out = append(out, rec)
	}
	return out, nil
}

func (r *memoryTradeRepo) GetSale(ctx context.Context, id string) (*Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *memoryTradeRepo) CreatePurchase(ctx context.Context, p Purchase) error {
	r.purchases[p.ID] = p
	return nil
}

func (r *memoryTradeRepo) CreateSale(ctx context.Context, s Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *memoryTradeRepo) CreateReturn(ctx context.Context, rec Return) error {
	r.returns[rec.ID] = rec
	return nil
}

func (r *memoryTradeRepo) UpdatePurchase(ctx context.Context, p Purchase) error {
	if _, ok := r.purchases[p.ID]; !ok {
		return shared.ErrNotFound
	}
	r.purchases[p.ID] = p
	return nil
}

func (r *memoryTradeRepo) UpdateSale(ctx context.Context, s Sale) error {
	if _, ok := r.sales[s.ID]; !ok {
		return shared.ErrNotFound
	}
	r.sales[s.ID] = s
	return nil
}

func (r *memoryTradeRepo) ClearSaleDue(ctx context.Context, id string) error {
	s, ok := r.sales[id]
	if !ok {
		return shared.ErrNotFound
	}
	s.Due = 0
	r.sales[id] = s
	return nil
}

type countingNotifier struct {
	bumps int
}

func (n *countingNotifier) Bump(ctx context.Context) error {
	n.bumps++
	return nil
}

func newTestService(repo Repository, notifier Notifier) *Service {
	return NewService(repo, notifier, slog.Default())
}

func TestCreatePurchase(t *testing.T) {
	repo := newMemoryTradeRepo()
	notifier := &countingNotifier{}
	svc := newTestService(repo, notifier)

	p, err := svc.CreatePurchase(context.Background(), CreatePurchaseRequest{
		Company:   "Acme",
		Brand:     "X",
		Size:      "10",
		UnitPrice: 100,
		Quantity:  5,
		Date:      "2024-03-01",
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, float64(500), p.Total())
	require.Len(t, repo.purchases, 1)
	require.Equal(t, 1, notifier.bumps)
}

func TestCreatePurchaseValidation(t *testing.T) {
	svc := newTestService(newMemoryTradeRepo(), &countingNotifier{})

	_, err := svc.CreatePurchase(context.Background(), CreatePurchaseRequest{
		Brand: "X",
		Size:  "10",
		Date:  "2024-03-01",
	})
	require.Error(t, err)
	require.True(t, shared.IsValidation(err))
}

func TestCreateReturnQuantityExceedsOriginal(t *testing.T) {
	repo := newMemoryTradeRepo()
	notifier := &countingNotifier{}
	svc := newTestService(repo, notifier)

	_, err := svc.CreateReturn(context.Background(), CreateReturnRequest{
		Customer:         "Basit",
		Brand:            "X",
		Size:             "10",
		OriginalQuantity: 5,
		ReturnQuantity:   6,
		Date:             "2024-03-02",
	})
	require.Error(t, err)
	require.True(t, shared.IsValidation(err))
	// fail fast: nothing written, no feed bump
	require.Empty(t, repo.returns)
	require.Zero(t, notifier.bumps)
}

func TestUpdateSaleOverwritesByID(t *testing.T) {
	repo := newMemoryTradeRepo()
	svc := newTestService(repo, &countingNotifier{})

	created, err := svc.CreateSale(context.Background(), CreateSaleRequest{
		Customer:      "Basit",
		Brand:         "X",
		Size:          "10",
		UnitPrice:     100,
		Quantity:      2,
		Due:           200,
		Date:          "2024-03-01",
		InvoiceNumber: "INV-1",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSale(context.Background(), created.ID, UpdateSaleRequest{
		Customer:      "Basit",
		Brand:         "X",
		Size:          "10",
		UnitPrice:     100,
		Quantity:      3,
		Due:           100,
		Date:          "2024-03-01",
		InvoiceNumber: "INV-1",
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, 3, repo.sales[created.ID].Quantity)
	require.Equal(t, float64(100), repo.sales[created.ID].Due)
}

func TestUpdateSaleUnknownID(t *testing.T) {
	svc := newTestService(newMemoryTradeRepo(), &countingNotifier{})

	_, err := svc.UpdateSale(context.Background(), "missing", UpdateSaleRequest{
		Brand:         "X",
		Size:          "10",
		Date:          "2024-03-01",
		InvoiceNumber: "INV-9",
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

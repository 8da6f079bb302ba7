package jobs

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/tyreledger/tyreledger/internal/accounts"
	"github.com/tyreledger/tyreledger/internal/feed"
	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/shared"
	"github.com/tyreledger/tyreledger/internal/trade"
)

type feedStore struct {
	mu    sync.Mutex
	sales []trade.Sale
}

func (s *feedStore) Load(ctx context.Context) (*feed.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &feed.Snapshot{Sales: append([]trade.Sale(nil), s.sales...)}, nil
}

func (s *feedStore) setSales(sales []trade.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = sales
}

type staticAccountsRepo struct{}

func (staticAccountsRepo) ListDetails(ctx context.Context, accountType ledger.AccountType) ([]accounts.Detail, error) {
	return nil, nil
}

func (staticAccountsRepo) GetDetail(ctx context.Context, accountType ledger.AccountType, key, brand string) (*accounts.Detail, error) {
	return nil, shared.ErrNotFound
}

func (staticAccountsRepo) UpsertPayment(ctx context.Context, detail accounts.Detail, brandDetail *accounts.Detail, entry ledger.Entry) error {
	return nil
}

type memoryEntryRepo struct {
	mu      sync.Mutex
	entries []ledger.Entry
}

func (r *memoryEntryRepo) List(ctx context.Context, accountType ledger.AccountType, accountKey string) ([]ledger.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Entry
	for _, e := range r.entries {
		if e.AccountType == accountType && e.AccountKey == accountKey {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryEntryRepo) ListAll(ctx context.Context, accountType ledger.AccountType) ([]ledger.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Entry
	for _, e := range r.entries {
		if e.AccountType == accountType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryEntryRepo) Insert(ctx context.Context, e ledger.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *memoryEntryRepo) HasInvoice(ctx context.Context, accountType ledger.AccountType, invoiceNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.AccountType == accountType && e.InvoiceNumber == invoiceNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryEntryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func runningHub(t *testing.T, store *feedStore) (*feed.Hub, *feed.Publisher, *redis.Client, context.Context) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hub := feed.NewHub(store, client, 10*time.Millisecond, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.Run(ctx) }()

	return hub, feed.NewPublisher(client), client, ctx
}

// bumpUntil republishes the change notification until the hub's snapshot
// reflects it; a bump published before Run subscribes would otherwise be lost.
func bumpUntil(t *testing.T, ctx context.Context, pub *feed.Publisher, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		_ = pub.Bump(ctx)
		return cond()
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSummaryWarmupFollowsFeed(t *testing.T) {
	store := &feedStore{sales: []trade.Sale{
		{ID: "s1", Customer: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 1, Date: "2024-01-05", InvoiceNumber: "INV-1"},
	}}
	hub, pub, client, ctx := runningHub(t, store)

	cache := accounts.NewCache(client, time.Minute)
	svc := accounts.NewService(staticAccountsRepo{}, hub, nil, cache, nil, slog.Default())
	warmup := NewSummaryWarmupHandler(svc, slog.Default())

	require.NoError(t, warmup(ctx, NewSummaryWarmupTask()))
	out, err := svc.List(ctx, ledger.AccountCustomer)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, float64(100), out[0].TotalCost)

	// a second sale lands and the cache version moves on; the next warm-up
	// must re-cache from the new snapshot, not the boot-time one
	store.setSales([]trade.Sale{
		{ID: "s1", Customer: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 1, Date: "2024-01-05", InvoiceNumber: "INV-1"},
		{ID: "s2", Customer: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 9, Date: "2024-01-06", InvoiceNumber: "INV-2"},
	})
	require.NoError(t, cache.Invalidate(ctx))
	bumpUntil(t, ctx, pub, func() bool {
		sales, err := hub.Sales(ctx)
		return err == nil && len(sales) == 2
	})

	require.NoError(t, warmup(ctx, NewSummaryWarmupTask()))
	out, err = svc.List(ctx, ledger.AccountCustomer)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, float64(1000), out[0].TotalCost)
	require.Equal(t, float64(1000), out[0].Due)
}

func TestLedgerBackfillFollowsFeed(t *testing.T) {
	store := &feedStore{sales: []trade.Sale{
		{ID: "s1", Customer: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 2, Date: "2024-01-05", InvoiceNumber: "INV-1"},
	}}
	hub, pub, _, ctx := runningHub(t, store)

	repo := &memoryEntryRepo{}
	svc := ledger.NewService(repo, hub, slog.Default())
	backfill := NewLedgerBackfillHandler(svc, slog.Default())

	task, err := NewLedgerBackfillTask(LedgerBackfillPayload{AccountType: ledger.AccountCustomer})
	require.NoError(t, err)

	require.NoError(t, backfill(ctx, task))
	require.Equal(t, 1, repo.count())

	store.setSales([]trade.Sale{
		{ID: "s1", Customer: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 2, Date: "2024-01-05", InvoiceNumber: "INV-1"},
		{ID: "s2", Customer: "Beta", Brand: "Y", Size: "12", UnitPrice: 50, Quantity: 4, Date: "2024-01-07", InvoiceNumber: "INV-2"},
	})
	bumpUntil(t, ctx, pub, func() bool {
		sales, err := hub.Sales(ctx)
		return err == nil && len(sales) == 2
	})

	require.NoError(t, backfill(ctx, task))
	require.Equal(t, 2, repo.count())
}

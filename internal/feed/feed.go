// Package feed delivers full point-in-time snapshots of the store's record
// collections. The engine never mutates shared state; it recomputes from the
// latest snapshot on every delivery.
package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tyreledger/tyreledger/internal/accounts"
	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/trade"
)

// Channel is the Redis pub/sub channel announcing store changes.
const Channel = "feed.bump"

// Snapshot is a complete view of all record collections. Subscribers must
// treat it as immutable.
type Snapshot struct {
	Purchases       []trade.Purchase
	Sales           []trade.Sale
	Returns         []trade.Return
	CompanyDetails  []accounts.Detail
	CustomerDetails []accounts.Detail
	LedgerEntries   []ledger.Entry
}

// Loader produces a fresh snapshot from the store.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Publisher announces store changes. It satisfies trade.Notifier.
type Publisher struct {
	client *redis.Client
}

// NewPublisher builds a change publisher.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Bump publishes a change notification.
func (p *Publisher) Bump(ctx context.Context) error {
	return p.client.Publish(ctx, Channel, "1").Err()
}

// Hub subscribes to change notifications, reloads snapshots, and fans them
// out. Deliveries per subscriber are latest-wins: a slow consumer sees the
// newest snapshot, never a backlog.
type Hub struct {
	loader   Loader
	client   *redis.Client
	debounce time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	latest *Snapshot
	subs   map[int]chan *Snapshot
	nextID int
}

// NewHub builds the snapshot hub.
func NewHub(loader Loader, client *redis.Client, debounce time.Duration, logger *slog.Logger) *Hub {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &Hub{
		loader:   loader,
		client:   client,
		debounce: debounce,
		logger:   logger,
		subs:     make(map[int]chan *Snapshot),
	}
}

// Run listens for change notifications until the context is cancelled,
// coalescing bursts of bumps into one reload per debounce window.
func (h *Hub) Run(ctx context.Context) error {
	if _, err := h.reload(ctx); err != nil {
		h.logger.Warn("initial snapshot load failed", slog.Any("error", err))
	}

	pubsub := h.client.Subscribe(ctx, Channel)
	defer func() {
		_ = pubsub.Close()
	}()

	timer := time.NewTimer(h.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-msgs:
			if !ok {
				return nil
			}
			if !pending {
				pending = true
				timer.Reset(h.debounce)
			}
		case <-timer.C:
			pending = false
			snap, err := h.reload(ctx)
			if err != nil {
				h.logger.Error("snapshot reload failed", slog.Any("error", err))
				continue
			}
			h.broadcast(snap)
		}
	}
}

func (h *Hub) reload(ctx context.Context) (*Snapshot, error) {
	snap, err := h.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.latest = snap
	h.mu.Unlock()
	return snap, nil
}

func (h *Hub) broadcast(snap *Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		select {
		case sub <- snap:
		default:
			// drop the stale snapshot, keep the new one
			select {
			case <-sub:
			default:
			}
			sub <- snap
		}
	}
}

// Subscribe registers a snapshot consumer. The returned cancel func is the
// only way to stop deliveries; in-flight store writes are not cancellable.
func (h *Hub) Subscribe() (<-chan *Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan *Snapshot, 1)
	if h.latest != nil {
		ch <- h.latest
	}
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Latest returns the current snapshot, loading one when none has been
// delivered yet.
func (h *Hub) Latest(ctx context.Context) (*Snapshot, error) {
	h.mu.Lock()
	snap := h.latest
	h.mu.Unlock()
	if snap != nil {
		return snap, nil
	}
	return h.reload(ctx)
}

// Purchases exposes the latest purchase records.
func (h *Hub) Purchases(ctx context.Context) ([]trade.Purchase, error) {
	snap, err := h.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Purchases, nil
}

// Sales exposes the latest sale records.
func (h *Hub) Sales(ctx context.Context) ([]trade.Sale, error) {
	snap, err := h.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Sales, nil
}

// Returns exposes the latest return records.
func (h *Hub) Returns(ctx context.Context) ([]trade.Return, error) {
	snap, err := h.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Returns, nil
}

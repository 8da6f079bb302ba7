package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tyreledger/tyreledger/internal/accounts"
	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerBackfill back-fills ledger entries from historical sales.
	TaskLedgerBackfill = "ledger:backfill"
	// TaskSummaryWarmup recomputes and caches the reconciled account lists.
	TaskSummaryWarmup = "summary:warmup"
	// TaskIdempotencyCleanup prunes expired idempotency keys.
	TaskIdempotencyCleanup = "idempotency:cleanup"
)

// idempotencyRetention is how long processed operation ids are kept around.
const idempotencyRetention = 7 * 24 * time.Hour

// LedgerBackfillPayload selects which ledger to back-fill.
type LedgerBackfillPayload struct {
	AccountType ledger.AccountType `json:"account_type"`
}

// NewLedgerBackfillTask constructs a back-fill task.
func NewLedgerBackfillTask(payload LedgerBackfillPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerBackfill, data), nil
}

// NewSummaryWarmupTask constructs a cache warm-up task.
func NewSummaryWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskSummaryWarmup, nil)
}

// NewIdempotencyCleanupTask constructs a key-pruning task.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskIdempotencyCleanup, nil)
}

// NewLedgerBackfillHandler processes TaskLedgerBackfill tasks.
func NewLedgerBackfillHandler(svc *ledger.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LedgerBackfillPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		created, err := svc.BackfillAll(ctx, payload.AccountType)
		if err != nil {
			return err
		}
		logger.Info("ledger backfill task done",
			slog.String("account_type", string(payload.AccountType)),
			slog.Int("created", created))
		return nil
	}
}

// NewIdempotencyCleanupHandler processes TaskIdempotencyCleanup tasks.
func NewIdempotencyCleanupHandler(store *shared.IdempotencyStore, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := store.Cleanup(ctx, idempotencyRetention); err != nil {
			return err
		}
		logger.Info("idempotency keys pruned")
		return nil
	}
}

// NewSummaryWarmupHandler processes TaskSummaryWarmup tasks.
func NewSummaryWarmupHandler(svc *accounts.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		for _, accountType := range []ledger.AccountType{ledger.AccountCompany, ledger.AccountCustomer} {
			if _, err := svc.List(ctx, accountType); err != nil {
				return err
			}
		}
		logger.Info("summary cache warmed")
		return nil
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/tyreledger/tyreledger/internal/accounts"
	"github.com/tyreledger/tyreledger/internal/app"
	"github.com/tyreledger/tyreledger/internal/feed"
	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/platform/cache"
	"github.com/tyreledger/tyreledger/internal/platform/db"
	"github.com/tyreledger/tyreledger/internal/shared"
	"github.com/tyreledger/tyreledger/internal/trade"
	"github.com/tyreledger/tyreledger/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tradeRepo := trade.NewRepository(pool)
	accountsRepo := accounts.NewRepository(pool)
	ledgerRepo := ledger.NewRepository(pool)

	loader := feed.NewLoader(tradeRepo, accountsRepo, ledgerRepo)
	hub := feed.NewHub(loader, redisClient, cfg.FeedDebounce, logger)

	idemStore := shared.NewIdempotencyStore(pool)
	summaryCache := accounts.NewCache(redisClient, cfg.SummaryCacheTTL)
	ledgerService := ledger.NewService(ledgerRepo, hub, logger)
	accountsService := accounts.NewService(accountsRepo, hub, nil, summaryCache, nil, logger)

	customerBackfill, err := jobs.NewLedgerBackfillTask(jobs.LedgerBackfillPayload{AccountType: ledger.AccountCustomer})
	if err != nil {
		logger.Error("build backfill task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerBackfill, Handler: jobs.NewLedgerBackfillHandler(ledgerService, logger)},
			{Type: jobs.TaskSummaryWarmup, Handler: jobs.NewSummaryWarmupHandler(accountsService, logger)},
			{Type: jobs.TaskIdempotencyCleanup, Handler: jobs.NewIdempotencyCleanupHandler(idemStore, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every 6h", Task: customerBackfill, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
			{Spec: "@every 15m", Task: jobs.NewSummaryWarmupTask(), Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
			{Spec: "@daily", Task: jobs.NewIdempotencyCleanupTask(), Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// The hub must keep reloading snapshots here too: the cron tasks
	// recompute from Latest, and a hub that never runs would feed them the
	// boot-time snapshot forever.
	group.Go(func() error {
		return hub.Run(groupCtx)
	})

	group.Go(func() error {
		return worker.Run(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker shutdown complete")
}

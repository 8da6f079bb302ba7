package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/tyreledger/tyreledger/internal/accounts"
	"github.com/tyreledger/tyreledger/internal/app"
	"github.com/tyreledger/tyreledger/internal/dues"
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
		slog.Default().Info("test mode detected, skipping server startup")
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
	publisher := feed.NewPublisher(redisClient)

	idemStore := shared.NewIdempotencyStore(pool)
	summaryCache := accounts.NewCache(redisClient, cfg.SummaryCacheTTL)

	tradeService := trade.NewService(tradeRepo, publisher, logger)
	ledgerService := ledger.NewService(ledgerRepo, hub, logger)
	accountsService := accounts.NewService(accountsRepo, hub, idemStore, summaryCache, publisher, logger)
	duesService := dues.NewService(hub, tradeRepo, publisher, logger)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	if _, err := jobsClient.EnqueueSummaryWarmup(ctx); err != nil {
		logger.Warn("enqueue summary warmup", slog.Any("error", err))
	}
	for _, accountType := range []ledger.AccountType{ledger.AccountCompany, ledger.AccountCustomer} {
		if _, err := jobsClient.EnqueueLedgerBackfill(ctx, jobs.LedgerBackfillPayload{AccountType: accountType}); err != nil {
			logger.Warn("enqueue ledger backfill", slog.String("account_type", string(accountType)), slog.Any("error", err))
		}
	}

	tradeHandler := trade.NewHandler(logger, tradeService)
	ledgerHandler := ledger.NewHandler(logger, ledgerService, accountsService.TotalCost)
	accountsHandler := accounts.NewHandler(logger, accountsService)
	duesHandler := dues.NewHandler(logger, duesService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		TradeHandler:    tradeHandler,
		AccountsHandler: accountsHandler,
		LedgerHandler:   ledgerHandler,
		DuesHandler:     duesHandler,
		Pool:            pool,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return hub.Run(groupCtx)
	})

	group.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

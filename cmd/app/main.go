// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-billing-service/internal/config"
	pg "shop-billing-service/internal/infra/db/postgres"
	"shop-billing-service/internal/infra/logging"
	"shop-billing-service/internal/infra/metrics"
	pay "shop-billing-service/internal/infra/payment"
	red "shop-billing-service/internal/infra/redis"
	"shop-billing-service/internal/infra/sched"
	"shop-billing-service/internal/infra/web"
	"shop-billing-service/internal/infra/worker"
	"shop-billing-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	propQueue := red.NewPropagationQueue(redisClient)

	// ---- Repositories ----
	paymentRepo := pg.NewPaymentRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)

	// ---- Gateway ----
	cp := cfg.Payment.CinetPay
	gateway := pay.NewCinetPayGateway(cp.SiteID, cp.APIKey, cp.WebhookSecret, cp.CheckoutBaseURL)
	if cp.WebhookSecret == "" {
		logger.Warn().Msg("cinetpay webhook secret not set; signature checks disabled")
	}

	// ---- Use cases ----
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, gateway, cfg.Payment.DefaultCurrency, logger)
	reconcileUC := usecase.NewReconcileUseCase(paymentRepo, orderRepo, propQueue, logger)
	subUC := usecase.NewSubscriptionUseCase(subRepo, logger)
	statsUC := usecase.NewStatsUseCase(paymentRepo, orderRepo, subRepo)

	// ---- Background workers ----
	pool2 := worker.NewPool(4, logger)
	pool2.Start(ctx)
	defer pool2.Stop()

	propWorker := sched.NewPropagationWorker(propQueue, orderRepo, pool2,
		cfg.Propagation.Interval, cfg.Propagation.MaxAttempts, cfg.Propagation.BatchSize, logger)
	go propWorker.Start(ctx)

	sweeper := sched.NewPendingSweeper(paymentRepo, cfg.Sweeper.Interval, cfg.Sweeper.StaleAfter, logger)
	go sweeper.Start(ctx)

	// ---- HTTP ----
	srv := web.NewServer(paymentUC, reconcileUC, subUC, statsUC, gateway, cfg.Server.AdminAPIKey, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	cancel()
}

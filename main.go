package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger/src/api"
	apicontrollers "ledger/src/api/controllers"
	apihandlers "ledger/src/api/handlers"
	"ledger/src/auth"
	"ledger/src/config"
	"ledger/src/database"
	"ledger/src/scheduler"
	"ledger/src/services"
	"ledger/src/utils"
	redis_utils "ledger/src/utils/redis"
	"ledger/src/worker"
	workercontrollers "ledger/src/worker/controllers"
	workerhandlers "ledger/src/worker/handlers"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		logrus.WithError(err).Fatal("Error while loading config")
	}
	logger := utils.NewLogger(cfg.Service.LogLevel, cfg.Service.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = utils.WithLogger(ctx, logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Error while running")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	db, closeDB, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	if cfg.Databases.SQL.Driver != "postgres" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	var cache services.PriceCache
	if cfg.Databases.Redis.Enabled {
		handler, err := redis_utils.NewRedisHandler(ctx, cfg.Databases.Redis, "ledger:price:")
		if err != nil {
			return err
		}
		defer handler.Close()
		cache = services.NewRedisPriceCache(handler, cfg.Ledger.PriceCacheTTL)
	}

	metrics := utils.NewMetrics()
	ledger, err := services.NewLedger(db, cfg, cache, metrics)
	if err != nil {
		return err
	}
	if err := ledger.Bootstrap(ctx, cfg); err != nil {
		return fmt.Errorf("bootstrap ledger: %w", err)
	}

	var httpServer *http.Server
	switch cfg.Service.Type {
	case config.API:
		tokens := auth.NewTokens(cfg.Service.JWTSecret, cfg.Service.TokenTTL)
		handler := apihandlers.NewHandler(apicontrollers.NewController(ledger, tokens), logger)
		httpServer = api.NewHTTPServer(api.NewServer(handler, tokens, metrics), cfg.Service.Port)
	case config.WORKER:
		task, err := scheduler.NewMarketTicker(cfg.Worker.TickCron, ledger.Market, logger, 10*time.Second)
		if err != nil {
			return fmt.Errorf("schedule market ticker: %w", err)
		}
		defer task.Cancel()
		handler := workerhandlers.NewHandler(workercontrollers.NewController(ledger), logger)
		httpServer = worker.NewHTTPServer(worker.NewServer(handler, metrics), cfg.Service.Port)
	}

	errC := make(chan error, 1)
	go func() {
		logger.Infof("Starting %s server on port %s", cfg.Service.Type, cfg.Service.Port)

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go-storefront/internal/config"
	"go-storefront/internal/jobs"
	"go-storefront/internal/repository"
	"go-storefront/pkg/database"
	"go-storefront/pkg/logger"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal("load config", zap.Error(err))
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbOpts := database.DefaultOptions()
	dbOpts.LogLevel = cfg.DBLogLevel
	dbOpts.MaxOpenConns = cfg.WorkerConcurrency + 2
	db, err := database.Connect(cfg.DSN(), dbOpts, log)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}

	lowStock := jobs.NewLowStockJob(repository.NewProductRepo(db), log)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		Concurrency: cfg.WorkerConcurrency,
		Logger:      log,
		Handlers: []jobs.Handler{
			{Type: jobs.TaskLowStockAlert, Handler: lowStock.HandleAlert},
			{Type: jobs.TaskLowStockScan, Handler: lowStock.HandleScan},
		},
		Cron: []jobs.CronEntry{
			{Spec: "0 7 * * *", Task: jobs.NewLowStockScanTask()},
		},
	})
	if err != nil {
		log.Fatal("init worker", zap.Error(err))
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("worker run", zap.Error(err))
	}
	log.Info("worker exited")
}

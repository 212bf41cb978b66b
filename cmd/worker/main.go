package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mateflow/mateflow/internal/app"
	"github.com/mateflow/mateflow/internal/billing"
	"github.com/mateflow/mateflow/internal/dashboard"
	"github.com/mateflow/mateflow/internal/expenses"
	"github.com/mateflow/mateflow/internal/shared"
	"github.com/mateflow/mateflow/internal/tax"
	"github.com/mateflow/mateflow/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	statsCache := shared.NewCache(redisClient, cfg.StatsCacheTTL)

	billingService := billing.NewService(billing.NewRepository(pool), statsCache)
	expenseService := expenses.NewService(expenses.NewRepository(pool), statsCache)
	taxService := tax.NewService(logger, billingService, expenseService, statsCache)
	dashboardService := dashboard.NewService(logger, dashboard.NewRepository(pool), statsCache)

	warmupJob := jobs.NewWarmupJob(taxService, dashboardService, pool, logger)

	taxTask, err := jobs.NewTaxStatsWarmupTask(jobs.TaxStatsWarmupPayload{})
	if err != nil {
		logger.Error("build tax warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	dashboardTask, err := jobs.NewDashboardWarmupTask()
	if err != nil {
		logger.Error("build dashboard warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTaxStatsWarmup, Handler: warmupJob.HandleTaxStats},
			{Type: jobs.TaskDashboardWarmup, Handler: warmupJob.HandleDashboard},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: taxTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 1 * * *", Task: dashboardTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

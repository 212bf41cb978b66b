package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"

	"github.com/mateflow/mateflow/internal/app"
	"github.com/mateflow/mateflow/internal/assistant"
	"github.com/mateflow/mateflow/internal/auth"
	"github.com/mateflow/mateflow/internal/billing"
	"github.com/mateflow/mateflow/internal/customers"
	"github.com/mateflow/mateflow/internal/dashboard"
	"github.com/mateflow/mateflow/internal/expenses"
	"github.com/mateflow/mateflow/internal/importer"
	"github.com/mateflow/mateflow/internal/products"
	"github.com/mateflow/mateflow/internal/profile"
	"github.com/mateflow/mateflow/internal/shared"
	"github.com/mateflow/mateflow/internal/tax"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "mateflow_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	statsCache := shared.NewCache(redisClient, cfg.StatsCacheTTL)

	openaiConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		openaiConfig.BaseURL = cfg.OpenAIBaseURL
	}
	completer := openai.NewClientWithConfig(openaiConfig)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService)

	billingRepo := billing.NewRepository(dbpool)
	billingService := billing.NewService(billingRepo, statsCache)
	billingHandler := billing.NewHandler(logger, billingService)

	customerRepo := customers.NewRepository(dbpool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService)

	productRepo := products.NewRepository(dbpool)
	productService := products.NewService(productRepo)
	productHandler := products.NewHandler(logger, productService)

	expenseRepo := expenses.NewRepository(dbpool)
	expenseService := expenses.NewService(expenseRepo, statsCache)
	expenseHandler := expenses.NewHandler(logger, expenseService)

	taxService := tax.NewService(logger, billingService, expenseService, statsCache)
	taxHandler := tax.NewHandler(logger, taxService)

	dashboardRepo := dashboard.NewRepository(dbpool)
	dashboardService := dashboard.NewService(logger, dashboardRepo, statsCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	importRepo := importer.NewRepository(dbpool)
	importService := importer.NewService(logger, productService, customerService, expenseService, importRepo, completer, cfg.AssistantModel)
	importHandler := importer.NewHandler(logger, importService)

	messageRepo := assistant.NewRepository(dbpool)
	dispatcher := assistant.NewDispatcher(productService, customerService, billingService, expenseService)
	assistantService := assistant.NewService(logger, messageRepo, completer, dispatcher, dashboardService, productService, importService, cfg.AssistantModel)
	assistantHandler := assistant.NewHandler(logger, assistantService)

	profileRepo := profile.NewRepository(dbpool)
	profileService := profile.NewService(profileRepo)
	profileHandler := profile.NewHandler(logger, profileService)

	router := app.NewRouter(app.RouterParams{
		Middleware: app.MiddlewareStack(app.MiddlewareConfig{
			Logger:         logger,
			Config:         cfg,
			SessionManager: sessionManager,
		}),
		Auth:      authHandler,
		Billing:   billingHandler,
		Customers: customerHandler,
		Products:  productHandler,
		Expenses:  expenseHandler,
		Tax:       taxHandler,
		Dashboard: dashboardHandler,
		Assistant: assistantHandler,
		Importer:  importHandler,
		Profile:   profileHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

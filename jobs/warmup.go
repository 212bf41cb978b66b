package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mateflow/mateflow/internal/dashboard"
	"github.com/mateflow/mateflow/internal/tax"
)

// WarmupJob refreshes per-user cached aggregates off the request path.
type WarmupJob struct {
	Tax       *tax.Service
	Dashboard *dashboard.Service
	Pool      *pgxpool.Pool
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewWarmupJob wires dependencies for the warmup handlers.
func NewWarmupJob(taxSvc *tax.Service, dashSvc *dashboard.Service, pool *pgxpool.Pool, logger *slog.Logger) *WarmupJob {
	return &WarmupJob{
		Tax:       taxSvc,
		Dashboard: dashSvc,
		Pool:      pool,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// HandleTaxStats processes TaskTaxStatsWarmup tasks.
func (j *WarmupJob) HandleTaxStats(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Tax == nil {
		return errors.New("tax warmup: handler not configured")
	}
	var payload TaxStatsWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	year := payload.Year
	if year == 0 {
		year = j.now().Year()
	}

	logger := j.logger().With(slog.String("job", TaskTaxStatsWarmup), slog.Int("year", year))
	logger.Info("starting tax stats warmup")

	userIDs, err := j.fetchUserIDs(ctx)
	if err != nil {
		logger.Error("load warmup users", slog.Any("error", err))
		return err
	}

	start := j.now()
	for _, userID := range userIDs {
		userCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		_, err := j.Tax.YearlyStats(userCtx, userID, year)
		cancel()
		if err != nil {
			logger.Error("warm user", slog.String("user_id", userID), slog.Any("error", err))
			return err
		}
	}

	logger.Info("completed tax stats warmup", slog.Int("users", len(userIDs)), slog.Duration("duration", time.Since(start)))
	return nil
}

// HandleDashboard processes TaskDashboardWarmup tasks.
func (j *WarmupJob) HandleDashboard(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}

	logger := j.logger().With(slog.String("job", TaskDashboardWarmup))
	logger.Info("starting dashboard warmup")

	userIDs, err := j.fetchUserIDs(ctx)
	if err != nil {
		logger.Error("load warmup users", slog.Any("error", err))
		return err
	}

	start := j.now()
	for _, userID := range userIDs {
		userCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		_, err := j.Dashboard.Stats(userCtx, userID, "7d", "7d")
		cancel()
		if err != nil {
			logger.Error("warm user", slog.String("user_id", userID), slog.Any("error", err))
			return err
		}
	}

	logger.Info("completed dashboard warmup", slog.Int("users", len(userIDs)), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *WarmupJob) fetchUserIDs(ctx context.Context) ([]string, error) {
	if j.Pool == nil {
		return nil, errors.New("warmup: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `SELECT id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (j *WarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *WarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

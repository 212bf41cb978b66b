package tax

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/mateflow/mateflow/internal/billing"
	"github.com/mateflow/mateflow/internal/expenses"
	"github.com/mateflow/mateflow/internal/shared"
)

// BillSource supplies bill records for aggregation.
type BillSource interface {
	ListRecords(ctx context.Context, userID string, from, to time.Time) ([]billing.BillRecord, error)
}

// ExpenseSource supplies expense records for aggregation.
type ExpenseSource interface {
	ListRecords(ctx context.Context, userID string, from, to time.Time) ([]expenses.ExpenseRecord, error)
}

// Service aggregates yearly tax statistics and runs bracket estimates.
type Service struct {
	logger   *slog.Logger
	bills    BillSource
	expenses ExpenseSource
	cache    *shared.Cache
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, bills BillSource, expenseSrc ExpenseSource, cache *shared.Cache) *Service {
	return &Service{logger: logger, bills: bills, expenses: expenseSrc, cache: cache}
}

// Estimate runs the bracket calculation. A nil deduction uses the personal
// standard deduction; corporate estimates default to zero.
func (s *Service) Estimate(ctx context.Context, netProfit float64, deductions *float64, schedule Schedule) Estimate {
	if schedule == "" {
		schedule = SchedulePersonal
	}
	d := 0.0
	switch {
	case deductions != nil:
		d = *deductions
	case schedule == SchedulePersonal:
		d = DefaultPersonalDeduction
	}
	return Calculate(netProfit, d, schedule)
}

// YearlyStats aggregates income, expenses and output VAT for a year. Data
// fetch failures degrade to zeroed figures instead of propagating, so the
// caller always gets a renderable result.
func (s *Service) YearlyStats(ctx context.Context, userID string, year int) (Stats, error) {
	key, err := s.cache.BuildKey(ctx, "tax", "stats", userID, strconv.Itoa(year))
	if err != nil {
		return s.computeYearlyStats(ctx, userID, year), nil
	}

	var stats Stats
	err = s.cache.FetchJSON(ctx, key, &stats, func(ctx context.Context) (interface{}, error) {
		return s.computeYearlyStats(ctx, userID, year), nil
	})
	if err != nil {
		s.logger.Warn("tax stats cache", slog.Any("error", err))
		return s.computeYearlyStats(ctx, userID, year), nil
	}
	return stats, nil
}

func (s *Service) computeYearlyStats(ctx context.Context, userID string, year int) Stats {
	stats := Stats{Year: year}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 999000000, time.UTC)

	bills, err := s.bills.ListRecords(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("fetch bills for tax", slog.Any("error", err), slog.Int("year", year))
		return stats
	}
	for _, rec := range bills {
		stats.TotalIncome += rec.TotalAmount
		stats.TotalOutputVat += EstimateBillVAT(rec)
	}

	expenseRecords, err := s.expenses.ListRecords(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("fetch expenses for tax", slog.Any("error", err), slog.Int("year", year))
		stats.TotalExpenses = 0
		return stats
	}
	for _, rec := range expenseRecords {
		stats.TotalExpenses += rec.Amount
	}

	return stats
}

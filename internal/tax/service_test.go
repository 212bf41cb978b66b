package tax

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateflow/mateflow/internal/billing"
	"github.com/mateflow/mateflow/internal/expenses"
	"github.com/mateflow/mateflow/internal/shared"
)

type stubBills struct {
	records []billing.BillRecord
	err     error
	calls   int
}

func (s *stubBills) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]billing.BillRecord, error) {
	s.calls++
	return s.records, s.err
}

type stubExpenses struct {
	records []expenses.ExpenseRecord
	err     error
}

func (s *stubExpenses) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]expenses.ExpenseRecord, error) {
	return s.records, s.err
}

func newTestService(t *testing.T, bills *stubBills, exp *stubExpenses) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := shared.NewCache(client, time.Minute)
	return NewService(slog.Default(), bills, exp, cache)
}

func TestYearlyStatsAggregates(t *testing.T) {
	bills := &stubBills{records: []billing.BillRecord{
		{TotalAmount: 214, Adjustments: []billing.Adjustment{{Label: "VAT", Type: billing.AdjustmentPercent, Value: 7}}},
		{TotalAmount: 500},
	}}
	exp := &stubExpenses{records: []expenses.ExpenseRecord{
		{Amount: 120},
		{Amount: 80},
	}}
	svc := newTestService(t, bills, exp)

	stats, err := svc.YearlyStats(context.Background(), "user-1", 2025)
	require.NoError(t, err)

	assert.Equal(t, 2025, stats.Year)
	assert.InDelta(t, 714.0, stats.TotalIncome, 0.001)
	assert.InDelta(t, 200.0, stats.TotalExpenses, 0.001)
	assert.InDelta(t, 14.0, stats.TotalOutputVat, 0.001)
}

func TestYearlyStatsCachesResult(t *testing.T) {
	bills := &stubBills{records: []billing.BillRecord{{TotalAmount: 100}}}
	svc := newTestService(t, bills, &stubExpenses{})

	_, err := svc.YearlyStats(context.Background(), "user-1", 2025)
	require.NoError(t, err)
	_, err = svc.YearlyStats(context.Background(), "user-1", 2025)
	require.NoError(t, err)

	assert.Equal(t, 1, bills.calls)
}

func TestYearlyStatsBillErrorZeroesEverything(t *testing.T) {
	bills := &stubBills{err: errors.New("db down")}
	exp := &stubExpenses{records: []expenses.ExpenseRecord{{Amount: 50}}}
	svc := newTestService(t, bills, exp)

	stats, err := svc.YearlyStats(context.Background(), "user-1", 2024)
	require.NoError(t, err)

	assert.Equal(t, Stats{Year: 2024}, stats)
}

func TestYearlyStatsExpenseErrorKeepsIncome(t *testing.T) {
	bills := &stubBills{records: []billing.BillRecord{{TotalAmount: 300}}}
	exp := &stubExpenses{err: errors.New("db down")}
	svc := newTestService(t, bills, exp)

	stats, err := svc.YearlyStats(context.Background(), "user-1", 2024)
	require.NoError(t, err)

	assert.Equal(t, 300.0, stats.TotalIncome)
	assert.Equal(t, 0.0, stats.TotalExpenses)
}

func TestYearlyStatsWorksWithoutCache(t *testing.T) {
	bills := &stubBills{records: []billing.BillRecord{{TotalAmount: 42}}}
	svc := NewService(slog.Default(), bills, &stubExpenses{}, nil)

	stats, err := svc.YearlyStats(context.Background(), "user-1", 2025)
	require.NoError(t, err)
	assert.Equal(t, 42.0, stats.TotalIncome)
}

func TestEstimateDefaultsDeductions(t *testing.T) {
	svc := NewService(slog.Default(), &stubBills{}, &stubExpenses{}, nil)
	ctx := context.Background()

	est := svc.Estimate(ctx, 500000, nil, SchedulePersonal)
	assert.Equal(t, 440000.0, est.TaxableIncome)

	est = svc.Estimate(ctx, 500000, nil, ScheduleCorporate)
	assert.Equal(t, 500000.0, est.TaxableIncome)

	zero := 0.0
	est = svc.Estimate(ctx, 500000, &zero, SchedulePersonal)
	assert.Equal(t, 500000.0, est.TaxableIncome)

	// Blank schedule falls back to personal.
	est = svc.Estimate(ctx, 500000, nil, "")
	assert.Equal(t, 440000.0, est.TaxableIncome)
}

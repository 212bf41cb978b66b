package tax

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateflow/mateflow/internal/billing"
	"github.com/mateflow/mateflow/internal/expenses"
)

type emptyBills struct{}

func (emptyBills) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]billing.BillRecord, error) {
	return nil, nil
}

type emptyExpenses struct{}

func (emptyExpenses) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]expenses.ExpenseRecord, error) {
	return nil, nil
}

func newTestRouter() chi.Router {
	svc := NewService(slog.Default(), emptyBills{}, emptyExpenses{}, nil)
	handler := NewHandler(slog.Default(), svc)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestEstimateEndpoint(t *testing.T) {
	router := newTestRouter()

	body := `{"net_profit":500000,"deductions":60000,"schedule":"personal"}`
	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var estimate Estimate
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &estimate))
	assert.Equal(t, 440000.0, estimate.TaxableIncome)
	assert.InDelta(t, 21500.0, estimate.TotalTax, 0.01)
	assert.Len(t, estimate.Breakdown, 8)
}

func TestEstimateEndpointRejectsBadSchedule(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(`{"net_profit":1,"schedule":"weird"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
}

func TestEstimateEndpointRejectsBadJSON(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(`{`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestYearlyStatsEndpointValidatesYear(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/stats?year=abc", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestYearlyStatsEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/stats?year=2024", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &stats))
	assert.Equal(t, 2024, stats.Year)
}

package dashboard

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mateflow/mateflow/internal/products"
	"github.com/mateflow/mateflow/internal/shared"
)

// RepositoryPort defines the aggregate queries the dashboard needs.
type RepositoryPort interface {
	BillTotals(ctx context.Context, userID string) (float64, int, error)
	SalesSince(ctx context.Context, userID string, since time.Time) (float64, error)
	ExpensesSince(ctx context.Context, userID string, since time.Time) (float64, error)
	CountBillsByStatus(ctx context.Context, userID, status string) (int, error)
	CountLowStock(ctx context.Context, userID string, threshold int) (int, error)
	BillPoints(ctx context.Context, userID string, since time.Time) ([]Point, error)
	ExpensePoints(ctx context.Context, userID string, since time.Time) ([]Point, error)
	RecentBills(ctx context.Context, userID string, limit int) ([]BillActivity, error)
	RecentProducts(ctx context.Context, userID string, limit int) ([]ProductActivity, error)
	RecentCustomers(ctx context.Context, userID string, limit int) ([]CustomerActivity, error)
	RecentExpenses(ctx context.Context, userID string, limit int) ([]ExpenseActivity, error)
}

// Service assembles dashboard stats, charts and the activity feed.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	cache  *shared.Cache
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, repo RepositoryPort, cache *shared.Cache) *Service {
	return &Service{logger: logger, repo: repo, cache: cache}
}

const historyLimit = 50

var bahtPrinter = message.NewPrinter(language.English)

func baht(amount float64) string {
	return bahtPrinter.Sprintf("฿%v", number.Decimal(amount))
}

// Stats gathers the headline figures and both chart series. Results are
// served from the versioned stats cache so bill and expense mutations
// invalidate them.
func (s *Service) Stats(ctx context.Context, userID, salesRange, profitRange string) (Stats, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "stats", userID, salesRange, profitRange)
	if err != nil {
		return s.computeStats(ctx, userID, salesRange, profitRange)
	}

	var stats Stats
	err = s.cache.FetchJSON(ctx, key, &stats, func(ctx context.Context) (interface{}, error) {
		return s.computeStats(ctx, userID, salesRange, profitRange)
	})
	if err != nil {
		s.logger.Warn("dashboard stats cache", slog.Any("error", err))
		return s.computeStats(ctx, userID, salesRange, profitRange)
	}
	return stats, nil
}

func (s *Service) computeStats(ctx context.Context, userID, salesRange, profitRange string) (Stats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := Stats{ActiveNow: 1}
	var todayExpenses float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		revenue, orders, err := s.repo.BillTotals(gctx, userID)
		stats.TotalRevenue, stats.TotalOrders = revenue, orders
		return err
	})
	g.Go(func() error {
		sales, err := s.repo.SalesSince(gctx, userID, today)
		stats.TodaySales = sales
		return err
	})
	g.Go(func() error {
		total, err := s.repo.ExpensesSince(gctx, userID, today)
		todayExpenses = total
		return err
	})
	g.Go(func() error {
		count, err := s.repo.CountBillsByStatus(gctx, userID, "draft")
		stats.PendingBills = count
		return err
	})
	g.Go(func() error {
		count, err := s.repo.CountLowStock(gctx, userID, products.LowStockThreshold)
		stats.LowStockItems = count
		return err
	})
	g.Go(func() error {
		chart, err := s.chartSeries(gctx, userID, salesRange, false, now)
		stats.SalesChart = chart
		return err
	})
	g.Go(func() error {
		chart, err := s.chartSeries(gctx, userID, profitRange, true, now)
		stats.ProfitChart = chart
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	stats.TodayProfit = stats.TodaySales - todayExpenses
	return stats, nil
}

// chartSeries buckets sales (and for profit, expenses) into the points the
// range asks for. Buckets with no data still appear with a zero total.
func (s *Service) chartSeries(ctx context.Context, userID, rng string, profit bool, now time.Time) ([]ChartPoint, error) {
	params := ParamsForRange(rng, now)

	bills, err := s.repo.BillPoints(ctx, userID, params.Start)
	if err != nil {
		return nil, err
	}
	sales := sumByBucket(bills, params.Unit)

	var spent map[string]float64
	if profit {
		expensePoints, err := s.repo.ExpensePoints(ctx, userID, params.Start)
		if err != nil {
			return nil, err
		}
		spent = sumByBucket(expensePoints, params.Unit)
	}

	series := make([]ChartPoint, 0, params.Points)
	for i := 0; i < params.Points; i++ {
		at := bucketStart(params, now, i)
		key := bucketKey(at, params.Unit)
		total := sales[key]
		if profit {
			total -= spent[key]
		}
		series = append(series, ChartPoint{Name: bucketName(at, params.Unit), Total: total})
	}
	return series, nil
}

func bucketStart(params RangeParams, now time.Time, i int) time.Time {
	switch params.Unit {
	case BucketHour:
		return params.Start.Add(time.Duration(i) * time.Hour)
	case BucketMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, i-(params.Points-1), 0)
	case BucketYear:
		return time.Date(now.Year()-(params.Points-1)+i, time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return params.Start.AddDate(0, 0, i)
	}
}

func sumByBucket(points []Point, unit BucketUnit) map[string]float64 {
	sums := make(map[string]float64, len(points))
	for _, p := range points {
		sums[bucketKey(p.At, unit)] += p.Amount
	}
	return sums
}

func bucketKey(t time.Time, unit BucketUnit) string {
	switch unit {
	case BucketHour:
		return t.Format("2006-01-02T15")
	case BucketMonth:
		return t.Format("2006-01")
	case BucketYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

func bucketName(t time.Time, unit BucketUnit) string {
	switch unit {
	case BucketHour:
		return t.Format("03:04 PM")
	case BucketMonth:
		return t.Format("Jan 06")
	case BucketYear:
		return t.Format("2006")
	default:
		return t.Format("Jan 2")
	}
}

// RecentActivity merges the five latest rows of each entity into one feed and
// keeps the ten most recent. Per-entity fetch failures are logged and leave a
// gap rather than failing the feed.
func (s *Service) RecentActivity(ctx context.Context, userID string) []Activity {
	feed := s.collect(ctx, userID, "all", 5)
	if len(feed) > 10 {
		feed = feed[:10]
	}
	return feed
}

// History returns up to 50 rows per entity, optionally narrowed to one type,
// merged newest first.
func (s *Service) History(ctx context.Context, userID, typeFilter string) []Activity {
	if typeFilter == "" {
		typeFilter = "all"
	}
	return s.collect(ctx, userID, typeFilter, historyLimit)
}

func (s *Service) collect(ctx context.Context, userID, typeFilter string, limit int) []Activity {
	var billRows []BillActivity
	var productRows []ProductActivity
	var customerRows []CustomerActivity
	var expenseRows []ExpenseActivity

	g, gctx := errgroup.WithContext(ctx)
	if typeFilter == "all" || typeFilter == "bill" {
		g.Go(func() error {
			rows, err := s.repo.RecentBills(gctx, userID, limit)
			if err != nil {
				s.logger.Error("activity bills", slog.Any("error", err))
				return nil
			}
			billRows = rows
			return nil
		})
	}
	if typeFilter == "all" || typeFilter == "product" {
		g.Go(func() error {
			rows, err := s.repo.RecentProducts(gctx, userID, limit)
			if err != nil {
				s.logger.Error("activity products", slog.Any("error", err))
				return nil
			}
			productRows = rows
			return nil
		})
	}
	if typeFilter == "all" || typeFilter == "customer" {
		g.Go(func() error {
			rows, err := s.repo.RecentCustomers(gctx, userID, limit)
			if err != nil {
				s.logger.Error("activity customers", slog.Any("error", err))
				return nil
			}
			customerRows = rows
			return nil
		})
	}
	if typeFilter == "all" || typeFilter == "expense" {
		g.Go(func() error {
			rows, err := s.repo.RecentExpenses(gctx, userID, limit)
			if err != nil {
				s.logger.Error("activity expenses", slog.Any("error", err))
				return nil
			}
			expenseRows = rows
			return nil
		})
	}
	_ = g.Wait()

	feed := make([]Activity, 0, len(billRows)+len(productRows)+len(customerRows)+len(expenseRows))
	for _, b := range billRows {
		feed = append(feed, Activity{
			Type:        "bill",
			ID:          b.ID,
			Title:       b.CustomerName,
			Description: "Created a bill of " + baht(b.TotalAmount),
			Time:        b.CreatedAt,
			Amount:      b.TotalAmount,
			Status:      b.Status,
		})
	}
	for _, p := range productRows {
		feed = append(feed, Activity{
			Type:        "product",
			ID:          p.ID,
			Title:       p.Name,
			Description: bahtPrinter.Sprintf("Added product (Stock: %d, Price: ฿%v)", p.Stock, number.Decimal(p.Price)),
			Time:        p.CreatedAt,
		})
	}
	for _, c := range customerRows {
		desc := "Registered new customer"
		if c.Email != "" {
			desc = "Registered customer (" + c.Email + ")"
		}
		feed = append(feed, Activity{Type: "customer", ID: c.ID, Title: c.Name, Description: desc, Time: c.CreatedAt})
	}
	for _, e := range expenseRows {
		feed = append(feed, Activity{
			Type:        "expense",
			ID:          e.ID,
			Title:       e.Title,
			Description: "Expense: " + baht(e.Amount) + " (" + e.Category + ")",
			Time:        e.CreatedAt,
			Amount:      e.Amount,
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].Time.After(feed[j].Time) })
	return feed
}

package dashboard

import "time"

// BucketUnit is the granularity of one chart bucket.
type BucketUnit string

const (
	BucketHour  BucketUnit = "hour"
	BucketDay   BucketUnit = "day"
	BucketMonth BucketUnit = "month"
	BucketYear  BucketUnit = "year"
)

// RangeParams describes how a named range maps onto chart buckets.
type RangeParams struct {
	Start  time.Time
	Points int
	Unit   BucketUnit
}

// ParamsForRange resolves a range token. Unknown tokens fall back to 7d.
func ParamsForRange(rng string, now time.Time) RangeParams {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch rng {
	case "1d":
		return RangeParams{Start: today, Points: 24, Unit: BucketHour}
	case "3d":
		return RangeParams{Start: today.AddDate(0, 0, -2), Points: 3, Unit: BucketDay}
	case "14d":
		return RangeParams{Start: today.AddDate(0, 0, -13), Points: 14, Unit: BucketDay}
	case "30d":
		return RangeParams{Start: today.AddDate(0, 0, -29), Points: 30, Unit: BucketDay}
	case "1y":
		return RangeParams{Start: today.AddDate(0, -11, 0), Points: 12, Unit: BucketMonth}
	case "3y":
		return RangeParams{Start: today.AddDate(-3, 0, 0), Points: 3, Unit: BucketYear}
	case "5y":
		return RangeParams{Start: today.AddDate(-5, 0, 0), Points: 5, Unit: BucketYear}
	default:
		return RangeParams{Start: today.AddDate(0, 0, -6), Points: 7, Unit: BucketDay}
	}
}

// ChartPoint is one bucket of a sales or profit series.
type ChartPoint struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Stats is the dashboard headline payload.
type Stats struct {
	TotalRevenue  float64      `json:"total_revenue"`
	TotalOrders   int          `json:"total_orders"`
	TodaySales    float64      `json:"today_sales"`
	TodayProfit   float64      `json:"today_profit"`
	PendingBills  int          `json:"pending_bills"`
	LowStockItems int          `json:"low_stock_items"`
	SalesChart    []ChartPoint `json:"chart_data"`
	ProfitChart   []ChartPoint `json:"profit_chart_data"`
	ActiveNow     int          `json:"active_now"`
}

// Activity is one row of the activity feed.
type Activity struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
	Amount      float64   `json:"amount,omitempty"`
	Status      string    `json:"status,omitempty"`
}

// Point is a timestamped amount used for chart bucketing.
type Point struct {
	At     time.Time
	Amount float64
}

// BillActivity is a recent bill row.
type BillActivity struct {
	ID           string
	CustomerName string
	TotalAmount  float64
	Status       string
	CreatedAt    time.Time
}

// ProductActivity is a recent product row.
type ProductActivity struct {
	ID        string
	Name      string
	Stock     int
	Price     float64
	CreatedAt time.Time
}

// CustomerActivity is a recent customer row.
type CustomerActivity struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// ExpenseActivity is a recent expense row.
type ExpenseActivity struct {
	ID        string
	Title     string
	Amount    float64
	Category  string
	CreatedAt time.Time
}

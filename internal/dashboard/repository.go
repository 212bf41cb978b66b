package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides the read-only aggregate queries behind the dashboard.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BillTotals sums revenue and counts orders over all non-cancelled bills.
func (r *Repository) BillTotals(ctx context.Context, userID string) (float64, int, error) {
	const query = `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM bills
		WHERE user_id = $1 AND status <> 'cancelled'`

	var revenue float64
	var orders int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&revenue, &orders)
	return revenue, orders, err
}

// SalesSince sums non-cancelled bill totals created at or after since.
func (r *Repository) SalesSince(ctx context.Context, userID string, since time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM bills
		WHERE user_id = $1 AND status <> 'cancelled' AND created_at >= $2`

	var total float64
	err := r.pool.QueryRow(ctx, query, userID, since).Scan(&total)
	return total, err
}

// ExpensesSince sums expenses dated at or after since.
func (r *Repository) ExpensesSince(ctx context.Context, userID string, since time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND date >= $2`

	var total float64
	err := r.pool.QueryRow(ctx, query, userID, since).Scan(&total)
	return total, err
}

// CountBillsByStatus counts bills in one lifecycle state.
func (r *Repository) CountBillsByStatus(ctx context.Context, userID, status string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bills WHERE user_id = $1 AND status = $2`,
		userID, status).Scan(&count)
	return count, err
}

// CountLowStock counts products with stock strictly below threshold.
func (r *Repository) CountLowStock(ctx context.Context, userID string, threshold int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE user_id = $1 AND stock < $2`,
		userID, threshold).Scan(&count)
	return count, err
}

// BillPoints lists non-cancelled bill amounts created at or after since,
// oldest first, for chart bucketing.
func (r *Repository) BillPoints(ctx context.Context, userID string, since time.Time) ([]Point, error) {
	const query = `
		SELECT created_at, total_amount
		FROM bills
		WHERE user_id = $1 AND status <> 'cancelled' AND created_at >= $2
		ORDER BY created_at ASC`

	return r.queryPoints(ctx, query, userID, since)
}

// ExpensePoints lists expense amounts dated at or after since, oldest first.
func (r *Repository) ExpensePoints(ctx context.Context, userID string, since time.Time) ([]Point, error) {
	const query = `
		SELECT date, amount
		FROM expenses
		WHERE user_id = $1 AND date >= $2
		ORDER BY date ASC`

	return r.queryPoints(ctx, query, userID, since)
}

func (r *Repository) queryPoints(ctx context.Context, query, userID string, since time.Time) ([]Point, error) {
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.At, &p.Amount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// RecentBills lists the latest non-cancelled bills with customer names.
func (r *Repository) RecentBills(ctx context.Context, userID string, limit int) ([]BillActivity, error) {
	const query = `
		SELECT b.id, COALESCE(c.name, 'Unknown Customer'), b.total_amount, b.status, b.created_at
		FROM bills b
		LEFT JOIN customers c ON c.id = b.customer_id
		WHERE b.user_id = $1 AND b.status <> 'cancelled'
		ORDER BY b.created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BillActivity
	for rows.Next() {
		var a BillActivity
		if err := rows.Scan(&a.ID, &a.CustomerName, &a.TotalAmount, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecentProducts lists the latest products.
func (r *Repository) RecentProducts(ctx context.Context, userID string, limit int) ([]ProductActivity, error) {
	const query = `
		SELECT id, name, stock, price, created_at
		FROM products
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductActivity
	for rows.Next() {
		var a ProductActivity
		if err := rows.Scan(&a.ID, &a.Name, &a.Stock, &a.Price, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecentCustomers lists the latest customers.
func (r *Repository) RecentCustomers(ctx context.Context, userID string, limit int) ([]CustomerActivity, error) {
	const query = `
		SELECT id, name, COALESCE(email, ''), created_at
		FROM customers
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomerActivity
	for rows.Next() {
		var a CustomerActivity
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecentExpenses lists the latest expenses.
func (r *Repository) RecentExpenses(ctx context.Context, userID string, limit int) ([]ExpenseActivity, error) {
	const query = `
		SELECT id, title, amount, category, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseActivity
	for rows.Next() {
		var a ExpenseActivity
		if err := rows.Scan(&a.ID, &a.Title, &a.Amount, &a.Category, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

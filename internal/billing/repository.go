package billing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mateflow/mateflow/internal/shared"
)

// Repository provides PostgreSQL backed persistence for bills.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListBills returns all bills for a user, newest first, with customer names.
func (r *Repository) ListBills(ctx context.Context, userID string) ([]Bill, error) {
	const query = `
		SELECT b.id, b.user_id, b.customer_id, COALESCE(c.name, 'Unknown'),
		       b.total_amount, b.status, COALESCE(b.note, ''), b.adjustments,
		       b.payment_terms, b.validity_days, b.created_at
		FROM bills b
		LEFT JOIN customers c ON c.id = b.customer_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

// GetBill loads a single bill with its items.
func (r *Repository) GetBill(ctx context.Context, userID, id string) (*Bill, error) {
	const query = `
		SELECT b.id, b.user_id, b.customer_id, COALESCE(c.name, 'Unknown'),
		       b.total_amount, b.status, COALESCE(b.note, ''), b.adjustments,
		       b.payment_terms, b.validity_days, b.created_at
		FROM bills b
		LEFT JOIN customers c ON c.id = b.customer_id
		WHERE b.id = $1 AND b.user_id = $2`

	row := r.pool.QueryRow(ctx, query, id, userID)
	bill, err := scanBill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
		SELECT id, bill_id, product_id, product_name, quantity, unit_price, total_price
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY product_name`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item BillItem
		if err := rows.Scan(&item.ID, &item.BillID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, err
		}
		bill.Items = append(bill.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &bill, nil
}

// CreateBill persists a bill with its items and deducts product stock in a
// single transaction. Stock never drops below zero.
func (r *Repository) CreateBill(ctx context.Context, bill Bill, items []CreateItemInput) (*Bill, error) {
	adjustments, err := json.Marshal(bill.Adjustments)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	bill.ID = uuid.NewString()
	var note pgtype.Text
	if bill.Note != "" {
		note = pgtype.Text{String: bill.Note, Valid: true}
	}

	const billQuery = `
		INSERT INTO bills (id, user_id, customer_id, total_amount, status, note,
		                   adjustments, payment_terms, validity_days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at`

	if err := tx.QueryRow(ctx, billQuery,
		bill.ID,
		bill.UserID,
		bill.CustomerID,
		bill.TotalAmount,
		bill.Status,
		note,
		adjustments,
		bill.PaymentTerms,
		bill.ValidityDays,
	).Scan(&bill.CreatedAt); err != nil {
		return nil, err
	}

	const itemQuery = `
		INSERT INTO bill_items (id, bill_id, product_id, product_name, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	const stockQuery = `
		UPDATE products SET stock = GREATEST(stock - $1, 0), updated_at = NOW()
		WHERE id = $2 AND user_id = $3`

	for _, item := range items {
		line := BillItem{
			ID:          uuid.NewString(),
			BillID:      bill.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  float64(item.Quantity) * item.UnitPrice,
		}
		if _, err := tx.Exec(ctx, itemQuery, line.ID, line.BillID, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice, line.TotalPrice); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, stockQuery, line.Quantity, line.ProductID, bill.UserID); err != nil {
			return nil, err
		}
		bill.Items = append(bill.Items, line)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &bill, nil
}

// UpdateStatus sets a bill's status.
func (r *Repository) UpdateStatus(ctx context.Context, userID, id string, status BillStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE bills SET status = $1 WHERE id = $2 AND user_id = $3`, status, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GetStatus loads only a bill's current status.
func (r *Repository) GetStatus(ctx context.Context, userID, id string) (BillStatus, error) {
	var status BillStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM bills WHERE id = $1 AND user_id = $2`, id, userID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", shared.ErrNotFound
	}
	return status, err
}

// DeleteBill removes a bill; bill_items cascade at the schema level.
func (r *Repository) DeleteBill(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bills WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListBillRecords returns the slim projection used by tax aggregation.
func (r *Repository) ListBillRecords(ctx context.Context, userID string, from, to time.Time, excludeStatus BillStatus) ([]BillRecord, error) {
	const query = `
		SELECT total_amount, adjustments, status, created_at
		FROM bills
		WHERE user_id = $1 AND status <> $2 AND created_at >= $3 AND created_at <= $4`

	rows, err := r.pool.Query(ctx, query, userID, excludeStatus, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []BillRecord
	for rows.Next() {
		var rec BillRecord
		var raw []byte
		if err := rows.Scan(&rec.TotalAmount, &raw, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &rec.Adjustments); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type billScanner interface {
	Scan(dest ...any) error
}

func scanBill(row billScanner) (Bill, error) {
	var bill Bill
	var raw []byte
	if err := row.Scan(
		&bill.ID,
		&bill.UserID,
		&bill.CustomerID,
		&bill.CustomerName,
		&bill.TotalAmount,
		&bill.Status,
		&bill.Note,
		&raw,
		&bill.PaymentTerms,
		&bill.ValidityDays,
		&bill.CreatedAt,
	); err != nil {
		return Bill{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &bill.Adjustments); err != nil {
			return Bill{}, err
		}
	}
	return bill, nil
}

package importer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mateflow/mateflow/internal/shared"
)

// Repository covers the direct writes bill imports need: resolving or
// creating customers by exact name and inserting historical bills with their
// original timestamps.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindCustomerID resolves a customer by exact case-insensitive name.
func (r *Repository) FindCustomerID(ctx context.Context, userID, name string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM customers WHERE user_id = $1 AND LOWER(name) = LOWER($2)`,
		userID, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", shared.ErrNotFound
	}
	return id, err
}

// CreateCustomer inserts a name-only customer record.
func (r *Repository) CreateCustomer(ctx context.Context, userID, name string) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (id, user_id, name, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW())`,
		id, userID, name)
	if err != nil {
		return "", err
	}
	return id, nil
}

// InsertBill stores an imported bill, keeping the source document's date.
func (r *Repository) InsertBill(ctx context.Context, userID, customerID string, total float64, status string, createdAt time.Time) error {
	const query = `
		INSERT INTO bills (id, user_id, customer_id, total_amount, status, adjustments,
		                   payment_terms, validity_days, created_at)
		VALUES ($1, $2, $3, $4, $5, '[]', 0, 7, $6)`

	_, err := r.pool.Exec(ctx, query, uuid.NewString(), userID, customerID, total, status, createdAt)
	return err
}

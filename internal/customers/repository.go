package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mateflow/mateflow/internal/shared"
)

// Repository provides PostgreSQL backed persistence for customers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, user_id, name, COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(address, ''), COALESCE(line_id, ''), created_at, updated_at`

// ListCustomers returns customers for a user, newest first.
func (r *Repository) ListCustomers(ctx context.Context, userID string) ([]Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.LineID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// GetCustomer loads one customer.
func (r *Repository) GetCustomer(ctx context.Context, userID, id string) (*Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.LineID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByName returns the first customer whose name contains the given text,
// case-insensitively.
func (r *Repository) FindByName(ctx context.Context, userID, name string) (*Customer, error) {
	pattern := "%" + strings.ToLower(name) + "%"
	var c Customer
	err := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers
		 WHERE user_id = $1 AND LOWER(name) LIKE $2
		 ORDER BY created_at DESC LIMIT 1`, userID, pattern).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.LineID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCustomer inserts a new customer.
func (r *Repository) CreateCustomer(ctx context.Context, userID string, input CustomerInput) (*Customer, error) {
	c := Customer{
		ID:      uuid.NewString(),
		UserID:  userID,
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		LineID:  input.LineID,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customers (id, user_id, name, email, phone, address, line_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NOW(), NOW())
		RETURNING created_at, updated_at`,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Address, c.LineID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCustomers bulk-inserts imported customers.
func (r *Repository) CreateCustomers(ctx context.Context, userID string, inputs []CustomerInput) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `
		INSERT INTO customers (id, user_id, name, email, phone, address, line_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NOW(), NOW())`
	count := 0
	for _, in := range inputs {
		if in.Name == "" {
			continue
		}
		if _, err := tx.Exec(ctx, query, uuid.NewString(), userID, in.Name, in.Email, in.Phone, in.Address, in.LineID); err != nil {
			return 0, err
		}
		count++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateCustomer applies partial updates.
func (r *Repository) UpdateCustomer(ctx context.Context, userID, id string, input UpdateInput) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers SET
			name = COALESCE($1, name),
			email = COALESCE($2, email),
			phone = COALESCE($3, phone),
			address = COALESCE($4, address),
			line_id = COALESCE($5, line_id),
			updated_at = NOW()
		WHERE id = $6 AND user_id = $7`,
		input.Name, input.Email, input.Phone, input.Address, input.LineID, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteCustomer removes a customer.
func (r *Repository) DeleteCustomer(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

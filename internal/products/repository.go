package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mateflow/mateflow/internal/shared"
)

// Repository provides PostgreSQL backed persistence for products.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, user_id, name, price, stock, COALESCE(description, ''),
	COALESCE(image_url, ''), created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Price, &p.Stock, &p.Description, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products for a user, newest first.
func (r *Repository) ListProducts(ctx context.Context, userID string) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Price, &p.Stock, &p.Description, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetProduct loads one product.
func (r *Repository) GetProduct(ctx context.Context, userID, id string) (*Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND user_id = $2`, id, userID))
}

// FindByExactName matches a product name case-insensitively.
func (r *Repository) FindByExactName(ctx context.Context, userID, name string) (*Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE user_id = $1 AND LOWER(name) = $2 LIMIT 1`,
		userID, strings.ToLower(name)))
}

// FindByName returns the first product whose name contains the given text,
// case-insensitively.
func (r *Repository) FindByName(ctx context.Context, userID, name string) (*Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE user_id = $1 AND LOWER(name) LIKE $2
		 ORDER BY created_at DESC LIMIT 1`,
		userID, "%"+strings.ToLower(name)+"%"))
}

// CreateProduct inserts a new product.
func (r *Repository) CreateProduct(ctx context.Context, userID string, input ProductInput) (*Product, error) {
	p := Product{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        input.Name,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, user_id, name, price, stock, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NOW(), NOW())
		RETURNING created_at, updated_at`,
		p.ID, p.UserID, p.Name, p.Price, p.Stock, p.Description, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProducts bulk-inserts imported products.
func (r *Repository) CreateProducts(ctx context.Context, userID string, inputs []ProductInput) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `
		INSERT INTO products (id, user_id, name, price, stock, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW(), NOW())`
	count := 0
	for _, in := range inputs {
		if in.Name == "" {
			continue
		}
		if _, err := tx.Exec(ctx, query, uuid.NewString(), userID, in.Name, in.Price, in.Stock, in.Description); err != nil {
			return 0, err
		}
		count++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateProduct applies partial updates.
func (r *Repository) UpdateProduct(ctx context.Context, userID, id string, input UpdateInput) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET
			name = COALESCE($1, name),
			price = COALESCE($2, price),
			stock = COALESCE($3, stock),
			image_url = COALESCE($4, image_url),
			updated_at = NOW()
		WHERE id = $5 AND user_id = $6`,
		input.Name, input.Price, input.Stock, input.ImageURL, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product.
func (r *Repository) DeleteProduct(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountLowStock counts products with stock below the threshold.
func (r *Repository) CountLowStock(ctx context.Context, userID string, threshold int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE user_id = $1 AND stock < $2`, userID, threshold).Scan(&count)
	return count, err
}

// StockSummaries returns up to limit products ordered by ascending stock.
func (r *Repository) StockSummaries(ctx context.Context, userID string, limit int) ([]StockSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, stock FROM products WHERE user_id = $1 ORDER BY stock ASC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StockSummary
	for rows.Next() {
		var s StockSummary
		if err := rows.Scan(&s.Name, &s.Stock); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for store profiles. The
// profile row shares its primary key with the user.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProfile loads the user's store profile. A missing row yields an empty
// profile rather than an error, matching a first visit to settings.
func (r *Repository) GetProfile(ctx context.Context, userID string) (*StoreProfile, error) {
	const query = `
		SELECT id, COALESCE(store_name, ''), COALESCE(store_address, ''),
		       COALESCE(store_phone, ''), COALESCE(tax_id, ''),
		       COALESCE(avatar_url, ''), COALESCE(signature_url, ''), updated_at
		FROM profiles
		WHERE id = $1 AND deleted_at IS NULL`

	var p StoreProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.StoreName, &p.StoreAddress, &p.StorePhone,
		&p.TaxID, &p.AvatarURL, &p.SignatureURL, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &StoreProfile{ID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile creates or updates the profile row, touching only provided
// fields.
func (r *Repository) UpsertProfile(ctx context.Context, userID string, input UpdateInput) error {
	const query = `
		INSERT INTO profiles (id, store_name, store_address, store_phone, tax_id, avatar_url, signature_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			store_name    = COALESCE($2, profiles.store_name),
			store_address = COALESCE($3, profiles.store_address),
			store_phone   = COALESCE($4, profiles.store_phone),
			tax_id        = COALESCE($5, profiles.tax_id),
			avatar_url    = COALESCE($6, profiles.avatar_url),
			signature_url = COALESCE($7, profiles.signature_url),
			updated_at    = NOW()`

	_, err := r.pool.Exec(ctx, query, userID,
		input.StoreName, input.StoreAddress, input.StorePhone,
		input.TaxID, input.AvatarURL, input.SignatureURL)
	return err
}

// SoftDelete marks the profile deleted without removing business data.
func (r *Repository) SoftDelete(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE profiles SET deleted_at = NOW() WHERE id = $1`, userID)
	return err
}

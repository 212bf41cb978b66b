package profile

import (
	"context"

	"github.com/mateflow/mateflow/internal/shared"
)

// RepositoryPort defines data access methods for store profiles.
type RepositoryPort interface {
	GetProfile(ctx context.Context, userID string) (*StoreProfile, error)
	UpsertProfile(ctx context.Context, userID string, input UpdateInput) error
	SoftDelete(ctx context.Context, userID string) error
}

// Service handles store profile business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Get loads the store profile, empty when never saved.
func (s *Service) Get(ctx context.Context, userID string) (*StoreProfile, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	return s.repo.GetProfile(ctx, userID)
}

// Update upserts the provided fields and returns the resulting profile.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (*StoreProfile, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	if err := s.repo.UpsertProfile(ctx, userID, input); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, userID)
}

// Delete soft-deletes the account's profile.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return shared.ErrUnauthorized
	}
	return s.repo.SoftDelete(ctx, userID)
}

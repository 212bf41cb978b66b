package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mateflow/mateflow/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, email, displayName, passwordHash string) (*User, error)
}

// Service handles authentication business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Authenticate verifies credentials. Unknown emails and bad passwords both
// map to ErrInvalidCredentials so responses don't leak which one failed.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a new account with a bcrypt hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, strings.TrimSpace(input.Email), input.DisplayName, string(hash))
}

// CurrentUser loads the account behind a session.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	return s.repo.FindByID(ctx, userID)
}

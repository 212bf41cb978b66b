package customers

import (
	"context"

	"github.com/mateflow/mateflow/internal/shared"
)

// RepositoryPort defines data access methods for customers.
type RepositoryPort interface {
	ListCustomers(ctx context.Context, userID string) ([]Customer, error)
	GetCustomer(ctx context.Context, userID, id string) (*Customer, error)
	FindByName(ctx context.Context, userID, name string) (*Customer, error)
	CreateCustomer(ctx context.Context, userID string, input CustomerInput) (*Customer, error)
	CreateCustomers(ctx context.Context, userID string, inputs []CustomerInput) (int, error)
	UpdateCustomer(ctx context.Context, userID, id string, input UpdateInput) error
	DeleteCustomer(ctx context.Context, userID, id string) error
}

// Service handles customer business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all customers for the user.
func (s *Service) List(ctx context.Context, userID string) ([]Customer, error) {
	return s.repo.ListCustomers(ctx, userID)
}

// Get loads one customer.
func (s *Service) Get(ctx context.Context, userID, id string) (*Customer, error) {
	return s.repo.GetCustomer(ctx, userID, id)
}

// FindByName resolves a customer from a partial, case-insensitive name.
func (s *Service) FindByName(ctx context.Context, userID, name string) (*Customer, error) {
	if name == "" {
		return nil, shared.ErrNotFound
	}
	return s.repo.FindByName(ctx, userID, name)
}

// Create inserts a new customer.
func (s *Service) Create(ctx context.Context, userID string, input CustomerInput) (*Customer, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	if input.Name == "" {
		return nil, shared.Invalid("customer name is required")
	}
	return s.repo.CreateCustomer(ctx, userID, input)
}

// Import bulk-creates customers, skipping rows without a name.
func (s *Service) Import(ctx context.Context, userID string, inputs []CustomerInput) (int, error) {
	if userID == "" {
		return 0, shared.ErrUnauthorized
	}
	return s.repo.CreateCustomers(ctx, userID, inputs)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, userID, id string, input UpdateInput) error {
	return s.repo.UpdateCustomer(ctx, userID, id, input)
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteCustomer(ctx, userID, id)
}

package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/mateflow/mateflow/internal/shared"
)

// LowStockThreshold marks products that need restocking.
const LowStockThreshold = 10

// RepositoryPort defines data access methods for products.
type RepositoryPort interface {
	ListProducts(ctx context.Context, userID string) ([]Product, error)
	GetProduct(ctx context.Context, userID, id string) (*Product, error)
	FindByExactName(ctx context.Context, userID, name string) (*Product, error)
	FindByName(ctx context.Context, userID, name string) (*Product, error)
	CreateProduct(ctx context.Context, userID string, input ProductInput) (*Product, error)
	CreateProducts(ctx context.Context, userID string, inputs []ProductInput) (int, error)
	UpdateProduct(ctx context.Context, userID, id string, input UpdateInput) error
	DeleteProduct(ctx context.Context, userID, id string) error
	CountLowStock(ctx context.Context, userID string, threshold int) (int, error)
	StockSummaries(ctx context.Context, userID string, limit int) ([]StockSummary, error)
}

// Service handles product business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all products for the user.
func (s *Service) List(ctx context.Context, userID string) ([]Product, error) {
	return s.repo.ListProducts(ctx, userID)
}

// Create inserts a new product.
func (s *Service) Create(ctx context.Context, userID string, input ProductInput) (*Product, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	if input.Name == "" {
		return nil, shared.Invalid("product name is required")
	}
	return s.repo.CreateProduct(ctx, userID, input)
}

// CreateOrUpdate restocks an existing product matched by exact
// case-insensitive name, or creates a new one. When the product exists, the
// input stock is added to the current level and the price replaces the old
// one if provided.
func (s *Service) CreateOrUpdate(ctx context.Context, userID string, input ProductInput) (*UpsertResult, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	if input.Name == "" {
		return nil, shared.Invalid("product name is required")
	}

	existing, err := s.repo.FindByExactName(ctx, userID, input.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing == nil {
		created, err := s.repo.CreateProduct(ctx, userID, input)
		if err != nil {
			return nil, err
		}
		return &UpsertResult{Product: created, Message: "Product created successfully"}, nil
	}

	newStock := existing.Stock + input.Stock
	update := UpdateInput{Stock: &newStock}
	if input.Price > 0 {
		price := input.Price
		update.Price = &price
	}
	if err := s.repo.UpdateProduct(ctx, userID, existing.ID, update); err != nil {
		return nil, err
	}

	updated := *existing
	updated.Stock = newStock
	if update.Price != nil {
		updated.Price = *update.Price
	}
	return &UpsertResult{
		Product:  &updated,
		IsUpdate: true,
		Message:  fmt.Sprintf("Updated existing product %q. Stock increased from %d to %d.", existing.Name, existing.Stock, newStock),
	}, nil
}

// Import bulk-creates products, skipping rows without a name.
func (s *Service) Import(ctx context.Context, userID string, inputs []ProductInput) (int, error) {
	if userID == "" {
		return 0, shared.ErrUnauthorized
	}
	return s.repo.CreateProducts(ctx, userID, inputs)
}

// Update applies a partial update by ID.
func (s *Service) Update(ctx context.Context, userID, id string, input UpdateInput) error {
	return s.repo.UpdateProduct(ctx, userID, id, input)
}

// UpdateByName applies a partial update to the product matched by name.
func (s *Service) UpdateByName(ctx context.Context, userID, name string, input UpdateInput) (*Product, error) {
	product, err := s.repo.FindByExactName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProduct(ctx, userID, product.ID, input); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteProduct(ctx, userID, id)
}

// DeleteByName removes the product matched by exact case-insensitive name.
func (s *Service) DeleteByName(ctx context.Context, userID, name string) error {
	product, err := s.repo.FindByExactName(ctx, userID, name)
	if err != nil {
		return err
	}
	return s.repo.DeleteProduct(ctx, userID, product.ID)
}

// FindByName resolves a product from a partial, case-insensitive name.
func (s *Service) FindByName(ctx context.Context, userID, name string) (*Product, error) {
	if name == "" {
		return nil, shared.ErrNotFound
	}
	return s.repo.FindByName(ctx, userID, name)
}

// LowStockCount counts products below the restock threshold.
func (s *Service) LowStockCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountLowStock(ctx, userID, LowStockThreshold)
}

// InventorySummary returns the lowest-stocked products for assistant context.
func (s *Service) InventorySummary(ctx context.Context, userID string) ([]StockSummary, error) {
	return s.repo.StockSummaries(ctx, userID, 20)
}

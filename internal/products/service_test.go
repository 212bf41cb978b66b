package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateflow/mateflow/internal/shared"
)

type mockRepo struct {
	byName map[string]*Product

	created *ProductInput
	updated *UpdateInput
	deleted string
}

func newMockRepo() *mockRepo {
	return &mockRepo{byName: make(map[string]*Product)}
}

func (m *mockRepo) ListProducts(ctx context.Context, userID string) ([]Product, error) {
	return nil, nil
}

func (m *mockRepo) GetProduct(ctx context.Context, userID, id string) (*Product, error) {
	return nil, shared.ErrNotFound
}

func (m *mockRepo) FindByExactName(ctx context.Context, userID, name string) (*Product, error) {
	p, ok := m.byName[name]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) FindByName(ctx context.Context, userID, name string) (*Product, error) {
	return m.FindByExactName(ctx, userID, name)
}

func (m *mockRepo) CreateProduct(ctx context.Context, userID string, input ProductInput) (*Product, error) {
	m.created = &input
	p := &Product{ID: "prod-1", UserID: userID, Name: input.Name, Price: input.Price, Stock: input.Stock}
	m.byName[input.Name] = p
	return p, nil
}

func (m *mockRepo) CreateProducts(ctx context.Context, userID string, inputs []ProductInput) (int, error) {
	count := 0
	for _, in := range inputs {
		if in.Name == "" {
			continue
		}
		count++
	}
	return count, nil
}

func (m *mockRepo) UpdateProduct(ctx context.Context, userID, id string, input UpdateInput) error {
	m.updated = &input
	return nil
}

func (m *mockRepo) DeleteProduct(ctx context.Context, userID, id string) error {
	m.deleted = id
	return nil
}

func (m *mockRepo) CountLowStock(ctx context.Context, userID string, threshold int) (int, error) {
	return 0, nil
}

func (m *mockRepo) StockSummaries(ctx context.Context, userID string, limit int) ([]StockSummary, error) {
	return nil, nil
}

func TestCreateOrUpdateCreatesNew(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	result, err := svc.CreateOrUpdate(context.Background(), "user-1", ProductInput{Name: "Coffee", Price: 55, Stock: 30})
	require.NoError(t, err)

	assert.False(t, result.IsUpdate)
	assert.Equal(t, "Product created successfully", result.Message)
	assert.Equal(t, "Coffee", result.Product.Name)
}

func TestCreateOrUpdateRestocksExisting(t *testing.T) {
	repo := newMockRepo()
	repo.byName["Coffee"] = &Product{ID: "prod-1", Name: "Coffee", Price: 50, Stock: 5}
	svc := NewService(repo)

	result, err := svc.CreateOrUpdate(context.Background(), "user-1", ProductInput{Name: "Coffee", Price: 60, Stock: 20})
	require.NoError(t, err)

	assert.True(t, result.IsUpdate)
	assert.Equal(t, 25, result.Product.Stock)
	assert.Equal(t, 60.0, result.Product.Price)
	assert.Contains(t, result.Message, "Stock increased from 5 to 25")

	require.NotNil(t, repo.updated)
	require.NotNil(t, repo.updated.Stock)
	assert.Equal(t, 25, *repo.updated.Stock)
}

func TestCreateOrUpdateKeepsPriceWhenZero(t *testing.T) {
	repo := newMockRepo()
	repo.byName["Coffee"] = &Product{ID: "prod-1", Name: "Coffee", Price: 50, Stock: 5}
	svc := NewService(repo)

	result, err := svc.CreateOrUpdate(context.Background(), "user-1", ProductInput{Name: "Coffee", Stock: 10})
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.Product.Price)
	assert.Nil(t, repo.updated.Price)
}

func TestCreateOrUpdateValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.CreateOrUpdate(context.Background(), "", ProductInput{Name: "x"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = svc.CreateOrUpdate(context.Background(), "user-1", ProductInput{})
	assert.Equal(t, 422, shared.HTTPStatus(err))
}

func TestDeleteByName(t *testing.T) {
	repo := newMockRepo()
	repo.byName["Coffee"] = &Product{ID: "prod-9", Name: "Coffee"}
	svc := NewService(repo)

	require.NoError(t, svc.DeleteByName(context.Background(), "user-1", "Coffee"))
	assert.Equal(t, "prod-9", repo.deleted)

	err := svc.DeleteByName(context.Background(), "user-1", "Tea")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestFindByNameEmpty(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.FindByName(context.Background(), "user-1", "")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

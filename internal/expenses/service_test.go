package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateflow/mateflow/internal/shared"
)

type mockRepo struct {
	created      *ExpenseInput
	bulkCreated  []ExpenseInput
	deletedID    string
	bulkCountOut int
}

func (m *mockRepo) ListExpenses(ctx context.Context, userID string) ([]Expense, error) {
	return nil, nil
}

func (m *mockRepo) FindByTitle(ctx context.Context, userID, title string) (*Expense, error) {
	return nil, shared.ErrNotFound
}

func (m *mockRepo) CreateExpense(ctx context.Context, userID string, input ExpenseInput) (*Expense, error) {
	m.created = &input
	return &Expense{ID: "exp-1", UserID: userID, Title: input.Title, Amount: input.Amount, Category: input.Category, Date: input.Date}, nil
}

func (m *mockRepo) CreateExpenses(ctx context.Context, userID string, inputs []ExpenseInput) (int, error) {
	m.bulkCreated = inputs
	if m.bulkCountOut > 0 {
		return m.bulkCountOut, nil
	}
	return len(inputs), nil
}

func (m *mockRepo) DeleteExpense(ctx context.Context, userID, id string) error {
	m.deletedID = id
	return nil
}

func (m *mockRepo) ListExpenseRecords(ctx context.Context, userID string, from, to time.Time) ([]ExpenseRecord, error) {
	return nil, nil
}

type countingBumper struct {
	count int
}

func (c *countingBumper) Bump(ctx context.Context) error {
	c.count++
	return nil
}

func TestCreateExpense(t *testing.T) {
	repo := &mockRepo{}
	bumper := &countingBumper{}
	svc := NewService(repo, bumper)

	created, err := svc.Create(context.Background(), "user-1", ExpenseInput{
		Title:    "Fuel",
		Amount:   350,
		Category: "Transport",
	})
	require.NoError(t, err)

	assert.Equal(t, "Fuel", created.Title)
	assert.False(t, repo.created.Date.IsZero())
	assert.Equal(t, 1, bumper.count)
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := NewService(&mockRepo{}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", ExpenseInput{Title: "x", Amount: 1, Category: "Food"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = svc.Create(ctx, "user-1", ExpenseInput{Amount: 1, Category: "Food"})
	assert.Equal(t, 422, shared.HTTPStatus(err))

	_, err = svc.Create(ctx, "user-1", ExpenseInput{Title: "x", Category: "Food"})
	assert.Equal(t, 422, shared.HTTPStatus(err))

	_, err = svc.Create(ctx, "user-1", ExpenseInput{Title: "x", Amount: 1, Category: "Gambling"})
	assert.Equal(t, 422, shared.HTTPStatus(err))
}

func TestImportFallsBackToOther(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil)

	count, err := svc.Import(context.Background(), "user-1", []ExpenseInput{
		{Title: "Fuel", Amount: 100, Category: "Transport"},
		{Title: "Misc", Amount: 50, Category: "Something odd"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, "Transport", repo.bulkCreated[0].Category)
	assert.Equal(t, "Other", repo.bulkCreated[1].Category)
	assert.False(t, repo.bulkCreated[1].Date.IsZero())
}

func TestImportSkipsBumpOnZeroRows(t *testing.T) {
	repo := &mockRepo{}
	bumper := &countingBumper{}
	svc := NewService(repo, bumper)

	count, err := svc.Import(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, bumper.count)
}

func TestDeleteBumpsStats(t *testing.T) {
	repo := &mockRepo{}
	bumper := &countingBumper{}
	svc := NewService(repo, bumper)

	require.NoError(t, svc.Delete(context.Background(), "user-1", "exp-1"))
	assert.Equal(t, "exp-1", repo.deletedID)
	assert.Equal(t, 1, bumper.count)
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c))
	}
	assert.False(t, ValidCategory("transport"))
	assert.False(t, ValidCategory(""))
}

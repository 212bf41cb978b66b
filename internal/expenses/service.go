package expenses

import (
	"context"
	"time"

	"github.com/mateflow/mateflow/internal/shared"
)

// RepositoryPort defines data access methods for expenses.
type RepositoryPort interface {
	ListExpenses(ctx context.Context, userID string) ([]Expense, error)
	FindByTitle(ctx context.Context, userID, title string) (*Expense, error)
	CreateExpense(ctx context.Context, userID string, input ExpenseInput) (*Expense, error)
	CreateExpenses(ctx context.Context, userID string, inputs []ExpenseInput) (int, error)
	DeleteExpense(ctx context.Context, userID, id string) error
	ListExpenseRecords(ctx context.Context, userID string, from, to time.Time) ([]ExpenseRecord, error)
}

// StatsInvalidator bumps cached aggregates after expense mutations.
type StatsInvalidator interface {
	Bump(ctx context.Context) error
}

// Service handles expense business logic.
type Service struct {
	repo  RepositoryPort
	stats StatsInvalidator
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, stats StatsInvalidator) *Service {
	return &Service{repo: repo, stats: stats}
}

// List returns all expenses for the user.
func (s *Service) List(ctx context.Context, userID string) ([]Expense, error) {
	return s.repo.ListExpenses(ctx, userID)
}

// FindByTitle resolves an expense from a partial, case-insensitive title.
func (s *Service) FindByTitle(ctx context.Context, userID, title string) (*Expense, error) {
	if title == "" {
		return nil, shared.ErrNotFound
	}
	return s.repo.FindByTitle(ctx, userID, title)
}

// Create validates and inserts a new expense. A zero date defaults to now.
func (s *Service) Create(ctx context.Context, userID string, input ExpenseInput) (*Expense, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	if input.Title == "" {
		return nil, shared.Invalid("expense title is required")
	}
	if input.Amount <= 0 {
		return nil, shared.Invalid("expense amount must be positive")
	}
	if !ValidCategory(input.Category) {
		return nil, shared.Invalid("unknown expense category " + input.Category)
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	created, err := s.repo.CreateExpense(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		_ = s.stats.Bump(ctx)
	}
	return created, nil
}

// Import bulk-creates expenses; rows with unknown categories fall back to Other.
func (s *Service) Import(ctx context.Context, userID string, inputs []ExpenseInput) (int, error) {
	if userID == "" {
		return 0, shared.ErrUnauthorized
	}
	for i := range inputs {
		if !ValidCategory(inputs[i].Category) {
			inputs[i].Category = "Other"
		}
		if inputs[i].Date.IsZero() {
			inputs[i].Date = time.Now()
		}
	}
	count, err := s.repo.CreateExpenses(ctx, userID, inputs)
	if err != nil {
		return 0, err
	}
	if count > 0 && s.stats != nil {
		_ = s.stats.Bump(ctx)
	}
	return count, nil
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	if s.stats != nil {
		_ = s.stats.Bump(ctx)
	}
	return nil
}

// ListRecords exposes the slim projection used by tax aggregation.
func (s *Service) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]ExpenseRecord, error) {
	return s.repo.ListExpenseRecords(ctx, userID, from, to)
}

package expenses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mateflow/mateflow/internal/shared"
)

// Repository provides PostgreSQL backed persistence for expenses.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const expenseColumns = `id, user_id, title, amount, category, COALESCE(description, ''),
	date, COALESCE(receipt_url, ''), created_at`

// ListExpenses returns expenses for a user, most recent date first.
func (r *Repository) ListExpenses(ctx context.Context, userID string) ([]Expense, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Category, &e.Description, &e.Date, &e.ReceiptURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// FindByTitle returns the first expense whose title contains the given text,
// case-insensitively.
func (r *Repository) FindByTitle(ctx context.Context, userID, title string) (*Expense, error) {
	var e Expense
	err := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE user_id = $1 AND LOWER(title) LIKE $2
		 ORDER BY date DESC LIMIT 1`,
		userID, "%"+strings.ToLower(title)+"%").
		Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Category, &e.Description, &e.Date, &e.ReceiptURL, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateExpense inserts a new expense.
func (r *Repository) CreateExpense(ctx context.Context, userID string, input ExpenseInput) (*Expense, error) {
	e := Expense{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       input.Title,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        input.Date,
		ReceiptURL:  input.ReceiptURL,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (id, user_id, title, amount, category, description, date, receipt_url, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''), NOW())
		RETURNING created_at`,
		e.ID, e.UserID, e.Title, e.Amount, e.Category, e.Description, e.Date, e.ReceiptURL,
	).Scan(&e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateExpenses bulk-inserts imported expenses.
func (r *Repository) CreateExpenses(ctx context.Context, userID string, inputs []ExpenseInput) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `
		INSERT INTO expenses (id, user_id, title, amount, category, description, date, receipt_url, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''), NOW())`
	count := 0
	for _, in := range inputs {
		if in.Title == "" {
			continue
		}
		if _, err := tx.Exec(ctx, query, uuid.NewString(), userID, in.Title, in.Amount, in.Category, in.Description, in.Date, in.ReceiptURL); err != nil {
			return 0, err
		}
		count++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteExpense removes an expense.
func (r *Repository) DeleteExpense(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListExpenseRecords returns the slim projection used by tax aggregation.
func (r *Repository) ListExpenseRecords(ctx context.Context, userID string, from, to time.Time) ([]ExpenseRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT amount, date FROM expenses WHERE user_id = $1 AND date >= $2 AND date <= $3`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ExpenseRecord
	for rows.Next() {
		var rec ExpenseRecord
		if err := rows.Scan(&rec.Amount, &rec.Date); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

package expenses

import "time"

// Categories enumerates the accepted expense categories.
var Categories = []string{"Supplies", "Transport", "Food", "Utilities", "Wages", "Rent", "Other"}

// ValidCategory reports whether category is one of the accepted values.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Expense model.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	ReceiptURL  string    `json:"receipt_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExpenseInput describes create payloads.
type ExpenseInput struct {
	Title       string    `json:"title" validate:"required"`
	Amount      float64   `json:"amount" validate:"gt=0"`
	Category    string    `json:"category" validate:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	ReceiptURL  string    `json:"receipt_url"`
}

// ExpenseRecord is the slim projection consumed by tax aggregation.
type ExpenseRecord struct {
	Amount float64
	Date   time.Time
}

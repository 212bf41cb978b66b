package products

import "time"

// Product model.
type Product struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput describes create payloads.
type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// UpdateInput carries optional field updates; nil means leave unchanged.
type UpdateInput struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Stock    *int     `json:"stock"`
	ImageURL *string  `json:"image_url"`
}

// UpsertResult reports what CreateOrUpdate did.
type UpsertResult struct {
	Product  *Product `json:"product"`
	IsUpdate bool     `json:"is_update"`
	Message  string   `json:"message"`
}

// StockSummary is the slim projection fed to the assistant prompt.
type StockSummary struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

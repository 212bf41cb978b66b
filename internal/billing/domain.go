package billing

import "time"

// BillStatus enumerates bill lifecycle states.
type BillStatus string

const (
	StatusDraft     BillStatus = "draft"
	StatusPaid      BillStatus = "paid"
	StatusCancelled BillStatus = "cancelled"
)

// AdjustmentType discriminates percentage and fixed-amount adjustments.
type AdjustmentType string

const (
	AdjustmentPercent AdjustmentType = "percent"
	AdjustmentFixed   AdjustmentType = "fixed"
)

// Adjustment is a named modifier applied to a bill subtotal. Negative values
// are discounts, positive values are surcharges or taxes.
type Adjustment struct {
	Label string         `json:"label"`
	Type  AdjustmentType `json:"type"`
	Value float64        `json:"value"`
}

// BillItem is a single line on a bill.
type BillItem struct {
	ID          string  `json:"id"`
	BillID      string  `json:"bill_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// Bill model. Items and adjustments are immutable after creation.
type Bill struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	CustomerID   string       `json:"customer_id"`
	CustomerName string       `json:"customer_name,omitempty"`
	TotalAmount  float64      `json:"total_amount"`
	Status       BillStatus   `json:"status"`
	Note         string       `json:"note,omitempty"`
	Adjustments  []Adjustment `json:"adjustments"`
	PaymentTerms int          `json:"payment_terms"`
	ValidityDays int          `json:"validity_days"`
	CreatedAt    time.Time    `json:"created_at"`
	Items        []BillItem   `json:"items,omitempty"`
}

// CreateItemInput describes one requested line item.
type CreateItemInput struct {
	ProductID   string  `json:"product_id" validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// CreateBillInput describes a bill creation request.
type CreateBillInput struct {
	CustomerID   string            `json:"customer_id" validate:"required"`
	Note         string            `json:"note"`
	Items        []CreateItemInput `json:"items" validate:"min=1,dive"`
	Adjustments  []Adjustment      `json:"adjustments"`
	PaymentTerms int               `json:"payment_terms"`
	ValidityDays int               `json:"validity_days"`
}

// ListFilter narrows bill listings.
type ListFilter struct {
	From          time.Time
	To            time.Time
	ExcludeStatus BillStatus
}

// BillRecord is the slim projection consumed by tax aggregation.
type BillRecord struct {
	TotalAmount float64
	Adjustments []Adjustment
	Status      BillStatus
	CreatedAt   time.Time
}

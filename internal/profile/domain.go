package profile

import "time"

// StoreProfile holds the merchant details printed on bills.
type StoreProfile struct {
	ID           string     `json:"id"`
	StoreName    string     `json:"store_name"`
	StoreAddress string     `json:"store_address"`
	StorePhone   string     `json:"store_phone"`
	TaxID        string     `json:"tax_id"`
	AvatarURL    string     `json:"avatar_url"`
	SignatureURL string     `json:"signature_url"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// UpdateInput carries optional field updates; nil means leave unchanged.
type UpdateInput struct {
	StoreName    *string `json:"store_name"`
	StoreAddress *string `json:"store_address"`
	StorePhone   *string `json:"store_phone"`
	TaxID        *string `json:"tax_id"`
	AvatarURL    *string `json:"avatar_url"`
	SignatureURL *string `json:"signature_url"`
}

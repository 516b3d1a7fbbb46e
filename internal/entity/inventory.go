package entity

import "github.com/shopspring/decimal"

// InventoryItem status values.
const (
	InventoryAvailable = "available"
	InventoryReserved  = "reserved"
	InventoryInUse     = "in_use"
	InventoryDepleted  = "depleted"
)

// InventoryItem is one batch of a material.
type InventoryItem struct {
	ID          int             `json:"id"`
	MaterialID  int             `json:"material_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	BatchNumber string          `json:"batch_number"`
	Location    string          `json:"location"`
	Status      string          `json:"status"`
	ExpiryDate  string          `json:"expiry_date,omitempty"`
	LastUpdated string          `json:"last_updated,omitempty"`
}

// CreateInventoryItemRequest is the POST /inventory payload.
type CreateInventoryItemRequest struct {
	MaterialID  int             `json:"material_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	BatchNumber string          `json:"batch_number"`
	Location    string          `json:"location"`
	Status      string          `json:"status"`
	ExpiryDate  string          `json:"expiry_date,omitempty"`
}

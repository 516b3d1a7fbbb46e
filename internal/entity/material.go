package entity

import "github.com/shopspring/decimal"

// Material is a raw-material catalog entry.
type Material struct {
	ID             int                    `json:"id"`
	Name           string                 `json:"name"`
	Type           string                 `json:"type"`
	SupplierID     int                    `json:"supplier_id"`
	Price          decimal.Decimal        `json:"price"`
	MOQ            int                    `json:"moq"`
	LeadTimeDays   int                    `json:"lead_time_days"`
	ReorderPoint   int                    `json:"reorder_point"`
	Specifications map[string]interface{} `json:"specifications"`
}

// CreateMaterialRequest is the POST /materials payload.
type CreateMaterialRequest struct {
	Name           string                 `json:"name"`
	Type           string                 `json:"type"`
	SupplierID     int                    `json:"supplier_id"`
	Price          decimal.Decimal        `json:"price"`
	MOQ            int                    `json:"moq"`
	LeadTimeDays   int                    `json:"lead_time_days"`
	ReorderPoint   int                    `json:"reorder_point"`
	Specifications map[string]interface{} `json:"specifications"`
}

package entity

import "github.com/shopspring/decimal"

// Part is a manufactured item. part_number is unique backend-wide; the
// bill of materials for a part is the set of BOMItems where the part is
// the parent.
type Part struct {
	ID                 int             `json:"id"`
	PartNumber         string          `json:"part_number"`
	Description        string          `json:"description"`
	CustomerID         int             `json:"customer_id"`
	Customer           *Customer       `json:"customer,omitempty"`
	Material           string          `json:"material"`
	Price              decimal.Decimal `json:"price"`
	CycleTime          float64         `json:"cycle_time"`
	SetupTime          float64         `json:"setup_time"`
	CompatibleMachines []string        `json:"compatible_machines"`
}

// CreatePartRequest is the POST /parts payload.
type CreatePartRequest struct {
	PartNumber         string          `json:"part_number"`
	Description        string          `json:"description"`
	CustomerID         int             `json:"customer_id"`
	Material           string          `json:"material"`
	Price              decimal.Decimal `json:"price"`
	CycleTime          float64         `json:"cycle_time"`
	SetupTime          float64         `json:"setup_time"`
	CompatibleMachines []string        `json:"compatible_machines"`
}

package entity

import "github.com/shopspring/decimal"

// MaintenanceRecord logs work performed on a machine.
type MaintenanceRecord struct {
	ID          int             `json:"id"`
	MachineID   int             `json:"machine_id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time,omitempty"`
	Technician  string          `json:"technician"`
	PartsUsed   string          `json:"parts_used"`
	Cost        decimal.Decimal `json:"cost"`
	Status      string          `json:"status"`
}

// CreateMaintenanceRecordRequest is the POST /maintenance-records payload.
type CreateMaintenanceRecordRequest struct {
	MachineID   int             `json:"machine_id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time,omitempty"`
	Technician  string          `json:"technician"`
	PartsUsed   string          `json:"parts_used"`
	Cost        decimal.Decimal `json:"cost"`
	Status      string          `json:"status"`
}

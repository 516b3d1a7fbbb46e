package entity

// ProductionRun tracks a batch of parts through the shop.
type ProductionRun struct {
	ID        int    `json:"id"`
	RunNumber string `json:"run_number,omitempty"`
	PartID    int    `json:"part_id"`
	Quantity  int    `json:"quantity"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
}

// CreateProductionRunRequest is the POST /production-runs payload.
type CreateProductionRunRequest struct {
	PartID    int    `json:"part_id"`
	Quantity  int    `json:"quantity"`
	StartTime string `json:"start_time"`
	Status    string `json:"status"`
}

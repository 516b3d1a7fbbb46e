package entity

// QualityCheck records an inspection of produced parts.
type QualityCheck struct {
	ID               int    `json:"id"`
	PartID           int    `json:"part_id"`
	QuantityChecked  int    `json:"quantity_checked"`
	QuantityRejected int    `json:"quantity_rejected"`
	Notes            string `json:"notes,omitempty"`
	Status           string `json:"status"`
}

// CreateQualityCheckRequest is the POST /quality-checks payload.
type CreateQualityCheckRequest struct {
	PartID           int    `json:"part_id"`
	QuantityChecked  int    `json:"quantity_checked"`
	QuantityRejected int    `json:"quantity_rejected"`
	Notes            string `json:"notes,omitempty"`
	Status           string `json:"status"`
}

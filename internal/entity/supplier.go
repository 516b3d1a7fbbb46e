package entity

// Supplier is a raw-material vendor.
type Supplier struct {
	ID           int                    `json:"id"`
	Name         string                 `json:"name"`
	ContactInfo  map[string]interface{} `json:"contact_info"`
	LeadTimeDays int                    `json:"lead_time_days"`
	Rating       int                    `json:"rating"`
	Active       bool                   `json:"active"`
}

// CreateSupplierRequest is the POST /suppliers payload.
type CreateSupplierRequest struct {
	Name         string                 `json:"name"`
	ContactInfo  map[string]interface{} `json:"contact_info"`
	LeadTimeDays int                    `json:"lead_time_days"`
	Rating       int                    `json:"rating"`
	Active       bool                   `json:"active"`
}

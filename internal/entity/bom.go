package entity

// BOMItem relates a parent part to one of its child components.
// Quantity is units of child per unit of parent. The backend is
// authoritative for acyclicity of the parent/child relation; the client
// additionally refuses to cache a row that its own data proves cyclic
// (see store.CreateBOMItem).
type BOMItem struct {
	ID           int     `json:"id"`
	ParentPartID int     `json:"parent_part_id"`
	ChildPartID  int     `json:"child_part_id"`
	Quantity     int     `json:"quantity"`
	ProcessStep  string  `json:"process_step"`
	SetupTime    float64 `json:"setup_time"`
	CycleTime    float64 `json:"cycle_time"`
	Notes        string  `json:"notes,omitempty"`
	ChildPart    *Part   `json:"child_part,omitempty"`
}

// CreateBOMItemRequest is the POST /bom-items payload.
type CreateBOMItemRequest struct {
	ParentPartID int     `json:"parent_part_id"`
	ChildPartID  int     `json:"child_part_id"`
	Quantity     int     `json:"quantity"`
	ProcessStep  string  `json:"process_step"`
	SetupTime    float64 `json:"setup_time"`
	CycleTime    float64 `json:"cycle_time"`
	Notes        string  `json:"notes,omitempty"`
}

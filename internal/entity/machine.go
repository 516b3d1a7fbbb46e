package entity

// Machine is a shop-floor resource referenced by Part.CompatibleMachines.
type Machine struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Status        bool   `json:"status"`
	CurrentShifts int    `json:"current_shifts"`
	HoursPerShift int    `json:"hours_per_shift"`
	CurrentJob    string `json:"current_job,omitempty"`
}

// CreateMachineRequest is the POST /machines payload.
type CreateMachineRequest struct {
	Name          string `json:"name"`
	Status        bool   `json:"status"`
	CurrentShifts int    `json:"current_shifts"`
	HoursPerShift int    `json:"hours_per_shift"`
	CurrentJob    string `json:"current_job,omitempty"`
}

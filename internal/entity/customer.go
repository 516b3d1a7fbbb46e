package entity

// Customer owns parts and places sales orders.
type Customer struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// CustomerRef is the denormalized {id, name} shape embedded in sales
// order responses.
type CustomerRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateCustomerRequest is the POST /customers payload.
type CreateCustomerRequest struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

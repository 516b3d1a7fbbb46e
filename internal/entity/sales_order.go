package entity

import "github.com/shopspring/decimal"

// SalesOrder status values. Only draft -> in_production is driven by this
// client (see workflow.StartProduction); every other transition happens
// server-side or through direct API calls.
const (
	SOStatusDraft        = "draft"
	SOStatusConfirmed    = "confirmed"
	SOStatusInProduction = "in_production"
	SOStatusShipped      = "shipped"
	SOStatusDelivered    = "delivered"
	SOStatusCancelled    = "cancelled"
)

// SalesOrder is a customer order with its line items.
type SalesOrder struct {
	ID              int             `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Customer        CustomerRef     `json:"customer"`
	DueDate         string          `json:"due_date"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentTerms    string          `json:"payment_terms"`
	ShippingAddress string          `json:"shipping_address"`
	Notes           string          `json:"notes,omitempty"`
	LineItems       []LineItem      `json:"line_items"`
}

// LineItem is one part/quantity/price row within a sales order.
type LineItem struct {
	ID                int             `json:"id"`
	PartID            int             `json:"part_id"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DeliveredQuantity int             `json:"delivered_quantity"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Part              *PartRef        `json:"part,omitempty"`
}

// PartRef is the denormalized part shape embedded in line items.
type PartRef struct {
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
}

// CreateSalesOrderRequest is the POST /sales-orders payload.
type CreateSalesOrderRequest struct {
	OrderNumber     string                  `json:"order_number"`
	CustomerID      int                     `json:"customer_id"`
	DueDate         string                  `json:"due_date"`
	Status          string                  `json:"status"`
	PaymentTerms    string                  `json:"payment_terms"`
	ShippingAddress string                  `json:"shipping_address"`
	Notes           string                  `json:"notes,omitempty"`
	LineItems       []CreateLineItemRequest `json:"line_items"`
}

// CreateLineItemRequest carries the client-computed total_amount
// (quantity * unit_price); the server recomputes and stays authoritative.
type CreateLineItemRequest struct {
	PartID      int             `json:"part_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewLineItem fills in the computed total for a line.
func NewLineItem(partID, quantity int, unitPrice decimal.Decimal) CreateLineItemRequest {
	return CreateLineItemRequest{
		PartID:      partID,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalAmount: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// MaterialCheckResult is the GET /sales-orders/{id}/check-materials
// response. missing_materials is only present when has_sufficient_materials
// is false.
type MaterialCheckResult struct {
	HasSufficientMaterials bool              `json:"has_sufficient_materials"`
	MissingMaterials       []MissingMaterial `json:"missing_materials,omitempty"`
}

// MissingMaterial is one shortage row.
type MissingMaterial struct {
	MaterialName    string          `json:"material_name"`
	MissingQuantity decimal.Decimal `json:"missing_quantity"`
	LeadTimeDays    int             `json:"lead_time_days,omitempty"`
}

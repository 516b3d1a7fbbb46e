package gateway

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

// GetSalesOrders lists all sales orders with their line items.
func (c *Client) GetSalesOrders(ctx context.Context) ([]entity.SalesOrder, error) {
	var orders []entity.SalesOrder
	if err := c.get(ctx, "/sales-orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateSalesOrder creates an order.
func (c *Client) CreateSalesOrder(ctx context.Context, req entity.CreateSalesOrderRequest) (*entity.SalesOrder, error) {
	var order entity.SalesOrder
	if err := c.post(ctx, "/sales-orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateSalesOrder PUTs the full order payload. The backend treats this
// as a whole-record replace, so callers must send every field, not a
// patch.
func (c *Client) UpdateSalesOrder(ctx context.Context, id int, order entity.SalesOrder) (*entity.SalesOrder, error) {
	var updated entity.SalesOrder
	if err := c.put(ctx, fmt.Sprintf("/sales-orders/%d", id), order, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CheckMaterials asks the backend whether on-hand inventory covers the
// order's exploded material requirements. The computation is entirely
// server-side; the client consumes the verdict as-is.
func (c *Client) CheckMaterials(ctx context.Context, orderID int) (*entity.MaterialCheckResult, error) {
	var result entity.MaterialCheckResult
	if err := c.get(ctx, fmt.Sprintf("/sales-orders/%d/check-materials", orderID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

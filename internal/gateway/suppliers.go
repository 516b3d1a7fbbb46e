package gateway

import (
	"context"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

// GetSuppliers lists raw-material vendors.
func (c *Client) GetSuppliers(ctx context.Context) ([]entity.Supplier, error) {
	var suppliers []entity.Supplier
	if err := c.get(ctx, "/suppliers", &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// CreateSupplier registers a vendor.
func (c *Client) CreateSupplier(ctx context.Context, req entity.CreateSupplierRequest) (*entity.Supplier, error) {
	var supplier entity.Supplier
	if err := c.post(ctx, "/suppliers", req, &supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

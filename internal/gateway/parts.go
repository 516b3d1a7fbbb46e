package gateway

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

// GetParts lists all parts.
func (c *Client) GetParts(ctx context.Context) ([]entity.Part, error) {
	var parts []entity.Part
	if err := c.get(ctx, "/parts", &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// CreatePart creates a part and returns the server-confirmed record.
func (c *Client) CreatePart(ctx context.Context, req entity.CreatePartRequest) (*entity.Part, error) {
	var part entity.Part
	if err := c.post(ctx, "/parts", req, &part); err != nil {
		return nil, err
	}
	return &part, nil
}

// UpdatePart replaces a part.
func (c *Client) UpdatePart(ctx context.Context, id int, req entity.CreatePartRequest) (*entity.Part, error) {
	var part entity.Part
	if err := c.put(ctx, fmt.Sprintf("/parts/%d", id), req, &part); err != nil {
		return nil, err
	}
	return &part, nil
}

// DeletePart removes a part. Parts are the only entity with a delete
// endpoint.
func (c *Client) DeletePart(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/parts/%d", id))
}

// GetBOMItems lists the BOM rows where the given part is parent.
func (c *Client) GetBOMItems(ctx context.Context, partID int) ([]entity.BOMItem, error) {
	var items []entity.BOMItem
	if err := c.get(ctx, fmt.Sprintf("/parts/%d/bom", partID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateBOMItem adds a row to a part's bill of materials.
func (c *Client) CreateBOMItem(ctx context.Context, req entity.CreateBOMItemRequest) (*entity.BOMItem, error) {
	var item entity.BOMItem
	if err := c.post(ctx, "/bom-items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

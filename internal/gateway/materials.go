package gateway

import (
	"context"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

// GetMaterials lists the raw-material catalog.
func (c *Client) GetMaterials(ctx context.Context) ([]entity.Material, error) {
	var materials []entity.Material
	if err := c.get(ctx, "/materials", &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

// CreateMaterial creates a catalog entry.
func (c *Client) CreateMaterial(ctx context.Context, req entity.CreateMaterialRequest) (*entity.Material, error) {
	var material entity.Material
	if err := c.post(ctx, "/materials", req, &material); err != nil {
		return nil, err
	}
	return &material, nil
}

// GetInventory lists all inventory batches.
func (c *Client) GetInventory(ctx context.Context) ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	if err := c.get(ctx, "/inventory", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateInventoryItem records a new batch.
func (c *Client) CreateInventoryItem(ctx context.Context, req entity.CreateInventoryItemRequest) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	if err := c.post(ctx, "/inventory", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

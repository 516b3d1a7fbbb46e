package gateway

import (
	"context"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

// GetMachines lists shop-floor machines.
func (c *Client) GetMachines(ctx context.Context) ([]entity.Machine, error) {
	var machines []entity.Machine
	if err := c.get(ctx, "/machines", &machines); err != nil {
		return nil, err
	}
	return machines, nil
}

// CreateMachine registers a machine.
func (c *Client) CreateMachine(ctx context.Context, req entity.CreateMachineRequest) (*entity.Machine, error) {
	var machine entity.Machine
	if err := c.post(ctx, "/machines", req, &machine); err != nil {
		return nil, err
	}
	return &machine, nil
}

// GetMaintenanceRecords lists maintenance history across machines.
func (c *Client) GetMaintenanceRecords(ctx context.Context) ([]entity.MaintenanceRecord, error) {
	var records []entity.MaintenanceRecord
	if err := c.get(ctx, "/maintenance-records", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateMaintenanceRecord logs maintenance work.
func (c *Client) CreateMaintenanceRecord(ctx context.Context, req entity.CreateMaintenanceRecordRequest) (*entity.MaintenanceRecord, error) {
	var record entity.MaintenanceRecord
	if err := c.post(ctx, "/maintenance-records", req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

package gateway

import (
	"context"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

// GetQualityChecks lists inspection records.
func (c *Client) GetQualityChecks(ctx context.Context) ([]entity.QualityCheck, error) {
	var checks []entity.QualityCheck
	if err := c.get(ctx, "/quality-checks", &checks); err != nil {
		return nil, err
	}
	return checks, nil
}

// CreateQualityCheck records an inspection.
func (c *Client) CreateQualityCheck(ctx context.Context, req entity.CreateQualityCheckRequest) (*entity.QualityCheck, error) {
	var check entity.QualityCheck
	if err := c.post(ctx, "/quality-checks", req, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

// GetProductionRuns lists production batches.
func (c *Client) GetProductionRuns(ctx context.Context) ([]entity.ProductionRun, error) {
	var runs []entity.ProductionRun
	if err := c.get(ctx, "/production-runs", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// CreateProductionRun starts tracking a batch.
func (c *Client) CreateProductionRun(ctx context.Context, req entity.CreateProductionRunRequest) (*entity.ProductionRun, error) {
	var run entity.ProductionRun
	if err := c.post(ctx, "/production-runs", req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

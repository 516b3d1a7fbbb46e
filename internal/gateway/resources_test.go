package gateway

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
	"github.com/bitfantasy/nimo-mrp/internal/testutil"
)

func backendClient(t *testing.T) (*Client, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend()
	srv := backend.Start(t)
	return NewClient(srv.URL), backend
}

func TestCustomerSearch(t *testing.T) {
	c, backend := backendClient(t)
	backend.SeedCustomer(entity.Customer{Name: "Acme Corp"})
	backend.SeedCustomer(entity.Customer{Name: "Globex"})
	ctx := context.Background()

	all, err := c.GetCustomers(ctx, "")
	if err != nil {
		t.Fatalf("GetCustomers: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("customers = %d, want 2", len(all))
	}

	matched, err := c.GetCustomers(ctx, "acme")
	if err != nil {
		t.Fatalf("GetCustomers(search): %v", err)
	}
	if len(matched) != 1 || matched[0].Name != "Acme Corp" {
		t.Fatalf("matched = %+v", matched)
	}
}

func TestCreatePartAssignsID(t *testing.T) {
	c, _ := backendClient(t)

	part, err := c.CreatePart(context.Background(), entity.CreatePartRequest{
		PartNumber: "WIDGET-001",
		Price:      decimal.NewFromFloat(12.30),
	})
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if part.ID == 0 {
		t.Error("server-assigned id missing")
	}
	if !part.Price.Equal(decimal.NewFromFloat(12.30)) {
		t.Errorf("price = %s", part.Price)
	}
}

func TestCheckMaterialsVerdict(t *testing.T) {
	c, backend := backendClient(t)
	order := backend.SeedSalesOrder(entity.SalesOrder{Status: entity.SOStatusDraft})
	backend.CheckResults[order.ID] = entity.MaterialCheckResult{
		HasSufficientMaterials: false,
		MissingMaterials: []entity.MissingMaterial{
			{MaterialName: "Steel Rod", MissingQuantity: decimal.NewFromInt(12), LeadTimeDays: 5},
		},
	}

	result, err := c.CheckMaterials(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("CheckMaterials: %v", err)
	}
	if result.HasSufficientMaterials {
		t.Error("verdict should be insufficient")
	}
	if len(result.MissingMaterials) != 1 || result.MissingMaterials[0].LeadTimeDays != 5 {
		t.Errorf("missing = %+v", result.MissingMaterials)
	}
}

func TestImportCSVRoundTrip(t *testing.T) {
	c, _ := backendClient(t)

	result, err := c.ImportCSV(context.Background(), "parts", "parts.csv", []byte("part_number\nWIDGET-001\n"))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result.Message == "" {
		t.Error("empty confirmation message")
	}
}

func TestQualityAndProductionRuns(t *testing.T) {
	c, _ := backendClient(t)
	ctx := context.Background()

	run, err := c.CreateProductionRun(ctx, entity.CreateProductionRunRequest{
		PartID: 1, Quantity: 50, StartTime: "2026-08-01T08:00:00Z", Status: "scheduled",
	})
	if err != nil {
		t.Fatalf("CreateProductionRun: %v", err)
	}
	if run.RunNumber == "" {
		t.Error("run number missing")
	}

	check, err := c.CreateQualityCheck(ctx, entity.CreateQualityCheckRequest{
		PartID: 1, QuantityChecked: 50, QuantityRejected: 2, Status: "completed",
	})
	if err != nil {
		t.Fatalf("CreateQualityCheck: %v", err)
	}
	if check.QuantityRejected != 2 {
		t.Errorf("check = %+v", check)
	}

	runs, err := c.GetProductionRuns(ctx)
	if err != nil {
		t.Fatalf("GetProductionRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("runs = %d, want 1", len(runs))
	}
}

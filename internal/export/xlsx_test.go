package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
	"github.com/bitfantasy/nimo-mrp/internal/gateway"
	"github.com/bitfantasy/nimo-mrp/internal/testutil"
)

func TestOrdersWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	orders := []entity.SalesOrder{
		{
			OrderNumber: "SO-2026-001",
			Customer:    entity.CustomerRef{Name: "Acme Corp"},
			DueDate:     "2026-09-30",
			Status:      entity.SOStatusDraft,
			TotalAmount: decimal.NewFromFloat(28.50),
			LineItems:   []entity.LineItem{{ID: 1}, {ID: 2}},
		},
	}

	if err := Orders(orders, path); err != nil {
		t.Fatalf("Orders: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue("Sales Orders", "A1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header != "Order Number" {
		t.Errorf("A1 = %q", header)
	}
	number, _ := f.GetCellValue("Sales Orders", "A2")
	if number != "SO-2026-001" {
		t.Errorf("A2 = %q", number)
	}
	items, _ := f.GetCellValue("Sales Orders", "G2")
	if items != "2" {
		t.Errorf("G2 = %q, want line item count", items)
	}
}

func TestBOMWorkbookSheetNameCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.xlsx")
	long := strings.Repeat("X", 40)
	items := []entity.BOMItem{{ParentPartID: 1, ChildPartID: 2, Quantity: 4, ProcessStep: "Assembly"}}

	if err := BOM(long, items, path); err != nil {
		t.Fatalf("BOM: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 {
		t.Fatalf("sheets = %v", sheets)
	}
	if len(sheets[0]) > 31 {
		t.Errorf("sheet name %q exceeds the 31-char cap", sheets[0])
	}
	qty, _ := f.GetCellValue(sheets[0], "C2")
	if qty != "4" {
		t.Errorf("C2 = %q", qty)
	}
}

func TestShortagesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortages.xlsx")
	missing := []entity.MissingMaterial{
		{MaterialName: "Steel Rod", MissingQuantity: decimal.NewFromInt(12), LeadTimeDays: 5},
	}

	if err := Shortages(missing, path); err != nil {
		t.Fatalf("Shortages: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	name, _ := f.GetCellValue("Shortages", "A2")
	if name != "Steel Rod" {
		t.Errorf("A2 = %q", name)
	}
}

func TestCSVDownloadUpload(t *testing.T) {
	backend := testutil.NewBackend()
	srv := backend.Start(t)
	gw := gateway.NewClient(srv.URL)
	dir := t.TempDir()
	ctx := context.Background()

	path, err := DownloadCSV(ctx, gw, "parts", dir)
	if err != nil {
		t.Fatalf("DownloadCSV: %v", err)
	}
	if filepath.Base(path) != "parts.csv" {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if !strings.HasPrefix(string(data), "id,") {
		t.Errorf("data = %q", data)
	}

	msg, err := UploadCSV(ctx, gw, "parts", path)
	if err != nil {
		t.Fatalf("UploadCSV: %v", err)
	}
	if msg == "" {
		t.Error("empty upload confirmation")
	}
}

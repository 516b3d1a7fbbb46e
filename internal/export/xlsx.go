// Package export renders cached collections into spreadsheet files and
// shuttles CSV files to and from the backend's csv endpoints.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

var orderHeaders = []string{
	"Order Number", "Customer", "Due Date", "Status",
	"Payment Terms", "Total Amount", "Line Items",
}

var bomHeaders = []string{
	"Parent Part ID", "Child Part ID", "Quantity",
	"Process Step", "Setup Time (min)", "Cycle Time (min)", "Notes",
}

var shortageHeaders = []string{
	"Material", "Missing Quantity", "Lead Time (days)",
}

func newSheet(name string) (*excelize.File, int, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", name)
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, style, nil
}

func writeHeaders(f *excelize.File, sheet string, style int, headers []string) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

// Orders writes the sales-order list to an .xlsx workbook.
func Orders(orders []entity.SalesOrder, path string) error {
	const sheet = "Sales Orders"
	f, style, err := newSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	writeHeaders(f, sheet, style, orderHeaders)
	for i, o := range orders {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), o.OrderNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), o.Customer.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), o.DueDate)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), o.Status)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), o.PaymentTerms)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), o.TotalAmount.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), len(o.LineItems))
	}
	return f.SaveAs(path)
}

// BOM writes one part's bill of materials to an .xlsx workbook.
func BOM(partNumber string, items []entity.BOMItem, path string) error {
	sheet := "BOM " + partNumber
	// sheet names are capped at 31 chars by the format
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	f, style, err := newSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	writeHeaders(f, sheet, style, bomHeaders)
	for i, item := range items {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.ParentPartID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.ChildPartID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.ProcessStep)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.SetupTime)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.CycleTime)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.Notes)
	}
	return f.SaveAs(path)
}

// Shortages writes a material-shortage report to an .xlsx workbook.
func Shortages(missing []entity.MissingMaterial, path string) error {
	const sheet = "Shortages"
	f, style, err := newSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	writeHeaders(f, sheet, style, shortageHeaders)
	for i, m := range missing {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.MaterialName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.MissingQuantity.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.LeadTimeDays)
	}
	return f.SaveAs(path)
}

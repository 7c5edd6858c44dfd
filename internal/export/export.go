package export

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"ordersheet/internal"
)

// ChecklistToXLSX writes the joined order/item checklist view into a
// single-sheet workbook at outputPath, creating parent directories as needed.
func ChecklistToXLSX(rows []internal.ChecklistRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"order_id", "customer", "wants_delivery", "is_paid", "is_fulfilled", "order_total",
		"item_id", "item_name", "quantity", "packed_quantity", "unit_price", "is_checked",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.OrderID)
		set(2, row.Customer)
		set(3, boolCell(row.WantsDelivery))
		set(4, boolCell(row.IsPaid))
		set(5, boolCell(row.IsFulfilled))
		set(6, derefFloat(row.Total))
		set(7, row.ItemID)
		set(8, row.Name)
		set(9, row.Quantity)
		set(10, row.PackedQuantity)
		set(11, derefFloat(row.Price))
		set(12, boolCell(row.IsChecked))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func boolCell(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

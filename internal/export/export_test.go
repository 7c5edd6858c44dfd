package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"ordersheet/internal"
	"ordersheet/internal/util"
)

func TestChecklistToXLSX(t *testing.T) {
	rows := []internal.ChecklistRow{
		{
			OrderID:       "o1",
			Customer:      "小王",
			WantsDelivery: true,
			Total:         util.FloatPtr(28.0),
			ItemID:        "i1",
			Name:          "红烧肉",
			Quantity:      2,
			Price:         util.FloatPtr(12.5),
		},
		{
			OrderID:  "o1",
			Customer: "小王",
			Total:    util.FloatPtr(28.0),
			ItemID:   "i2",
			Name:     "可乐",
			Quantity: 1,
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "checklist.xlsx")
	if err := ChecklistToXLSX(rows, path); err != nil {
		t.Fatalf("ChecklistToXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(got))
	}
	if got[0][0] != "order_id" || got[0][7] != "item_name" {
		t.Fatalf("unexpected header row: %v", got[0])
	}
	if got[1][1] != "小王" || got[1][7] != "红烧肉" {
		t.Fatalf("unexpected first data row: %v", got[1])
	}
	if got[1][2] != "yes" {
		t.Fatalf("expected wants_delivery yes, got %q", got[1][2])
	}
	// nil price round-trips as an empty cell
	if len(got[2]) > 10 && got[2][10] != "" {
		t.Fatalf("expected empty unit_price, got %q", got[2][10])
	}
}

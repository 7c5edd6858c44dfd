package importer

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"ordersheet/internal/config"
	"ordersheet/internal/parse"
	"ordersheet/internal/storage"
)

func writeXLSX(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	name := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(name, cell, v)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func orderSheetRows() [][]any {
	return [][]any{
		{"序号", "姓名", "内容"},
		{1, "小王", "红烧肉 x2，可乐 x1"},
		{2, "小李", "选择配送上门 x1，红烧肉 x1"},
		{3, "老张", "神秘甜品 x1"},
		{"商品汇总", "", ""},
		{"商品", "单价", "数量", "金额"},
		{"红烧肉", 12.5, 3, 37.5},
		{"可乐", 3, 1, 3},
		{"总计", 40.5, "", ""},
	}
}

func newService(t *testing.T) (*Service, *storage.DB, string) {
	t.Helper()
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "orders.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return New(db, cfg, log), db, tmp
}

func TestImportFile(t *testing.T) {
	svc, db, tmp := newService(t)

	path := filepath.Join(tmp, "orders.xlsx")
	writeXLSX(t, path, orderSheetRows())

	res, err := svc.ImportFile(path, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Orders != 3 || res.Items != 4 || res.Issues != 1 {
		t.Fatalf("result=%+v", res)
	}
	if res.ImportID == 0 {
		t.Fatal("import not recorded")
	}

	orders, err := db.ListOrders(storage.OrderFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 3 {
		t.Fatalf("orders=%d", len(orders))
	}

	catalog, err := db.ListCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 2 {
		t.Fatalf("catalog=%d", len(catalog))
	}

	delivery, err := db.ListOrders(storage.OrderFilter{OnlyDelivery: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(delivery) != 1 || delivery[0].Customer != "小李" {
		t.Fatalf("delivery=%+v", delivery)
	}
}

func TestImportFileWipe(t *testing.T) {
	svc, db, tmp := newService(t)

	path := filepath.Join(tmp, "orders.xlsx")
	writeXLSX(t, path, orderSheetRows())

	if _, err := svc.ImportFile(path, 0, false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ImportFile(path, 0, true); err != nil {
		t.Fatal(err)
	}

	orders, err := db.ListOrders(storage.OrderFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 3 {
		t.Fatalf("wipe+reimport should leave one sheet's orders, got %d", len(orders))
	}
}

func TestImportFileStructuralFailureCommitsNothing(t *testing.T) {
	svc, db, tmp := newService(t)

	path := filepath.Join(tmp, "broken.xlsx")
	writeXLSX(t, path, [][]any{
		{"序号", "姓名", "内容"},
		{1, "小王", "红烧肉 x2"},
		// no 商品汇总 section at all
	})

	_, err := svc.ImportFile(path, 0, false)
	var se *parse.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("err=%v", err)
	}

	orders, err := db.ListOrders(storage.OrderFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 0 {
		t.Fatalf("partial data committed: %+v", orders)
	}
	catalog, _ := db.ListCatalog()
	if len(catalog) != 0 {
		t.Fatalf("partial catalog committed: %+v", catalog)
	}
}

package parse

import (
	"errors"
	"testing"

	"ordersheet/internal/sheet"
)

func grid(rows ...[]sheet.Cell) *sheet.Grid {
	return sheet.NewGrid(rows)
}

func txt(v string) sheet.Cell      { return sheet.Text(v) }
func num(v float64) sheet.Cell    { return sheet.Number(v, "") }
func none() sheet.Cell            { return sheet.Empty() }
func row(cells ...sheet.Cell) []sheet.Cell { return cells }

func TestExtractCatalog(t *testing.T) {
	g := grid(
		row(txt("序号"), txt("姓名"), txt("内容")),
		row(num(1), txt("小王"), txt("红烧肉 x2")),
		row(txt("商品汇总"), none(), none()),
		row(txt("商品"), txt("单价"), txt("数量"), txt("金额")),
		row(txt("红烧肉"), num(12.5), num(3), num(37.5)),
		row(txt("可乐"), num(3), none(), none()),
		row(txt("备注行"), txt("非数字"), none(), none()),
		row(txt("总计"), num(40.5), none(), none()),
		row(txt("红烧肉"), num(99), none(), none()),
	)

	entries, priceMap, err := ExtractCatalog(g, DefaultMarkers())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries=%d", len(entries))
	}
	if entries[0].Name != "红烧肉" || entries[0].UnitPrice != 12.5 {
		t.Fatalf("entry0=%+v", entries[0])
	}
	if entries[0].SummaryQty == nil || *entries[0].SummaryQty != 3 {
		t.Fatalf("summary qty=%v", entries[0].SummaryQty)
	}
	if entries[0].SummaryAmount == nil || *entries[0].SummaryAmount != 37.5 {
		t.Fatalf("summary amount=%v", entries[0].SummaryAmount)
	}
	if entries[1].Name != "可乐" || entries[1].SummaryQty != nil {
		t.Fatalf("entry1=%+v", entries[1])
	}
	// the row past 总计 must not leak into the catalog
	if priceMap["红烧肉"] != 12.5 || priceMap["可乐"] != 3 {
		t.Fatalf("priceMap=%v", priceMap)
	}
}

func TestExtractCatalogDuplicateKeepsLast(t *testing.T) {
	g := grid(
		row(txt("商品汇总"), none()),
		row(txt("可乐"), num(3)),
		row(txt("红烧肉"), num(12.5)),
		row(txt("可乐"), num(3.5)),
		row(txt("总计"), num(0)),
	)

	entries, priceMap, err := ExtractCatalog(g, DefaultMarkers())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries=%d", len(entries))
	}
	if entries[0].Name != "红烧肉" {
		t.Fatalf("entry0=%+v", entries[0])
	}
	if entries[1].Name != "可乐" || entries[1].UnitPrice != 3.5 {
		t.Fatalf("entry1=%+v", entries[1])
	}
	if priceMap["可乐"] != 3.5 {
		t.Fatalf("priceMap=%v", priceMap)
	}
}

func TestExtractCatalogMissingMarker(t *testing.T) {
	g := grid(
		row(txt("序号"), txt("姓名")),
		row(txt("红烧肉"), num(12.5)),
	)

	entries, priceMap, err := ExtractCatalog(g, DefaultMarkers())
	if entries != nil || priceMap != nil {
		t.Fatal("partial catalog on structural failure")
	}
	var se *StructuralError
	if !errors.As(err, &se) || se.Kind != ErrSummaryMarkerNotFound {
		t.Fatalf("err=%v", err)
	}
}

func TestExtractCatalogEmptySection(t *testing.T) {
	g := grid(
		row(txt("商品汇总"), none()),
		row(txt("商品"), txt("单价")),
		row(txt("总计"), num(0)),
	)

	_, _, err := ExtractCatalog(g, DefaultMarkers())
	var se *StructuralError
	if !errors.As(err, &se) || se.Kind != ErrEmptyCatalog {
		t.Fatalf("err=%v", err)
	}
}

func TestExtractCatalogTooFewColumns(t *testing.T) {
	g := grid(row(txt("商品汇总")))
	_, _, err := ExtractCatalog(g, DefaultMarkers())
	var se *StructuralError
	if !errors.As(err, &se) || se.Kind != ErrTooFewColumns {
		t.Fatalf("err=%v", err)
	}
}

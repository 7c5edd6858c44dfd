package parse

import (
	"errors"
	"strings"
	"testing"

	"ordersheet/internal/sheet"
)

func orderSheet() *sheet.Grid {
	return grid(
		row(txt("团购接龙"), none(), none()),
		row(txt("序号"), txt("姓名"), txt("内容")),
		row(num(1), txt("小王"), txt("红烧肉 x2，可乐 x1")),
		row(num(2), txt("小李"), txt("选择配送上门 x1，红烧肉 x1")),
		row(num(3), none(), txt("没有姓名，跳过")),
		row(num(4), txt("老张"), txt("神秘甜品 x1")),
		row(num(5), txt("阿梅"), txt("就要一个")),
		row(txt("商品汇总"), none(), none()),
		row(txt("商品"), txt("单价"), txt("数量"), txt("金额")),
		row(txt("红烧肉"), num(12.5), num(3), num(37.5)),
		row(txt("可乐"), num(3), num(1), num(3)),
		row(txt("总计"), num(40.5), none(), none()),
	)
}

func TestParseSheet(t *testing.T) {
	result, err := ParseSheet(orderSheet(), DefaultMarkers())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Orders) != 4 {
		t.Fatalf("orders=%d", len(result.Orders))
	}
	if len(result.Catalog) != 2 {
		t.Fatalf("catalog=%d", len(result.Catalog))
	}

	wang := result.Orders[0]
	if wang.Customer != "小王" || wang.WantsDelivery || wang.IsPaid || wang.IsFulfilled {
		t.Fatalf("order0=%+v", wang)
	}
	if wang.Total == nil || *wang.Total != 28.0 {
		t.Fatalf("order0 total=%v", wang.Total)
	}

	li := result.Orders[1]
	if !li.WantsDelivery {
		t.Fatal("order1 should want delivery")
	}
	if li.Total == nil || *li.Total != 12.5 {
		t.Fatalf("order1 total=%v", li.Total)
	}

	// unmatched item -> total stays nil
	zhang := result.Orders[2]
	if zhang.Customer != "老张" || zhang.Total != nil {
		t.Fatalf("order2=%+v", zhang)
	}

	// no parseable items at all -> zero total and a dedicated issue
	mei := result.Orders[3]
	if mei.Total == nil || *mei.Total != 0 {
		t.Fatalf("order3 total=%v", mei.Total)
	}

	var missingPrice, noQty, noItems int
	for _, issue := range result.Issues {
		switch {
		case strings.Contains(issue.Warning, "Missing price match"):
			missingPrice++
			if issue.OrderID != zhang.OrderID || issue.Customer != "老张" {
				t.Fatalf("issue=%+v", issue)
			}
		case strings.Contains(issue.Warning, "without trailing quantity"):
			noQty++
		case issue.Warning == "No parsed items":
			noItems++
			if issue.OrderID != mei.OrderID {
				t.Fatalf("issue=%+v", issue)
			}
			if issue.ContentSample != "就要一个" {
				t.Fatalf("content sample=%q", issue.ContentSample)
			}
		}
	}
	if missingPrice != 1 || noQty != 1 || noItems != 1 {
		t.Fatalf("issues=%+v", result.Issues)
	}
}

func TestParseSheetItemOwnershipAndOrder(t *testing.T) {
	result, err := ParseSheet(orderSheet(), DefaultMarkers())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Items) != 4 {
		t.Fatalf("items=%d", len(result.Items))
	}

	seen := map[string]bool{}
	for _, it := range result.Items {
		if it.ItemID == "" || seen[it.ItemID] {
			t.Fatalf("item id not unique: %+v", it)
		}
		seen[it.ItemID] = true
	}

	// segment order within the first order is preserved
	first := result.Orders[0].OrderID
	if result.Items[0].OrderID != first || result.Items[0].Name != "红烧肉" {
		t.Fatalf("item0=%+v", result.Items[0])
	}
	if result.Items[1].OrderID != first || result.Items[1].Name != "可乐" {
		t.Fatalf("item1=%+v", result.Items[1])
	}

	if len(result.Checklist) != len(result.Items) {
		t.Fatalf("checklist=%d items=%d", len(result.Checklist), len(result.Items))
	}
	if result.Checklist[0].Customer != "小王" || result.Checklist[0].Name != "红烧肉" {
		t.Fatalf("checklist0=%+v", result.Checklist[0])
	}
}

func TestParseSheetFreshIdentifiersPerRun(t *testing.T) {
	first, err := ParseSheet(orderSheet(), DefaultMarkers())
	if err != nil {
		t.Fatal(err)
	}
	second, err := ParseSheet(orderSheet(), DefaultMarkers())
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Orders) != len(second.Orders) {
		t.Fatalf("order counts differ: %d vs %d", len(first.Orders), len(second.Orders))
	}
	for i := range first.Orders {
		a, b := first.Orders[i], second.Orders[i]
		if a.OrderID == b.OrderID {
			t.Fatalf("order id reused across runs: %s", a.OrderID)
		}
		a.OrderID, b.OrderID = "", ""
		if a.Customer != b.Customer || a.WantsDelivery != b.WantsDelivery ||
			(a.Total == nil) != (b.Total == nil) ||
			(a.Total != nil && *a.Total != *b.Total) {
			t.Fatalf("non-id fields differ: %+v vs %+v", a, b)
		}
	}
	for i := range first.Items {
		if first.Items[i].ItemID == second.Items[i].ItemID {
			t.Fatalf("item id reused across runs")
		}
		if first.Items[i].Name != second.Items[i].Name || first.Items[i].Quantity != second.Items[i].Quantity {
			t.Fatalf("item fields differ at %d", i)
		}
	}
}

func TestParseSheetMissingOrdersHeader(t *testing.T) {
	g := grid(
		row(txt("商品汇总"), none(), none()),
		row(txt("红烧肉"), num(12.5), none()),
		row(txt("总计"), num(12.5), none()),
	)
	_, err := ParseSheet(g, DefaultMarkers())
	var se *StructuralError
	if !errors.As(err, &se) || se.Kind != ErrOrdersHeaderNotFound {
		t.Fatalf("err=%v", err)
	}
}

func TestParseSheetMissingSummaryMarker(t *testing.T) {
	g := grid(
		row(txt("序号"), txt("姓名"), txt("内容")),
		row(num(1), txt("小王"), txt("红烧肉 x2")),
	)
	_, err := ParseSheet(g, DefaultMarkers())
	var se *StructuralError
	if !errors.As(err, &se) || se.Kind != ErrSummaryMarkerNotFound {
		t.Fatalf("err=%v", err)
	}
}

func TestParseSheetTooFewColumns(t *testing.T) {
	g := grid(
		row(txt("序号"), txt("姓名")),
		row(txt("商品汇总"), none()),
		row(txt("红烧肉"), num(12.5)),
		row(txt("总计"), num(12.5)),
	)
	_, err := ParseSheet(g, DefaultMarkers())
	var se *StructuralError
	if !errors.As(err, &se) || se.Kind != ErrTooFewColumns {
		t.Fatalf("err=%v", err)
	}
}

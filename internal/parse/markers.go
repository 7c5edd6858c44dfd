package parse

// Markers are the sentinel strings that delimit the sections of an order
// sheet. Defaults match the fixed Chinese-language layout these sheets use.
type Markers struct {
	// Summary starts the item catalog block at the bottom of the sheet.
	Summary string
	// Total ends the catalog block.
	Total string
	// ProductHeader is the header line inside the catalog block.
	ProductHeader string
	// OrdersHeader starts the order list section.
	OrdersHeader string
	// TotalPrice marks segments that restate an order's total; such segments
	// carry no item and are dropped.
	TotalPrice string
	// DeliveryPrefixes mark segments that encode a delivery choice instead of
	// a line item.
	DeliveryPrefixes []string
}

func DefaultMarkers() Markers {
	return Markers{
		Summary:          "商品汇总",
		Total:            "总计",
		ProductHeader:    "商品",
		OrdersHeader:     "序号",
		TotalPrice:       "总价",
		DeliveryPrefixes: []string{"选择配送"},
	}
}

package parse

import (
	"math"

	"github.com/google/uuid"

	"ordersheet/internal"
	"ordersheet/internal/sheet"
	"ordersheet/internal/util"
)

const contentSampleRunes = 150

// Result is everything one parse pass produces. Orders preserve source row
// order and items preserve segment order, so output is deterministic for a
// given sheet; the generated identifiers are fresh on every pass.
type Result struct {
	Orders    []internal.ParsedOrder
	Items     []internal.ParsedItem
	Issues    []internal.Issue
	Catalog   []internal.CatalogEntry
	PriceMap  map[string]float64
	Checklist []internal.ChecklistRow
}

// ParseSheet parses a whole order sheet: the catalog from the summary
// section, then every qualifying order row between the orders header and the
// summary marker. Structural problems abort with a *StructuralError and no
// partial output; per-order problems become Issues.
func ParseSheet(g *sheet.Grid, m Markers) (*Result, error) {
	catalog, priceMap, err := ExtractCatalog(g, m)
	if err != nil {
		return nil, err
	}

	if g.NumCols() < 3 {
		return nil, structuralErr(ErrTooFewColumns, "expected at least 3 columns for the orders section, sheet has %d", g.NumCols())
	}

	headerIdx, ok := findMarkerRow(g, m.OrdersHeader)
	if !ok {
		return nil, structuralErr(ErrOrdersHeaderNotFound, "orders header marker row %q not found", m.OrdersHeader)
	}
	summaryIdx, _ := findMarkerRow(g, m.Summary)

	resolver := NewResolver(priceMap)
	result := &Result{Catalog: catalog, PriceMap: priceMap}

	for row := headerIdx + 1; row < summaryIdx; row++ {
		customerCell := g.Cell(row, 1)
		contentCell := g.Cell(row, 2)
		if customerCell.IsEmpty() || contentCell.IsEmpty() {
			continue
		}

		orderID := uuid.NewString()
		customer := customerCell.TrimmedText()
		content := contentCell.Text

		wantsDelivery, items, warnings := ParseContent(content, resolver, m)

		total := 0.0
		missingPrice := false
		for i := range items {
			items[i].ItemID = uuid.NewString()
			items[i].OrderID = orderID
			if items[i].Price == nil {
				missingPrice = true
			} else {
				total += float64(items[i].Quantity) * *items[i].Price
			}
		}

		order := internal.ParsedOrder{
			OrderID:       orderID,
			Customer:      customer,
			WantsDelivery: wantsDelivery,
		}
		if !missingPrice {
			order.Total = util.FloatPtr(round2(total))
		}

		sample := util.TruncateRunes(content, contentSampleRunes)
		for _, w := range warnings {
			result.Issues = append(result.Issues, internal.Issue{
				OrderID:       orderID,
				Customer:      customer,
				Warning:       w,
				ContentSample: sample,
			})
		}
		if len(items) == 0 {
			result.Issues = append(result.Issues, internal.Issue{
				OrderID:       orderID,
				Customer:      customer,
				Warning:       "No parsed items",
				ContentSample: sample,
			})
		}

		result.Orders = append(result.Orders, order)
		result.Items = append(result.Items, items...)

		for _, it := range items {
			result.Checklist = append(result.Checklist, internal.ChecklistRow{
				OrderID:       orderID,
				Customer:      customer,
				WantsDelivery: wantsDelivery,
				Total:         order.Total,
				ItemID:        it.ItemID,
				Name:          it.Name,
				Quantity:      it.Quantity,
				Price:         it.Price,
			})
		}
	}

	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package parse

import (
	"ordersheet/internal"
	"ordersheet/internal/sheet"
	"ordersheet/internal/util"
)

// ExtractCatalog reads the summary section of the sheet into an ordered item
// catalog plus a normalized-name to unit-price map for exact lookup.
//
// The section starts at the row whose first cell equals the summary marker and
// runs until the total marker. Marker and header rows inside the span are
// skipped; a row counts as a catalog entry only when its first cell is
// non-empty text and its second cell is numeric. Duplicate names keep the
// last-seen entry.
func ExtractCatalog(g *sheet.Grid, m Markers) ([]internal.CatalogEntry, map[string]float64, error) {
	if g.NumCols() < 2 {
		return nil, nil, structuralErr(ErrTooFewColumns, "expected at least 2 columns, sheet has %d", g.NumCols())
	}

	start, ok := findMarkerRow(g, m.Summary)
	if !ok {
		return nil, nil, structuralErr(ErrSummaryMarkerNotFound, "summary marker row %q not found", m.Summary)
	}

	var entries []internal.CatalogEntry
	for i := start + 1; i < g.NumRows(); i++ {
		nameCell := g.Cell(i, 0)
		if !nameCell.IsText() {
			continue
		}
		name := nameCell.TrimmedText()
		if name == m.Total {
			break
		}
		if name == "" || name == m.Summary || name == m.ProductHeader {
			continue
		}

		priceCell := g.Cell(i, 1)
		if !priceCell.IsNumber() {
			continue
		}

		entry := internal.CatalogEntry{Name: name, UnitPrice: priceCell.Number}
		if qty := g.Cell(i, 2); qty.IsNumber() {
			entry.SummaryQty = util.FloatPtr(qty.Number)
		}
		if amount := g.Cell(i, 3); amount.IsNumber() {
			entry.SummaryAmount = util.FloatPtr(amount.Number)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, nil, structuralErr(ErrEmptyCatalog, "summary marker found but no valid item rows with numeric unit prices")
	}

	entries = dedupeKeepLast(entries)

	priceMap := make(map[string]float64, len(entries))
	for _, e := range entries {
		priceMap[util.NormalizeName(e.Name)] = e.UnitPrice
	}
	return entries, priceMap, nil
}

// dedupeKeepLast drops every occurrence of a repeated name except the last,
// preserving the position of the surviving occurrence.
func dedupeKeepLast(entries []internal.CatalogEntry) []internal.CatalogEntry {
	lastIdx := make(map[string]int, len(entries))
	for i, e := range entries {
		lastIdx[e.Name] = i
	}
	out := make([]internal.CatalogEntry, 0, len(lastIdx))
	for i, e := range entries {
		if lastIdx[e.Name] == i {
			out = append(out, e)
		}
	}
	return out
}

func findMarkerRow(g *sheet.Grid, marker string) (int, bool) {
	for i := 0; i < g.NumRows(); i++ {
		c := g.Cell(i, 0)
		if c.IsText() && c.TrimmedText() == marker {
			return i, true
		}
	}
	return 0, false
}

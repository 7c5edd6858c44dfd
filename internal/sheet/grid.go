// Package sheet provides a small grid-of-cells view over one worksheet so the
// parser does not depend on any particular spreadsheet library.
package sheet

import "strings"

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is one spreadsheet cell. Number is valid only when Kind is CellNumber;
// Text holds the raw cell string for both text and number cells.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

func (c Cell) IsEmpty() bool  { return c.Kind == CellEmpty }
func (c Cell) IsText() bool   { return c.Kind == CellText }
func (c Cell) IsNumber() bool { return c.Kind == CellNumber }

// TrimmedText returns the cell text with surrounding whitespace removed.
func (c Cell) TrimmedText() string { return strings.TrimSpace(c.Text) }

func Text(v string) Cell { return Cell{Kind: CellText, Text: v} }

func Number(v float64, raw string) Cell { return Cell{Kind: CellNumber, Text: raw, Number: v} }

func Empty() Cell { return Cell{} }

// Grid is a rectangular-view of a worksheet. Rows may be ragged underneath;
// Cell returns an empty cell for any out-of-range coordinate.
type Grid struct {
	rows [][]Cell
	cols int
}

func NewGrid(rows [][]Cell) *Grid {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return &Grid{rows: rows, cols: cols}
}

func (g *Grid) NumRows() int { return len(g.rows) }

func (g *Grid) NumCols() int { return g.cols }

func (g *Grid) Cell(row, col int) Cell {
	if row < 0 || row >= len(g.rows) {
		return Cell{}
	}
	r := g.rows[row]
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

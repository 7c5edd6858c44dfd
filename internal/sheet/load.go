package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads one worksheet of an xlsx file into a Grid.
func Load(path string, sheetIndex int) (*Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gridFromFile(f, sheetIndex)
}

// LoadReader reads one worksheet of xlsx content into a Grid.
func LoadReader(r io.Reader, sheetIndex int) (*Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gridFromFile(f, sheetIndex)
}

func gridFromFile(f *excelize.File, sheetIndex int) (*Grid, error) {
	sheets := f.GetSheetList()
	if sheetIndex < 0 || sheetIndex >= len(sheets) {
		return nil, fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", sheetIndex, len(sheets))
	}

	rows, err := f.GetRows(sheets[sheetIndex])
	if err != nil {
		return nil, err
	}

	out := make([][]Cell, 0, len(rows))
	for _, row := range rows {
		cells := make([]Cell, 0, len(row))
		for _, raw := range row {
			cells = append(cells, classify(raw))
		}
		out = append(out, cells)
	}
	return NewGrid(out), nil
}

// classify maps the formatted cell string excelize returns onto the cell
// variant. A value that parses cleanly as a float is treated as numeric;
// thousands separators are not expected in these sheets.
func classify(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty()
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(n, raw)
	}
	return Text(raw)
}

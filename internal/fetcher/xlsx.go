package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// RowsFromXLSX reads one sheet of an XLSX file. The first row after
// SkipRows is the header; every later row becomes a header-keyed map.
// Blank rows are dropped.
func RowsFromXLSX(path string, opts Options) ([]map[string]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var header []string
	var rows []map[string]string
	for i, r := range sheet.Rows {
		if i < opts.SkipRows {
			continue
		}
		cells := rowToStrings(r)
		if header == nil {
			header = cells
			continue
		}
		row := zipHeader(header, cells)
		if !blankRow(row) {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func getSheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

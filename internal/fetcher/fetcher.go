// Package fetcher reads activity sheets from XLSX and CSV files and
// returns their rows as header-keyed maps, the shape the normalizer
// consumes.
package fetcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Options configures a sheet read.
type Options struct {
	SheetIndex int    // XLSX only, default 0
	SheetName  string // XLSX only; overrides SheetIndex when set
	SkipRows   int    // extra rows to skip before the header row
	Delimiter  rune   // CSV only, default ','
}

// RowsFromFile reads an activity sheet, dispatching on file extension.
func RowsFromFile(path string, opts Options) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return RowsFromXLSX(path, opts)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: open csv")
		}
		defer f.Close()
		return RowsFromCSV(f, opts)
	default:
		return nil, eris.Errorf("fetcher: unsupported file type %q", filepath.Ext(path))
	}
}

// zipHeader maps one raw row onto the header, ignoring trailing cells
// beyond the header width. Short rows leave the remaining fields empty.
func zipHeader(header, cells []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if i < len(cells) {
			row[h] = strings.TrimSpace(cells[i])
		} else {
			row[h] = ""
		}
	}
	return row
}

// blankRow reports whether every cell is empty.
func blankRow(row map[string]string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

package fetcher

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// RowsFromCSV reads CSV data. The first row after SkipRows is the header;
// every later row becomes a header-keyed map. Blank rows are dropped.
func RowsFromCSV(r io.Reader, opts Options) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // sheets have ragged rows
	reader.LazyQuotes = true

	var header []string
	var rows []map[string]string
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}

		line++
		if line <= opts.SkipRows {
			continue
		}
		if header == nil {
			header = record
			continue
		}
		row := zipHeader(header, record)
		if !blankRow(row) {
			rows = append(rows, row)
		}
	}
}

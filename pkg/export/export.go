// Package export writes time-indexed tables to interchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/assetsim/core/timeseries"
)

// WriteCSV writes the table to w with an index column first. Missing values
// are written as empty cells.
func WriteCSV(w io.Writer, tbl *timeseries.Table) error {
	cw := csv.NewWriter(w)
	columns := tbl.Columns()
	header := append([]string{"index"}, columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, ts := range tbl.Index() {
		rec := make([]string, 0, len(header))
		rec = append(rec, ts.String())
		for _, name := range columns {
			if v, ok := tbl.At(ts, name); ok {
				rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table to w as an array of row objects.
func WriteJSON(w io.Writer, tbl *timeseries.Table) error {
	columns := tbl.Columns()
	rows := make([]map[string]any, 0, tbl.Len())
	for _, ts := range tbl.Index() {
		row := map[string]any{"index": ts.String()}
		for _, name := range columns {
			if v, ok := tbl.At(ts, name); ok {
				row[name] = v
			} else {
				row[name] = nil
			}
		}
		rows = append(rows, row)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(rows)
}

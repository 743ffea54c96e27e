package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/quillon/finreport/recordset"
)

// extractCSV parses a delimited-text table. The first record is the header;
// a column is numeric when every non-empty cell parses as a float.
func extractCSV(path string) (*recordset.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows padded below
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	header := records[0]
	rows := records[1:]
	return buildTable(header, rows)
}

// buildTable assembles a typed RecordSet from a header and string rows.
// Shared between the csv and xlsx extractors.
func buildTable(header []string, rows [][]string) (*recordset.RecordSet, error) {
	cols := make([]recordset.Column, len(header))
	for i, name := range header {
		cols[i] = recordset.Column{
			Name:    strings.TrimSpace(name),
			Numeric: columnIsNumeric(rows, i),
			Cells:   make([]recordset.Value, 0, len(rows)),
		}
	}

	for _, row := range rows {
		for i := range cols {
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			cols[i].Cells = append(cols[i].Cells, parseCell(cell, cols[i].Numeric))
		}
	}

	return recordset.New(cols...)
}

// columnIsNumeric reports whether every non-empty cell in column i parses
// as a float. A column with only empty cells is not numeric.
func columnIsNumeric(rows [][]string, i int) bool {
	any := false
	for _, row := range rows {
		if i >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
		any = true
	}
	return any
}

func parseCell(cell string, numeric bool) recordset.Value {
	if cell == "" {
		return recordset.Absent
	}
	if numeric {
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return recordset.Absent
		}
		return recordset.Number(f)
	}
	return recordset.Text(cell)
}

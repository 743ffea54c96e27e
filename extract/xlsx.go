package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quillon/finreport/recordset"
)

// extractXLSX parses a spreadsheet workbook by reading the first worksheet
// from the ZIP archive. Only the OOXML container layout is interpreted:
// shared strings are resolved, the first row is the header, and column
// types are inferred the same way as for csv.
func extractXLSX(path string) (*recordset.RecordSet, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	shared, err := readSharedStrings(&r.Reader)
	if err != nil {
		return nil, err
	}

	sheet := findZipFile(&r.Reader, "xl/worksheets/sheet1.xml")
	if sheet == nil {
		return nil, fmt.Errorf("xl/worksheets/sheet1.xml not found in archive")
	}

	rows, err := readSheetRows(sheet, shared)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	return buildTable(rows[0], rows[1:])
}

func findZipFile(r *zip.Reader, name string) *zip.File {
	for _, f := range r.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// readSharedStrings parses xl/sharedStrings.xml into an indexed string list.
// The file is optional; workbooks without text cells omit it.
func readSharedStrings(r *zip.Reader) ([]string, error) {
	f := findZipFile(r, "xl/sharedStrings.xml")
	if f == nil {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open sharedStrings.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var shared []string
	var current strings.Builder
	var inItem, inText bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inItem = true
				current.Reset()
			case "t":
				inText = inItem
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "si":
				inItem = false
				shared = append(shared, current.String())
			}
		}
	}
	return shared, nil
}

// readSheetRows walks the worksheet XML and returns the cell grid as
// strings, aligned by cell reference so sparse rows stay rectangular.
func readSheetRows(f *zip.File, shared []string) ([][]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open worksheet: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var rows [][]string
	var row map[int]string
	var cellCol int
	var cellType string
	var cellValue strings.Builder
	var inValue bool
	maxCol := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("parse worksheet: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				row = make(map[int]string)
			case "c":
				cellCol = len(row)
				cellType = ""
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "r":
						cellCol = refColumn(attr.Value)
					case "t":
						cellType = attr.Value
					}
				}
				cellValue.Reset()
			case "v", "t":
				inValue = row != nil
			}

		case xml.CharData:
			if inValue {
				cellValue.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "c":
				if row == nil {
					continue
				}
				val := cellValue.String()
				if cellType == "s" {
					idx, err := strconv.Atoi(strings.TrimSpace(val))
					if err == nil && idx >= 0 && idx < len(shared) {
						val = shared[idx]
					}
				}
				row[cellCol] = val
				if cellCol+1 > maxCol {
					maxCol = cellCol + 1
				}
			case "row":
				if len(row) > 0 {
					rows = append(rows, flattenRow(row, maxCol))
				}
				row = nil
			}
		}
	}

	// Pad earlier rows to the final width.
	for i, r := range rows {
		if len(r) < maxCol {
			padded := make([]string, maxCol)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows, nil
}

func flattenRow(cells map[int]string, width int) []string {
	out := make([]string, width)
	for col, v := range cells {
		if col >= 0 && col < width {
			out[col] = v
		}
	}
	return out
}

// refColumn converts a cell reference like "B3" to a zero-based column index.
func refColumn(ref string) int {
	col := 0
	for _, ch := range ref {
		if ch < 'A' || ch > 'Z' {
			break
		}
		col = col*26 + int(ch-'A') + 1
	}
	if col == 0 {
		return 0
	}
	return col - 1
}

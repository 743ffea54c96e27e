package ingest

import (
	"fmt"
	"strings"

	"github.com/quillon/finreport/recordset"
)

// previewRunes caps the content preview for text-extracted files.
const previewRunes = 300

// FileSummary describes one successfully extracted source file.
type FileSummary struct {
	Name    string
	Rows    int
	Cols    int
	Text    bool     // single-column text extraction
	Preview string   // content preview, text files only
	Columns []string // column names, tabular files only
	Numeric []string // numeric column names, tabular files only
	Stats   string   // describe table for numeric columns
}

func summarizeFile(name string, rs *recordset.RecordSet) FileSummary {
	rows, cols := rs.Shape()
	s := FileSummary{Name: name, Rows: rows, Cols: cols}

	if rs.IsTextDocument() {
		s.Text = true
		s.Preview = preview(rs.Column(recordset.ContentColumn).Cells[0].String())
		return s
	}

	s.Columns = rs.ColumnNames()
	s.Numeric = rs.NumericColumns()
	if len(s.Numeric) > 0 {
		s.Stats = rs.DescribeTable(s.Numeric)
	}
	return s
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

// String renders the per-file summary block.
func (s FileSummary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nFile: %s\n", s.Name)
	fmt.Fprintf(&sb, "Shape: (%d, %d)\n", s.Rows, s.Cols)

	if s.Text {
		sb.WriteString("Type: Text document\n")
		fmt.Fprintf(&sb, "Preview: %s\n", s.Preview)
		return sb.String()
	}

	fmt.Fprintf(&sb, "Columns: %s\n", strings.Join(s.Columns, ", "))
	if len(s.Numeric) > 0 {
		fmt.Fprintf(&sb, "Numeric columns: %s\n", strings.Join(s.Numeric, ", "))
		fmt.Fprintf(&sb, "\nStatistics:\n%s", s.Stats)
	}
	return sb.String()
}

// DataContext renders the data overview text embedded in the first
// narrative stage's prompt: totals, key metrics, and per-file detail.
func (r *Result) DataContext() string {
	rows, cols := r.Combined.Shape()

	var files strings.Builder
	for _, s := range r.Summaries {
		files.WriteString(s.String())
	}

	return fmt.Sprintf(`FINANCIAL DATA OVERVIEW:
========================
Total files processed: %d
Combined dataset shape: (%d, %d)
Number of records: %d
%s
DETAILED FILE ANALYSIS:
%s`, r.InputCount, rows, cols, rows, r.Metrics.Summary(), files.String())
}

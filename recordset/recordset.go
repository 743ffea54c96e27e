// Package recordset provides the uniform tabular structure produced by
// ingestion: named columns of numeric or text cells with aligned rows.
//
// Multiple RecordSets are merged with Concat, which takes the union of
// columns and fills missing cells with an explicit absent marker, so a
// combined set built from heterogeneous source files stays rectangular.
package recordset

import "fmt"

type valueKind int

const (
	kindAbsent valueKind = iota
	kindNumber
	kindText
)

// Value is a single cell: a number, a text string, or absent.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Absent is the explicit missing-value marker used to pad column unions.
var Absent = Value{}

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: kindNumber, num: f} }

// Text returns a text cell.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// IsAbsent reports whether the cell holds no value.
func (v Value) IsAbsent() bool { return v.kind == kindAbsent }

// Float returns the numeric value and whether the cell is numeric.
func (v Value) Float() (float64, bool) { return v.num, v.kind == kindNumber }

// String renders the cell for summaries; absent cells render empty.
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return fmt.Sprintf("%g", v.num)
	case kindText:
		return v.text
	default:
		return ""
	}
}

// Column is an ordered sequence of cells under one name.
type Column struct {
	Name    string
	Numeric bool // type inferred at extraction time
	Cells   []Value
}

// RecordSet is an ordered set of equally sized columns.
type RecordSet struct {
	Columns []Column
}

// New builds a RecordSet, enforcing that every column has the same length.
func New(columns ...Column) (*RecordSet, error) {
	if len(columns) > 0 {
		n := len(columns[0].Cells)
		for _, c := range columns[1:] {
			if len(c.Cells) != n {
				return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, len(c.Cells), n)
			}
		}
	}
	return &RecordSet{Columns: columns}, nil
}

// Rows returns the number of rows.
func (r *RecordSet) Rows() int {
	if len(r.Columns) == 0 {
		return 0
	}
	return len(r.Columns[0].Cells)
}

// Shape returns (rows, columns).
func (r *RecordSet) Shape() (int, int) {
	return r.Rows(), len(r.Columns)
}

// ColumnNames returns the column names in order.
func (r *RecordSet) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if it does not exist.
func (r *RecordSet) Column(name string) *Column {
	for i := range r.Columns {
		if r.Columns[i].Name == name {
			return &r.Columns[i]
		}
	}
	return nil
}

// NumericColumns returns the names of numeric columns in order.
func (r *RecordSet) NumericColumns() []string {
	var names []string
	for _, c := range r.Columns {
		if c.Numeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// IsTextDocument reports whether the set is a single-column text extraction
// (the shape produced for page-flow documents).
func (r *RecordSet) IsTextDocument() bool {
	return len(r.Columns) == 1 && r.Columns[0].Name == ContentColumn && !r.Columns[0].Numeric
}

// ContentColumn is the column name used for whole-document text extractions.
const ContentColumn = "content"

// Combined is the union of the RecordSets of all input files for one run.
// Row order is source-file order, then intra-file row order.
type Combined struct {
	RecordSet
}

// Concat merges the given sets: column union in first-seen order, rows
// appended in input order, missing cells filled with Absent. A column is
// numeric in the result only if it is numeric in every set that carries it.
func Concat(sets []*RecordSet) *Combined {
	var names []string
	numeric := make(map[string]bool)
	seen := make(map[string]bool)
	total := 0

	for _, s := range sets {
		total += s.Rows()
		for _, c := range s.Columns {
			if !seen[c.Name] {
				seen[c.Name] = true
				names = append(names, c.Name)
				numeric[c.Name] = c.Numeric
			} else if !c.Numeric {
				numeric[c.Name] = false
			}
		}
	}

	out := make([]Column, len(names))
	for i, name := range names {
		out[i] = Column{Name: name, Numeric: numeric[name], Cells: make([]Value, 0, total)}
	}

	for _, s := range sets {
		rows := s.Rows()
		for i, name := range names {
			src := s.Column(name)
			if src == nil {
				for r := 0; r < rows; r++ {
					out[i].Cells = append(out[i].Cells, Absent)
				}
				continue
			}
			out[i].Cells = append(out[i].Cells, src.Cells...)
		}
	}

	return &Combined{RecordSet{Columns: out}}
}

// Mean returns the mean of the named column's non-absent numeric cells.
// ok is false when the column is missing or holds no numeric values.
func (r *RecordSet) Mean(name string) (float64, bool) {
	col := r.Column(name)
	if col == nil {
		return 0, false
	}
	stats, ok := col.Describe()
	if !ok {
		return 0, false
	}
	return stats.Mean, true
}

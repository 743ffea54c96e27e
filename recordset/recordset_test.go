package recordset

import (
	"math"
	"testing"
)

func numCol(name string, vals ...float64) Column {
	cells := make([]Value, len(vals))
	for i, v := range vals {
		cells[i] = Number(v)
	}
	return Column{Name: name, Numeric: true, Cells: cells}
}

func textCol(name string, vals ...string) Column {
	cells := make([]Value, len(vals))
	for i, v := range vals {
		cells[i] = Text(v)
	}
	return Column{Name: name, Cells: cells}
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New(numCol("a", 1, 2), numCol("b", 1))
	if err == nil {
		t.Fatal("expected error for unequal column lengths")
	}
}

func TestShape(t *testing.T) {
	rs, err := New(numCol("a", 1, 2, 3), textCol("b", "x", "y", "z"))
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := rs.Shape()
	if rows != 3 || cols != 2 {
		t.Fatalf("Shape() = (%d, %d), want (3, 2)", rows, cols)
	}
	if got := rs.NumericColumns(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("NumericColumns() = %v, want [a]", got)
	}
}

func TestConcatUnionAndRowCount(t *testing.T) {
	a, _ := New(numCol("x", 1, 2), numCol("y", 10, 20))
	b, _ := New(numCol("y", 30), textCol("z", "hello"))
	c, _ := New(numCol("x", 3, 4, 5))

	combined := Concat([]*RecordSet{a, b, c})

	rows, cols := combined.Shape()
	if rows != 6 {
		t.Errorf("combined rows = %d, want sum of inputs 6", rows)
	}
	if cols != 3 {
		t.Errorf("combined cols = %d, want union 3", cols)
	}
	if names := combined.ColumnNames(); names[0] != "x" || names[1] != "y" || names[2] != "z" {
		t.Errorf("column order = %v, want first-seen [x y z]", names)
	}

	// Rows from b carry no x: cells 2 and beyond of x until c's rows.
	x := combined.Column("x")
	if !x.Cells[2].IsAbsent() {
		t.Error("expected absent marker for x in rows contributed by b")
	}
	if v, ok := x.Cells[3].Float(); !ok || v != 3 {
		t.Errorf("x row 3 = %v, want 3", x.Cells[3])
	}
}

func TestConcatNumericDemotion(t *testing.T) {
	a, _ := New(numCol("v", 1))
	b, _ := New(textCol("v", "n/a"))
	combined := Concat([]*RecordSet{a, b})
	if combined.Column("v").Numeric {
		t.Error("column mixed numeric/text should not stay numeric")
	}
}

func TestDescribe(t *testing.T) {
	col := numCol("v", 100, 200, 150, 180)
	stats, ok := col.Describe()
	if !ok {
		t.Fatal("expected stats")
	}
	if stats.Count != 4 {
		t.Errorf("count = %d, want 4", stats.Count)
	}
	if math.Abs(stats.Mean-157.5) > 1e-9 {
		t.Errorf("mean = %v, want 157.5", stats.Mean)
	}
	if stats.Min != 100 || stats.Max != 200 {
		t.Errorf("min/max = %v/%v, want 100/200", stats.Min, stats.Max)
	}
	if math.Abs(stats.Median-165) > 1e-9 {
		t.Errorf("median = %v, want 165", stats.Median)
	}
	// Sample std of {100,150,180,200}.
	want := math.Sqrt((57.5*57.5 + 7.5*7.5 + 22.5*22.5 + 42.5*42.5) / 3)
	if math.Abs(stats.Std-want) > 1e-9 {
		t.Errorf("std = %v, want %v", stats.Std, want)
	}
}

func TestDescribeSkipsAbsent(t *testing.T) {
	col := Column{Name: "v", Numeric: true, Cells: []Value{Number(10), Absent, Number(20)}}
	stats, ok := col.Describe()
	if !ok || stats.Count != 2 {
		t.Fatalf("count = %d, want 2 (absent skipped)", stats.Count)
	}
	if stats.Mean != 15 {
		t.Errorf("mean = %v, want 15", stats.Mean)
	}
}

func TestDescribeEmpty(t *testing.T) {
	col := Column{Name: "v", Numeric: true}
	if _, ok := col.Describe(); ok {
		t.Error("expected no stats for empty column")
	}
}

func TestMean(t *testing.T) {
	rs, _ := New(numCol("a", 2, 4))
	if m, ok := rs.Mean("a"); !ok || m != 3 {
		t.Errorf("Mean(a) = %v, %v, want 3, true", m, ok)
	}
	if _, ok := rs.Mean("missing"); ok {
		t.Error("expected ok=false for missing column")
	}
}

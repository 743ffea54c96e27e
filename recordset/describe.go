package recordset

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Stats holds the descriptive statistics of a numeric column. Quartiles use
// linear interpolation between closest ranks.
type Stats struct {
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation (n-1)
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe computes descriptive statistics over the column's non-absent
// numeric cells. ok is false when no numeric values are present.
func (c *Column) Describe() (Stats, bool) {
	var vals []float64
	for _, cell := range c.Cells {
		if f, isNum := cell.Float(); isNum {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return Stats{}, false
	}

	sort.Float64s(vals)
	n := len(vals)

	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(n)

	std := 0.0
	if n > 1 {
		ss := 0.0
		for _, v := range vals {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return Stats{
		Count:  n,
		Mean:   mean,
		Std:    std,
		Min:    vals[0],
		Q25:    percentile(vals, 0.25),
		Median: percentile(vals, 0.50),
		Q75:    percentile(vals, 0.75),
		Max:    vals[n-1],
	}, true
}

// percentile interpolates linearly over a sorted slice.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// DescribeTable renders the describe output for the named numeric columns,
// one block per column.
func (r *RecordSet) DescribeTable(names []string) string {
	var sb strings.Builder
	for _, name := range names {
		col := r.Column(name)
		if col == nil {
			continue
		}
		stats, ok := col.Describe()
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s:\n", name)
		fmt.Fprintf(&sb, "  count  %d\n", stats.Count)
		fmt.Fprintf(&sb, "  mean   %.2f\n", stats.Mean)
		fmt.Fprintf(&sb, "  std    %.2f\n", stats.Std)
		fmt.Fprintf(&sb, "  min    %.2f\n", stats.Min)
		fmt.Fprintf(&sb, "  25%%    %.2f\n", stats.Q25)
		fmt.Fprintf(&sb, "  50%%    %.2f\n", stats.Median)
		fmt.Fprintf(&sb, "  75%%    %.2f\n", stats.Q75)
		fmt.Fprintf(&sb, "  max    %.2f\n", stats.Max)
	}
	return sb.String()
}

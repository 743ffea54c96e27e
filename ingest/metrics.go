package ingest

import (
	"fmt"
	"strings"

	"github.com/quillon/finreport/recordset"
)

// Well-known column names carrying the domain metrics. Values are reported
// in thousands, following the source datasets.
const (
	colRevenue     = "Totals.Revenue"
	colExpenditure = "Totals.Expenditure"
	colDebt        = "Totals. Debt at end of fiscal year"
	colEducation   = "Details.Education.Education Total"
)

// Balance classifications.
const (
	ClassDeficit = "DEFICIT"
	ClassSurplus = "SURPLUS"
)

// MetricSet holds the derived numeric scalars of one run. Each metric group
// is present only when its source columns exist in the combined set; absent
// columns omit the group, never an error.
type MetricSet struct {
	AvgRevenue     float64
	AvgExpenditure float64
	DeficitPct     float64
	Classification string // ClassDeficit when DeficitPct > 0, else ClassSurplus
	HasBalance     bool

	AvgDebt       float64
	DebtToRevenue float64
	HasDebt       bool

	AvgEducation float64
	EducationPct float64 // share of expenditure
	HasEducation bool
}

// ComputeMetrics derives the metric set from a combined record set. It is
// computed once per run and read-only afterward.
func ComputeMetrics(c *recordset.Combined) *MetricSet {
	m := &MetricSet{}

	avgRevenue, okR := c.Mean(colRevenue)
	avgExpenditure, okE := c.Mean(colExpenditure)
	if !okR || !okE || avgRevenue == 0 {
		return m
	}

	m.AvgRevenue = avgRevenue
	m.AvgExpenditure = avgExpenditure
	m.DeficitPct = (avgExpenditure - avgRevenue) / avgRevenue * 100
	if m.DeficitPct > 0 {
		m.Classification = ClassDeficit
	} else {
		m.Classification = ClassSurplus
	}
	m.HasBalance = true

	if avgDebt, ok := c.Mean(colDebt); ok {
		m.AvgDebt = avgDebt
		m.DebtToRevenue = avgDebt / avgRevenue
		m.HasDebt = true
	}

	if avgEducation, ok := c.Mean(colEducation); ok && avgExpenditure != 0 {
		m.AvgEducation = avgEducation
		m.EducationPct = avgEducation / avgExpenditure * 100
		m.HasEducation = true
	}

	return m
}

// Summary renders the key-metrics block embedded in the data overview.
// Empty when no metric group is present.
func (m *MetricSet) Summary() string {
	if !m.HasBalance {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("CALCULATED KEY METRICS:\n")
	fmt.Fprintf(&sb, "- Average Revenue: $%s (in thousands)\n", groupDigits(m.AvgRevenue))
	fmt.Fprintf(&sb, "- Average Expenditure: $%s (in thousands)\n", groupDigits(m.AvgExpenditure))
	fmt.Fprintf(&sb, "- Average Deficit/Surplus: %.1f%% (%s)\n", m.DeficitPct, m.Classification)
	if m.HasDebt {
		fmt.Fprintf(&sb, "- Average Debt: $%s (in thousands)\n", groupDigits(m.AvgDebt))
		fmt.Fprintf(&sb, "- Debt-to-Revenue Ratio: %.2f\n", m.DebtToRevenue)
	}
	if m.HasEducation {
		fmt.Fprintf(&sb, "- Education Spending: $%s (%.1f%% of expenditure)\n", groupDigits(m.AvgEducation), m.EducationPct)
	}
	return sb.String()
}

// groupDigits formats a rounded amount with comma thousand separators.
func groupDigits(f float64) string {
	s := fmt.Sprintf("%.0f", f)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quillon/finreport/ingest"
	"github.com/quillon/finreport/report"
)

// ComposeReport flattens the stage outputs and the per-file summaries
// into the final report text: a title banner, then one titled block per
// stage, markdown markup stripped from every block.
func ComposeReport(res *ingest.Result, data *DataOutput, risk *RiskOutput, strat *StrategyOutput) string {
	lines := []string{
		report.DocumentTitle,
		strings.Repeat("=", 60),
		"",
		"Data Processing Summary:",
		data.RawSummary,
		"",
		"Data Analysis Insights:",
		data.Narrative,
		"",
		"Risk Evaluation:",
		"Calculated Risk Score: " + formatScore(risk.RiskScore) + "/100",
		"",
		"Risk Assessment Details:",
		risk.Narrative,
		"",
		"Market Strategy Recommendations:",
		strat.Narrative,
		"",
		"Source File Details:",
	}
	for _, s := range res.Summaries {
		lines = append(lines, s.String())
	}
	lines = append(lines, "")

	cleaned := make([]string, len(lines))
	for i, l := range lines {
		cleaned[i] = StripMarkdown(l)
	}
	return strings.Join(cleaned, "\n")
}

// formatScore renders the two-decimal risk score without trailing zeros.
func formatScore(score float64) string {
	return strings.TrimRight(strings.TrimRight(strconv.FormatFloat(score, 'f', 2, 64), "0"), ".")
}

var (
	reBold   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic = regexp.MustCompile(`\*(.*?)\*`)
	reHeader = regexp.MustCompile(`#+\s*`)
	reBullet = regexp.MustCompile(`(?m)^[-•]\s*`)
	reCode   = regexp.MustCompile("`([^`]*)`")
)

// StripMarkdown removes markdown emphasis, headers, leading bullets, and
// inline code spans, leaving the enclosed text. Applying it to already
// plain text is a no-op, so the transform is idempotent.
func StripMarkdown(text string) string {
	text = reBold.ReplaceAllString(text, "$1")
	text = reItalic.ReplaceAllString(text, "$1")
	text = reHeader.ReplaceAllString(text, "")
	text = reBullet.ReplaceAllString(text, "")
	text = reCode.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

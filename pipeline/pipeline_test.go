package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quillon/finreport/ingest"
	"github.com/quillon/finreport/narrative"
	"github.com/quillon/finreport/recordset"
)

// fakeCompleter records prompts and plays back scripted responses.
type fakeCompleter struct {
	prompts   []string
	responses []string
	err       error
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (narrative.Response, error) {
	if f.err != nil {
		return narrative.Response{}, f.err
	}
	f.prompts = append(f.prompts, prompt)
	if len(f.prompts) > len(f.responses) {
		return narrative.Plain("ok"), nil
	}
	return narrative.Content(f.responses[len(f.prompts)-1]), nil
}

func numCol(name string, vals ...float64) recordset.Column {
	cells := make([]recordset.Value, len(vals))
	for i, v := range vals {
		cells[i] = recordset.Number(v)
	}
	return recordset.Column{Name: name, Numeric: true, Cells: cells}
}

func fixtureResult(t *testing.T) *ingest.Result {
	t.Helper()
	rs, err := recordset.New(
		numCol("Totals.Revenue", 100, 200),
		numCol("Totals.Expenditure", 150, 180),
	)
	if err != nil {
		t.Fatal(err)
	}
	combined := recordset.Concat([]*recordset.RecordSet{rs})
	return &ingest.Result{
		Combined:   combined,
		Metrics:    ingest.ComputeMetrics(combined),
		Summaries:  []ingest.FileSummary{{Name: "budget.csv", Rows: 2, Cols: 2}},
		InputCount: 1,
	}
}

func TestScore(t *testing.T) {
	cases := []struct {
		records int
		want    float64
	}{
		{0, 0},
		{1, 0.1},
		{2, 0.2},
		{3, 0.3},
		{123, 12.3},
		{999, 99.9},
		{1000, 100},
		{50000, 100},
	}
	for _, tc := range cases {
		if got := Score(tc.records); got != tc.want {
			t.Errorf("Score(%d) = %v, want %v", tc.records, got, tc.want)
		}
	}
}

func TestStagesThreadOutputsForward(t *testing.T) {
	fake := &fakeCompleter{responses: []string{"data narrative", "risk narrative", "strategy narrative"}}
	stages := New(Config{Completer: fake})
	res := fixtureResult(t)
	ctx := context.Background()

	data, err := stages.DataStage(ctx, res)
	if err != nil {
		t.Fatalf("DataStage: %v", err)
	}
	if data.Narrative != "data narrative" {
		t.Errorf("data narrative = %q", data.Narrative)
	}
	if want := "Read 1 files. Combined dataset has shape (2, 2)."; data.RawSummary != want {
		t.Errorf("RawSummary = %q, want %q", data.RawSummary, want)
	}

	risk, err := stages.RiskStage(ctx, data)
	if err != nil {
		t.Fatalf("RiskStage: %v", err)
	}
	if risk.RiskScore != 0.2 {
		t.Errorf("RiskScore = %v, want 0.2", risk.RiskScore)
	}

	strat, err := stages.StrategyStage(ctx, data, risk)
	if err != nil {
		t.Fatalf("StrategyStage: %v", err)
	}
	if strat.Narrative != "strategy narrative" {
		t.Errorf("strategy narrative = %q", strat.Narrative)
	}

	if len(fake.prompts) != 3 {
		t.Fatalf("expected 3 completion calls, got %d", len(fake.prompts))
	}
	for i, want := range []string{
		"shape (2, 2)",
		"data narrative",
		"risk narrative",
	} {
		if !strings.Contains(fake.prompts[i], want) {
			t.Errorf("prompt %d missing %q:\n%s", i+1, want, fake.prompts[i])
		}
	}
	// The strategy prompt also threads the data stage narrative forward.
	if !strings.Contains(fake.prompts[2], "data narrative") {
		t.Errorf("strategy prompt missing data narrative")
	}
	if !strings.Contains(fake.prompts[1], "Initial risk score: 0.20/100") {
		t.Errorf("risk prompt missing score:\n%s", fake.prompts[1])
	}
}

func TestStageFailurePropagates(t *testing.T) {
	boom := errors.New("service down")
	stages := New(Config{Completer: &fakeCompleter{err: boom}})

	_, err := stages.DataStage(context.Background(), fixtureResult(t))
	if !errors.Is(err, boom) {
		t.Fatalf("DataStage error = %v, want wrapped %v", err, boom)
	}
}

func TestVolatilityLines(t *testing.T) {
	rs, err := recordset.New(
		numCol("a", 100, 200),
		numCol("zero", -5, 5),
		numCol("b", 10, 10),
		numCol("fourth", 1, 2),
	)
	if err != nil {
		t.Fatal(err)
	}

	got := volatilityLines(rs)
	if !strings.Contains(got, "- a: CV = ") {
		t.Errorf("missing column a: %q", got)
	}
	if strings.Contains(got, "zero") {
		t.Errorf("zero-mean column not skipped: %q", got)
	}
	if strings.Contains(got, "fourth") {
		t.Errorf("more than three columns considered: %q", got)
	}
	if !strings.Contains(got, "- b: CV = 0.00%") {
		t.Errorf("constant column CV: %q", got)
	}
}

func TestComposeReportOrder(t *testing.T) {
	res := fixtureResult(t)
	text := ComposeReport(res,
		&DataOutput{Combined: res.Combined, RawSummary: "Read 1 files.", Narrative: "**bold** insight"},
		&RiskOutput{RiskScore: 0.2, Narrative: "risk text"},
		&StrategyOutput{Narrative: "strategy text"},
	)

	blocks := []string{
		"FINANCIAL ANALYSIS REPORT",
		"Data Processing Summary:",
		"Data Analysis Insights:",
		"bold insight",
		"Risk Evaluation:",
		"Calculated Risk Score: 0.2/100",
		"Risk Assessment Details:",
		"Market Strategy Recommendations:",
		"Source File Details:",
		"budget.csv",
	}
	last := -1
	for _, want := range blocks {
		i := strings.Index(text, want)
		if i < 0 {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
		if i < last {
			t.Errorf("%q out of order", want)
		}
		last = i
	}
	if strings.Contains(text, "**") {
		t.Errorf("markdown not stripped:\n%s", text)
	}
}

func TestStripMarkdown(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"**bold** text", "bold text"},
		{"*italic* text", "italic text"},
		{"## Header line", "Header line"},
		{"- bullet item", "bullet item"},
		{"• bullet item", "bullet item"},
		{"`code` span", "code span"},
		{"plain already", "plain already"},
		{"  padded  ", "padded"},
	}
	for _, tc := range cases {
		if got := StripMarkdown(tc.in); got != tc.want {
			t.Errorf("StripMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripMarkdownIdempotent(t *testing.T) {
	in := "## **Summary** with `metrics` and *notes*\n- first\n- second"
	once := StripMarkdown(in)
	if twice := StripMarkdown(once); twice != once {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

// Package pipeline sequences the three narrative stages of a report run
// and flattens their output into plain report text. Stages are pure
// functions of the inputs threaded into them plus one completion call;
// a failed completion aborts the run, there is no retry.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/quillon/finreport/ingest"
	"github.com/quillon/finreport/narrative"
	"github.com/quillon/finreport/recordset"
)

// Config carries the stage dependencies.
type Config struct {
	Completer narrative.Completer

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Stages runs the three narrative stages in order.
type Stages struct {
	completer narrative.Completer
	logger    *slog.Logger
}

func New(cfg Config) *Stages {
	cfg.defaults()
	return &Stages{completer: cfg.Completer, logger: cfg.Logger}
}

// DataOutput is what DataStage threads forward.
type DataOutput struct {
	Combined   *recordset.Combined
	RawSummary string
	Narrative  string
}

// DataStage asks the completion service for a first-pass analysis of the
// combined dataset. The prompt embeds the shape, the column list, and the
// ingestion overview with its per-file statistics.
func (s *Stages) DataStage(ctx context.Context, res *ingest.Result) (*DataOutput, error) {
	rows, cols := res.Combined.Shape()
	prompt := fmt.Sprintf(narrative.DataPrompt,
		rows, cols,
		strings.Join(res.Combined.ColumnNames(), ", "),
		res.DataContext())

	s.logger.Info("data stage", "rows", rows, "cols", cols)
	resp, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("data stage: %w", err)
	}

	return &DataOutput{
		Combined:   res.Combined,
		RawSummary: fmt.Sprintf("Read %d files. Combined dataset has shape (%d, %d).", res.InputCount, rows, cols),
		Narrative:  resp.Text(),
	}, nil
}

// RiskOutput is what RiskStage threads forward.
type RiskOutput struct {
	RiskScore float64
	Narrative string
}

// Score is a bounded linear proxy for exposure: a tenth of a point per
// record, rounded to two decimals and capped at 100. It is not a
// statistical model; the cap makes large datasets indistinguishable.
func Score(records int) float64 {
	return math.Min(100, math.Round(float64(records)*0.1*100)/100)
}

// RiskStage computes the deterministic risk score and per-column
// volatility, then asks for a risk narrative grounded in the data stage's
// commentary.
func (s *Stages) RiskStage(ctx context.Context, data *DataOutput) (*RiskOutput, error) {
	count := data.Combined.Rows()
	score := Score(count)
	prompt := fmt.Sprintf(narrative.RiskPrompt,
		count, score,
		volatilityLines(&data.Combined.RecordSet),
		data.Narrative)

	s.logger.Info("risk stage", "records", count, "score", score)
	resp, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("risk stage: %w", err)
	}

	return &RiskOutput{RiskScore: score, Narrative: resp.Text()}, nil
}

// StrategyOutput is the final stage's result.
type StrategyOutput struct {
	Narrative string
}

// StrategyStage asks for strategy recommendations based on the risk score
// and both earlier narratives.
func (s *Stages) StrategyStage(ctx context.Context, data *DataOutput, risk *RiskOutput) (*StrategyOutput, error) {
	prompt := fmt.Sprintf(narrative.StrategyPrompt,
		risk.RiskScore, risk.Narrative, data.Narrative)

	s.logger.Info("strategy stage", "score", risk.RiskScore)
	resp, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("strategy stage: %w", err)
	}

	return &StrategyOutput{Narrative: resp.Text()}, nil
}

// volatilityLines renders the coefficient of variation for up to the
// first three numeric columns. Columns with zero mean are skipped since
// CV is undefined there.
func volatilityLines(rs *recordset.RecordSet) string {
	numeric := rs.NumericColumns()
	if len(numeric) > 3 {
		numeric = numeric[:3]
	}

	var sb strings.Builder
	for _, name := range numeric {
		stats, ok := rs.Column(name).Describe()
		if !ok || stats.Mean == 0 {
			continue
		}
		cv := stats.Std / math.Abs(stats.Mean) * 100
		fmt.Fprintf(&sb, "\n- %s: CV = %.2f%%", name, cv)
	}
	return sb.String()
}

// Package finreport generates a narrative financial analysis report from a
// set of input documents: extraction, metric computation, three external
// narrative stages, and a paginated PDF.
package finreport

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/quillon/finreport/extract"
	"github.com/quillon/finreport/ingest"
	"github.com/quillon/finreport/narrative"
	"github.com/quillon/finreport/pipeline"
	"github.com/quillon/finreport/report"
	"github.com/quillon/finreport/runlog"
)

// PipelineConfig wires the pipeline's collaborators.
type PipelineConfig struct {
	Completer narrative.Completer
	Extract   extract.Config
	Render    report.RenderConfig

	// Journal is optional; a nil store disables run journaling.
	Journal *runlog.Store

	Logger *slog.Logger
}

func (c *PipelineConfig) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pipeline is the programmatic entry point for one report run. It is a
// sequential single-run object: callers must serialize Run invocations or
// build a fresh Pipeline per concurrent run.
type Pipeline struct {
	extractor *extract.Extractor
	ingestor  *ingest.Ingestor
	stages    *pipeline.Stages
	renderer  *report.Renderer
	journal   *runlog.Store
	logger    *slog.Logger
}

// NewPipeline assembles a Pipeline from the given collaborators.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	cfg.defaults()
	ex := extract.New(cfg.Extract)
	return &Pipeline{
		extractor: ex,
		ingestor: ingest.New(ingest.Config{
			Extractor: ex,
			Logger:    cfg.Logger,
		}),
		stages:   pipeline.New(pipeline.Config{Completer: cfg.Completer, Logger: cfg.Logger}),
		renderer: report.NewRenderer(cfg.Render),
		journal:  cfg.Journal,
		logger:   cfg.Logger,
	}
}

// Run ingests the input paths, runs the three narrative stages in order,
// and renders the report to outPath. Returns the output path. Ingestion
// soft-fails individual files; a failed narrative call aborts the run.
func (p *Pipeline) Run(ctx context.Context, paths []string, outPath string) (string, error) {
	runID := newRunID()
	p.logger.Info("run started", "run_id", runID, "inputs", len(paths))
	p.journal.RunStarted(ctx, runID, len(paths))

	res, err := p.ingestor.Ingest(ctx, paths)
	if err != nil {
		p.journal.RunFinished(ctx, runID, "", false)
		return "", fmt.Errorf("ingest: %w", err)
	}
	for _, s := range res.Summaries {
		p.journal.FileIngested(ctx, runID, s.Name, true, fmt.Sprintf("%d rows", s.Rows))
	}
	for _, f := range res.Failed {
		p.journal.FileIngested(ctx, runID, f.Path, false, f.Err.Error())
	}

	data, err := p.stages.DataStage(ctx, res)
	if err != nil {
		p.journal.RunFinished(ctx, runID, "", false)
		return "", err
	}
	p.journal.StageCompleted(ctx, runID, "data", fmt.Sprintf("%d chars", len(data.Narrative)))

	risk, err := p.stages.RiskStage(ctx, data)
	if err != nil {
		p.journal.RunFinished(ctx, runID, "", false)
		return "", err
	}
	p.journal.StageCompleted(ctx, runID, "risk", fmt.Sprintf("score %.2f", risk.RiskScore))

	strat, err := p.stages.StrategyStage(ctx, data, risk)
	if err != nil {
		p.journal.RunFinished(ctx, runID, "", false)
		return "", err
	}
	p.journal.StageCompleted(ctx, runID, "strategy", fmt.Sprintf("%d chars", len(strat.Narrative)))

	text := pipeline.ComposeReport(res, data, risk, strat)
	sections := report.ParseSections(text)

	if err := p.renderer.RenderFile(sections, outPath); err != nil {
		p.journal.RunFinished(ctx, runID, outPath, false)
		return "", err
	}
	p.journal.StageCompleted(ctx, runID, "render", fmt.Sprintf("%d sections", len(sections)))
	p.journal.RunFinished(ctx, runID, outPath, true)

	p.logger.Info("run finished", "run_id", runID, "output", outPath)
	return outPath, nil
}

func newRunID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// Package ingest reads a list of financial source files through the
// extractor, concatenates them into one combined record set, and derives
// the run's metrics and per-file summaries.
//
// Per-file extraction failures are soft: the file is logged and dropped so
// a partial report is still produced. Only a run with zero usable files
// fails, with ErrNoUsableInput.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/quillon/finreport/extract"
	"github.com/quillon/finreport/recordset"
)

// ErrNoUsableInput is returned when every input file failed extraction.
// Downstream numeric stages are undefined on an empty combined set, so the
// run fails fast instead of producing an empty report.
var ErrNoUsableInput = errors.New("no usable input files")

// Config configures the ingestor.
type Config struct {
	Extractor *extract.Extractor

	// Logger for progress and soft-failure messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Extractor == nil {
		c.Extractor = extract.New(extract.Config{Logger: c.Logger})
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Ingestor turns source paths into a combined record set plus metrics.
type Ingestor struct {
	extractor *extract.Extractor
	logger    *slog.Logger
}

// New creates an Ingestor.
func New(cfg Config) *Ingestor {
	cfg.defaults()
	return &Ingestor{extractor: cfg.Extractor, logger: cfg.Logger}
}

// FileFailure records one dropped input file.
type FileFailure struct {
	Path string
	Err  error
}

// Result is the outcome of one ingestion pass.
type Result struct {
	Combined  *recordset.Combined
	Metrics   *MetricSet
	Summaries []FileSummary
	Failed    []FileFailure

	// InputCount is the number of paths requested, including dropped ones.
	InputCount int
}

// Ingest extracts every path, concatenates the results in input order, and
// computes metrics and summaries over the combined set.
func (ing *Ingestor) Ingest(ctx context.Context, paths []string) (*Result, error) {
	res := &Result{InputCount: len(paths)}
	var sets []*recordset.RecordSet

	for _, path := range paths {
		rs, err := ing.extractor.Extract(ctx, path)
		if err != nil {
			ing.logger.Warn("skipping input file", "path", path, "error", err)
			res.Failed = append(res.Failed, FileFailure{Path: path, Err: err})
			continue
		}
		ing.logger.Info("processed input file", "path", path, "rows", rs.Rows())
		sets = append(sets, rs)
		res.Summaries = append(res.Summaries, summarizeFile(filepath.Base(path), rs))
	}

	if len(sets) == 0 {
		return nil, ErrNoUsableInput
	}

	res.Combined = recordset.Concat(sets)
	res.Metrics = ComputeMetrics(res.Combined)
	return res, nil
}

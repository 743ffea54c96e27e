// finreport reads a set of financial documents and writes a narrative
// analysis report as a PDF.
//
// Usage:
//
//	finreport [config.yaml]
//	finreport -mcp [config.yaml]
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/quillon/finreport"
	"github.com/quillon/finreport/extract"
	"github.com/quillon/finreport/narrative"
	"github.com/quillon/finreport/report"
	"github.com/quillon/finreport/runlog"
)

func main() {
	args := os.Args[1:]
	mcpMode := false
	if len(args) > 0 && args[0] == "-mcp" {
		mcpMode = true
		args = args[1:]
	}

	cfgPath := "finreport.yaml"
	if len(args) > 0 {
		cfgPath = args[0]
	}

	cfg, err := finreport.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	apiKey, err := finreport.LoadCredential()
	if err != nil {
		log.Fatalf("credential: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	journal, err := runlog.Open(cfg.JournalPath)
	if err != nil {
		log.Fatalf("journal: %v", err)
	}
	defer journal.Close()

	client := narrative.NewClient(narrative.Config{
		Endpoint: cfg.Service.Endpoint,
		Model:    cfg.Service.Model,
		APIKey:   apiKey,
		Timeout:  time.Duration(cfg.Service.TimeoutSeconds) * time.Second,
		Logger:   logger,
	})

	pipe := finreport.NewPipeline(finreport.PipelineConfig{
		Completer: client,
		Extract:   extract.Config{MaxFileSize: int64(cfg.MaxFileMB) << 20, Logger: logger},
		Render:    report.DefaultRenderConfig(),
		Journal:   journal,
		Logger:    logger,
	})

	ctx := context.Background()

	if mcpMode {
		if err := pipe.RunMCP(ctx); err != nil {
			log.Fatalf("mcp: %v", err)
		}
		return
	}

	if len(cfg.Inputs) == 0 {
		log.Fatalf("config: no input files listed")
	}

	out, err := pipe.Run(ctx, cfg.Inputs, cfg.Output)
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	fmt.Printf("report generated: %s\n", out)
}

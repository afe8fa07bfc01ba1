// Command detail-extract aligns the saved locale renderings of character
// detail pages and builds a partial glossary from their titles and, when an
// LLM API key is configured, from terms found in their descriptions.
//
// Flags:
//
//	--config         path to the app YAML config file (default: CONFIG_PATH or ./config.yaml)
//	--detail-config  path to the detail YAML config file
//	--snapshots      snapshot directory
//	--entry          comma-separated entry ids (default: every id in the snapshot directory)
//	--output         output CSV path
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/termbridge/internal/adapter/provider/llm"
	"github.com/heartmarshall/termbridge/internal/app"
	"github.com/heartmarshall/termbridge/internal/app/detail"
	"github.com/heartmarshall/termbridge/internal/config"
	"github.com/heartmarshall/termbridge/pkg/ctxutil"
)

// Compile-time interface assertion.
var _ detail.TermExtractor = (*llm.Client)(nil)

func main() {
	configFlag := flag.String("config", "", "path to app YAML config file")
	detailConfigFlag := flag.String("detail-config", "", "path to detail YAML config file")
	snapshotsFlag := flag.String("snapshots", "", "snapshot directory")
	entryFlag := flag.String("entry", "", "comma-separated entry ids")
	outputFlag := flag.String("output", "", "output CSV path")
	flag.Parse()

	appCfg, err := config.LoadFrom(*configFlag)
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)
	logger.Info("starting detail-extract", slog.String("version", app.BuildVersion()))

	cfg, err := detail.LoadConfig(*detailConfigFlag)
	if err != nil {
		logger.Error("load detail config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *snapshotsFlag != "" {
		cfg.SnapshotDir = *snapshotsFlag
	}
	if *entryFlag != "" {
		cfg.EntryIDs = nil
		for _, id := range strings.Split(*entryFlag, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.EntryIDs = append(cfg.EntryIDs, id)
			}
		}
	}
	if *outputFlag != "" {
		cfg.OutputPath = *outputFlag
	}

	var extractor detail.TermExtractor
	if appCfg.LLM.Enabled() {
		extractor = llm.NewClient(appCfg.LLM, logger)
	} else {
		logger.Warn("LLM API key not set, description terms will not be extracted")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = ctxutil.WithCommand(ctxutil.WithRunID(ctx, uuid.New()), "detail-extract")

	res, err := detail.NewPipeline(logger, extractor, *cfg).Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "detail extraction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if res.HasErrors() {
		logger.WarnContext(ctx, "detail extraction completed with errors", slog.Int("batches_failed", res.BatchesFailed))
		os.Exit(1)
	}
}

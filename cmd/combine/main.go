// Command combine merges partial glossaries into the final glossary. Target
// terms mixing Japanese with Latin fragments are cleaned through the LLM
// (when an API key is configured) with results cached between runs; plural
// and prefix-stripped variants are added and duplicates removed.
//
// A summary table is printed to stdout.
//
// Flags:
//
//	--config          path to the app YAML config file (default: CONFIG_PATH or ./config.yaml)
//	--combine-config  path to the combine YAML config file
//	--output          output CSV path
//	--no-clean        do not call the LLM; apply cached cleanings only
//
// Positional arguments, when given, replace the configured source files.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/termbridge/internal/adapter/provider/llm"
	"github.com/heartmarshall/termbridge/internal/app"
	"github.com/heartmarshall/termbridge/internal/app/combiner"
	"github.com/heartmarshall/termbridge/internal/cleancache"
	"github.com/heartmarshall/termbridge/internal/config"
	"github.com/heartmarshall/termbridge/internal/consolidate"
	"github.com/heartmarshall/termbridge/pkg/ctxutil"
)

// Compile-time interface assertions.
var (
	_ consolidate.Cleaner = (*llm.Client)(nil)
	_ consolidate.Cache   = (*cleancache.Cache)(nil)
)

func main() {
	configFlag := flag.String("config", "", "path to app YAML config file")
	combineConfigFlag := flag.String("combine-config", "", "path to combine YAML config file")
	outputFlag := flag.String("output", "", "output CSV path")
	noCleanFlag := flag.Bool("no-clean", false, "apply cached cleanings only")
	flag.Parse()

	appCfg, err := config.LoadFrom(*configFlag)
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)
	logger.Info("starting combine", slog.String("version", app.BuildVersion()))

	cfg, err := combiner.LoadConfig(*combineConfigFlag)
	if err != nil {
		logger.Error("load combine config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if flag.NArg() > 0 {
		cfg.Sources = flag.Args()
	}
	if *outputFlag != "" {
		cfg.OutputPath = *outputFlag
	}

	var cleaner consolidate.Cleaner
	switch {
	case *noCleanFlag:
		logger.Info("cleaning disabled by flag")
	case appCfg.LLM.Enabled():
		cleaner = llm.NewClient(appCfg.LLM, logger)
	default:
		logger.Warn("LLM API key not set, only cached cleanings are applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = ctxutil.WithCommand(ctxutil.WithRunID(ctx, uuid.New()), "combine")

	res, err := combiner.New(logger, cleaner, *cfg).Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "combine failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	combiner.RenderReport(os.Stdout, res)

	if res.HasErrors() {
		logger.WarnContext(ctx, "combine completed with errors")
		os.Exit(1)
	}
}

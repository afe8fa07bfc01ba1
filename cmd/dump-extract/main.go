// Command dump-extract builds a partial glossary from a MediaWiki XML export
// by reading the language template of every article.
//
// Flags:
//
//	--config       path to the app YAML config file (default: CONFIG_PATH or ./config.yaml)
//	--dump-config  path to the dump extraction YAML config file
//	--source       export location: local file, .bz2 file or http(s) URL
//	--output       output CSV path
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

	"github.com/heartmarshall/termbridge/internal/app"
	"github.com/heartmarshall/termbridge/internal/app/dumpextract"
	"github.com/heartmarshall/termbridge/internal/config"
	"github.com/heartmarshall/termbridge/pkg/ctxutil"
)

func main() {
	configFlag := flag.String("config", "", "path to app YAML config file")
	dumpConfigFlag := flag.String("dump-config", "", "path to dump extraction YAML config file")
	sourceFlag := flag.String("source", "", "export location (file, .bz2 or URL)")
	outputFlag := flag.String("output", "", "output CSV path")
	flag.Parse()

	appCfg, err := config.LoadFrom(*configFlag)
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)
	logger.Info("starting dump-extract", slog.String("version", app.BuildVersion()))

	cfg, err := dumpextract.LoadConfig(*dumpConfigFlag)
	if err != nil {
		logger.Error("load dump config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *sourceFlag != "" {
		cfg.Source = *sourceFlag
	}
	if *outputFlag != "" {
		cfg.OutputPath = *outputFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = ctxutil.WithCommand(ctxutil.WithRunID(ctx, uuid.New()), "dump-extract")

	res, err := dumpextract.Run(ctx, logger, *cfg)
	if err != nil {
		logger.ErrorContext(ctx, "extraction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if res.Written == 0 {
		logger.WarnContext(ctx, "no entries extracted")
	}
}

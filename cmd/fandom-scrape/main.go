// Command fandom-scrape builds a partial glossary from the localized names
// listed on the article pages of a Fandom wiki.
//
// Flags:
//
//	--config          path to the app YAML config file (default: CONFIG_PATH or ./config.yaml)
//	--fandom-config   path to the fandom scrape YAML config file
//	--base-url        wiki base URL
//	--output          output CSV path
//	--max-pages       stop after this many articles (0 = all)
//	--title-fallback  use the page title when a page has no language table
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

	"github.com/heartmarshall/termbridge/internal/adapter/provider/fandom"
	"github.com/heartmarshall/termbridge/internal/app"
	"github.com/heartmarshall/termbridge/internal/app/fandomscrape"
	"github.com/heartmarshall/termbridge/internal/config"
	"github.com/heartmarshall/termbridge/pkg/ctxutil"
)

// Compile-time interface assertion.
var _ fandomscrape.PageSource = (*fandom.Provider)(nil)

func main() {
	configFlag := flag.String("config", "", "path to app YAML config file")
	fandomConfigFlag := flag.String("fandom-config", "", "path to fandom scrape YAML config file")
	baseURLFlag := flag.String("base-url", "", "wiki base URL")
	outputFlag := flag.String("output", "", "output CSV path")
	maxPagesFlag := flag.Int("max-pages", 0, "stop after this many articles (0 = all)")
	titleFallbackFlag := flag.Bool("title-fallback", false, "use the page title when a page has no language table")
	flag.Parse()

	appCfg, err := config.LoadFrom(*configFlag)
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)
	logger.Info("starting fandom-scrape", slog.String("version", app.BuildVersion()))

	cfg, err := fandomscrape.LoadConfig(*fandomConfigFlag)
	if err != nil {
		logger.Error("load fandom config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *baseURLFlag != "" {
		cfg.BaseURL = *baseURLFlag
	}
	if *outputFlag != "" {
		cfg.OutputPath = *outputFlag
	}
	if *maxPagesFlag > 0 {
		cfg.MaxPages = *maxPagesFlag
	}
	if *titleFallbackFlag {
		cfg.TitleFallback = true
	}

	provider, err := fandom.NewProvider(cfg.BaseURL, fandom.Options{
		RequestInterval: cfg.RequestInterval,
		Timeout:         cfg.Timeout,
		UserAgent:       cfg.UserAgent,
		TitleFallback:   cfg.TitleFallback,
	}, logger)
	if err != nil {
		logger.Error("create fandom provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = ctxutil.WithCommand(ctxutil.WithRunID(ctx, uuid.New()), "fandom-scrape")

	res, err := fandomscrape.NewScraper(logger, provider, *cfg).Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "scrape failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if res.HasErrors() {
		logger.WarnContext(ctx, "scrape completed with errors", slog.Int("failed", res.Failed))
		os.Exit(1)
	}
}

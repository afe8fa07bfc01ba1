// Command publish replaces a stored glossary with the contents of the final
// glossary CSV and verifies the stored term count.
//
// Flags:
//
//	--config          path to the app YAML config file (default: CONFIG_PATH or ./config.yaml)
//	--publish-config  path to the publish YAML config file
//	--glossary        glossary CSV path
//	--name            glossary name
//	--migrate         apply database migrations first
//	--dry-run         read and validate the CSV without touching the database
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

	"github.com/heartmarshall/termbridge/internal/adapter/postgres"
	"github.com/heartmarshall/termbridge/internal/adapter/postgres/glossaryterm"
	"github.com/heartmarshall/termbridge/internal/app"
	"github.com/heartmarshall/termbridge/internal/app/publisher"
	"github.com/heartmarshall/termbridge/internal/config"
	"github.com/heartmarshall/termbridge/pkg/ctxutil"
)

// Compile-time interface assertion.
var _ publisher.GlossaryStore = (*glossaryterm.Repo)(nil)

func main() {
	configFlag := flag.String("config", "", "path to app YAML config file")
	publishConfigFlag := flag.String("publish-config", "", "path to publish YAML config file")
	glossaryFlag := flag.String("glossary", "", "glossary CSV path")
	nameFlag := flag.String("name", "", "glossary name")
	migrateFlag := flag.Bool("migrate", false, "apply database migrations first")
	dryRunFlag := flag.Bool("dry-run", false, "read and validate without writing to DB")
	flag.Parse()

	appCfg, err := config.LoadFrom(*configFlag)
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)
	logger.Info("starting publish", slog.String("version", app.BuildVersion()))

	cfg, err := publisher.LoadConfig(*publishConfigFlag)
	if err != nil {
		logger.Error("load publish config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *glossaryFlag != "" {
		cfg.GlossaryPath = *glossaryFlag
	}
	if *nameFlag != "" {
		cfg.GlossaryName = *nameFlag
	}
	if *migrateFlag {
		cfg.Migrate = true
	}
	if *dryRunFlag {
		cfg.DryRun = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = ctxutil.WithCommand(ctxutil.WithRunID(ctx, uuid.New()), "publish")

	var store publisher.GlossaryStore
	if !cfg.DryRun {
		if appCfg.Database.DSN == "" {
			logger.ErrorContext(ctx, "database DSN not configured (DATABASE_DSN)")
			os.Exit(1)
		}

		if cfg.Migrate {
			applied, err := postgres.Migrate(ctx, appCfg.Database.DSN)
			if err != nil {
				logger.ErrorContext(ctx, "apply migrations", slog.String("error", err.Error()))
				os.Exit(1)
			}
			logger.InfoContext(ctx, "migrations applied", slog.Int("applied", applied))
		}

		pool, err := postgres.NewPool(ctx, appCfg.Database)
		if err != nil {
			logger.ErrorContext(ctx, "connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		store = glossaryterm.New(pool, postgres.NewTxManager(pool))
	}

	if _, err := publisher.New(logger, store, *cfg).Run(ctx); err != nil {
		logger.ErrorContext(ctx, "publish failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

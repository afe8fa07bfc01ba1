// Package combiner merges the partial glossaries produced by the extraction
// commands into the final glossary.
package combiner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/termbridge/internal/cleancache"
	"github.com/heartmarshall/termbridge/internal/consolidate"
	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/glossary"
	"github.com/heartmarshall/termbridge/internal/script"
)

// Source statuses.
const (
	StatusLoaded    = "loaded"
	StatusMissing   = "missing"
	StatusMalformed = "malformed"
)

// SourceResult describes how one input file was read.
type SourceResult struct {
	Path   string
	Status string
	glossary.Stats
}

// Result holds the outcome of a combine run.
type Result struct {
	Sources       []SourceResult
	Consolidation consolidate.Result
	Written       int
	Duration      time.Duration
}

// HasErrors reports whether a source could not be used or cleaning failed.
func (r Result) HasErrors() bool {
	for _, s := range r.Sources {
		if s.Status != StatusLoaded {
			return true
		}
	}
	return r.Consolidation.HasErrors()
}

// Combiner reads, consolidates and writes glossaries.
type Combiner struct {
	log     *slog.Logger
	cleaner consolidate.Cleaner
	cfg     Config
}

// New creates a Combiner. cleaner may be nil.
func New(log *slog.Logger, cleaner consolidate.Cleaner, cfg Config) *Combiner {
	return &Combiner{
		log:     log.With("component", "combiner"),
		cleaner: cleaner,
		cfg:     cfg,
	}
}

// Run combines the configured sources into the output glossary.
func (c *Combiner) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	consCfg, err := c.consolidateConfig()
	if err != nil {
		return res, err
	}

	var all []domain.GlossaryEntry
	for _, path := range c.cfg.Sources {
		entries, src := c.readSource(ctx, path)
		res.Sources = append(res.Sources, src)
		all = append(all, entries...)
	}
	if len(all) == 0 {
		return res, fmt.Errorf("no entries in %d sources", len(c.cfg.Sources))
	}

	cache, err := cleancache.Open(c.cfg.CachePath)
	if err != nil {
		return res, fmt.Errorf("open cleaning cache: %w", err)
	}
	c.log.InfoContext(ctx, "cleaning cache loaded",
		slog.String("path", cache.Path()),
		slog.Int("entries", cache.Len()),
	)

	cons, err := consolidate.New(c.log, cache, c.cleaner, consCfg).Run(ctx, all)
	res.Consolidation = cons
	if err != nil {
		return res, err
	}

	if err := glossary.WriteFile(c.cfg.OutputPath, cons.Entries); err != nil {
		return res, err
	}
	res.Written = len(cons.Entries)
	res.Duration = time.Since(start)

	c.log.InfoContext(ctx, "combine completed",
		slog.String("output", c.cfg.OutputPath),
		slog.Int("sources", len(res.Sources)),
		slog.Int("written", res.Written),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func (c *Combiner) readSource(ctx context.Context, path string) ([]domain.GlossaryEntry, SourceResult) {
	src := SourceResult{Path: path}

	entries, stats, err := glossary.ReadFile(path)
	src.Stats = stats
	switch {
	case errors.Is(err, os.ErrNotExist):
		src.Status = StatusMissing
		c.log.WarnContext(ctx, "source missing, skipped", slog.String("path", path))
		return nil, src
	case err != nil:
		src.Status = StatusMalformed
		c.log.WarnContext(ctx, "source unreadable, skipped",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, src
	}

	src.Status = StatusLoaded
	if stats.Malformed > 0 {
		c.log.WarnContext(ctx, "malformed rows skipped",
			slog.String("path", path),
			slog.Int("malformed", stats.Malformed),
		)
	}
	c.log.InfoContext(ctx, "source loaded", slog.String("path", path), slog.Int("entries", len(entries)))
	return entries, src
}

func (c *Combiner) consolidateConfig() (consolidate.Config, error) {
	cfg := consolidate.DefaultConfig()
	if c.cfg.BatchSize > 0 {
		cfg.BatchSize = c.cfg.BatchSize
	}
	cfg.BatchInterval = c.cfg.BatchInterval
	if c.cfg.MaxPluralWords > 0 {
		cfg.MaxPluralWords = c.cfg.MaxPluralWords
	}

	if c.cfg.TargetScript != "" {
		target, err := script.Lookup(c.cfg.TargetScript)
		if err != nil {
			return cfg, fmt.Errorf("target script: %w", err)
		}
		cfg.Mixed.Target = target
	}
	if c.cfg.SourceScript != "" {
		source, err := script.Lookup(c.cfg.SourceScript)
		if err != nil {
			return cfg, fmt.Errorf("source script: %w", err)
		}
		cfg.Mixed.Source = source
	}
	return cfg, nil
}

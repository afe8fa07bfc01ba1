// Package fandomscrape builds a partial glossary from the localized names
// listed on a Fandom wiki's article pages.
package fandomscrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/termbridge/internal/adapter/provider/fandom"
	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/glossary"
)

// PageSource lists article pages and reads their names.
type PageSource interface {
	ListPages(ctx context.Context) ([]string, error)
	FetchNames(ctx context.Context, pageURL string) (fandom.Names, error)
}

// Result holds the outcome of a scrape.
type Result struct {
	Pages    int
	Found    int
	Absent   int
	Failed   int
	Written  int
	Duration time.Duration
}

// HasErrors reports whether any page failed for a reason other than absence.
func (r Result) HasErrors() bool {
	return r.Failed > 0
}

// Scraper walks every listed page and writes the names it finds.
type Scraper struct {
	log    *slog.Logger
	source PageSource
	cfg    Config
}

// NewScraper creates a Scraper.
func NewScraper(log *slog.Logger, source PageSource, cfg Config) *Scraper {
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = 30
	}
	return &Scraper{
		log:    log.With("component", "fandomscrape"),
		source: source,
		cfg:    cfg,
	}
}

// Run lists the wiki's pages, reads each one and writes the collected entries
// to the output CSV. The output is rewritten every FlushEvery new entries so
// an interrupted run keeps its progress.
func (s *Scraper) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	pages, err := s.source.ListPages(ctx)
	if err != nil {
		return res, fmt.Errorf("list pages: %w", err)
	}
	if s.cfg.MaxPages > 0 && len(pages) > s.cfg.MaxPages {
		pages = pages[:s.cfg.MaxPages]
	}
	res.Pages = len(pages)
	s.log.InfoContext(ctx, "pages listed", slog.Int("pages", len(pages)))

	var (
		entries   []domain.GlossaryEntry
		unflushed int
	)

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		names, err := s.source.FetchNames(ctx, page)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return res, err
		case errors.Is(err, domain.ErrAbsent):
			res.Absent++
			s.log.DebugContext(ctx, "no names on page", slog.String("url", page))
			continue
		case err != nil:
			res.Failed++
			s.log.WarnContext(ctx, "page failed",
				slog.String("url", page),
				slog.String("error", err.Error()),
			)
			continue
		}

		entry := names.Entry()
		if !entry.Complete() {
			res.Absent++
			continue
		}
		entries = append(entries, entry)
		res.Found++
		unflushed++

		if unflushed >= s.cfg.FlushEvery {
			if err := s.flush(entries); err != nil {
				return res, err
			}
			unflushed = 0
			s.log.InfoContext(ctx, "progress",
				slog.Int("page", i+1),
				slog.Int("pages", len(pages)),
				slog.Int("entries", len(entries)),
			)
		}
	}

	entries, _ = glossary.Dedup(entries)
	if err := s.flush(entries); err != nil {
		return res, err
	}
	res.Written = len(entries)
	res.Duration = time.Since(start)

	s.log.InfoContext(ctx, "scrape completed",
		slog.Int("pages", res.Pages),
		slog.Int("found", res.Found),
		slog.Int("absent", res.Absent),
		slog.Int("failed", res.Failed),
		slog.Int("written", res.Written),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func (s *Scraper) flush(entries []domain.GlossaryEntry) error {
	if err := glossary.WriteFile(s.cfg.OutputPath, entries); err != nil {
		return fmt.Errorf("write %s: %w", s.cfg.OutputPath, err)
	}
	return nil
}

// Package dumpextract turns a MediaWiki XML export into a partial glossary by
// reading the language template on every article.
package dumpextract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/net/html"

	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/glossary"
	"github.com/heartmarshall/termbridge/internal/mediawiki"
	"github.com/heartmarshall/termbridge/internal/wikitext"
)

// Result holds the outcome of an extraction.
type Result struct {
	Pages        int
	Articles     int // pages in the main namespace
	NoTemplate   int
	NoTarget     int
	Untranslated int // target equal to source after cleaning
	Extracted    int
	Written      int
	Duration     time.Duration
}

// Extractor reads pages and collects their source/target names.
type Extractor struct {
	log         *slog.Logger
	template    *wikitext.Template
	sourceParam string
	targetParam string
}

// NewExtractor creates an Extractor for the configured template and parameters.
func NewExtractor(log *slog.Logger, cfg Config) *Extractor {
	if cfg.TemplateName == "" {
		cfg.TemplateName = "Other Languages"
	}
	if cfg.SourceParam == "" {
		cfg.SourceParam = "en"
	}
	if cfg.TargetParam == "" {
		cfg.TargetParam = "ja"
	}
	return &Extractor{
		log:         log.With("component", "dumpextract"),
		template:    wikitext.NewTemplate(cfg.TemplateName),
		sourceParam: cfg.SourceParam,
		targetParam: cfg.TargetParam,
	}
}

// Extract reads every page from r and returns the entries found, in page order.
// A decode error aborts the extraction.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) ([]domain.GlossaryEntry, Result, error) {
	start := time.Now()
	var (
		res     Result
		entries []domain.GlossaryEntry
	)

	reader := mediawiki.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil, res, err
		}

		page, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, res, fmt.Errorf("page %d: %w", res.Pages+1, err)
		}
		res.Pages++

		if page.NS != mediawiki.MainNamespace {
			continue
		}
		res.Articles++

		entry, err := e.entryFor(page)
		if err != nil {
			res.NoTemplate++
			e.log.DebugContext(ctx, "no language template",
				slog.String("title", page.Title),
				slog.String("error", err.Error()),
			)
			continue
		}

		switch {
		case entry.Target == "" || entry.Source == "":
			res.NoTarget++
		case entry.Source == entry.Target:
			res.Untranslated++
		default:
			entries = append(entries, entry)
			res.Extracted++
		}
	}

	res.Duration = time.Since(start)
	return entries, res, nil
}

// entryFor reads the page's template. The source name falls back to the page
// title when the template has no source parameter.
func (e *Extractor) entryFor(page mediawiki.Page) (domain.GlossaryEntry, error) {
	span, err := e.template.Extract(page.Text())
	if err != nil {
		return domain.GlossaryEntry{}, err
	}
	params := wikitext.ParseParams(span)

	target, _ := params.Get(e.targetParam)
	source, _ := params.Get(e.sourceParam)
	if source == "" {
		source = page.Title
	}

	return domain.NewGlossaryEntry(plain(source), plain(target)), nil
}

func plain(value string) string {
	return wikitext.Clean(html.UnescapeString(value))
}

// Run opens the configured export, extracts it and writes the output CSV.
func Run(ctx context.Context, log *slog.Logger, cfg Config) (Result, error) {
	if cfg.Source == "" {
		return Result{}, fmt.Errorf("dump source not configured")
	}

	rc, err := mediawiki.Open(ctx, cfg.Source, nil)
	if err != nil {
		return Result{}, fmt.Errorf("open export: %w", err)
	}
	defer rc.Close()

	ex := NewExtractor(log, cfg)
	entries, res, err := ex.Extract(ctx, rc)
	if err != nil {
		return res, fmt.Errorf("extract %s: %w", cfg.Source, err)
	}

	entries, dups := glossary.Dedup(entries)
	if err := glossary.WriteFile(cfg.OutputPath, entries); err != nil {
		return res, err
	}
	res.Written = len(entries)

	ex.log.InfoContext(ctx, "extraction completed",
		slog.String("source", cfg.Source),
		slog.Int("pages", res.Pages),
		slog.Int("articles", res.Articles),
		slog.Int("no_template", res.NoTemplate),
		slog.Int("untranslated", res.Untranslated),
		slog.Int("extracted", res.Extracted),
		slog.Int("duplicates", dups),
		slog.Int("written", res.Written),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

// Package detail aligns the two locale renderings of character detail pages
// and turns them into glossary entries: item titles directly, and terms found
// in the item bodies through a TermExtractor.
package detail

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/heartmarshall/termbridge/internal/adapter/provider/hoyowiki"
	"github.com/heartmarshall/termbridge/internal/align"
	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/glossary"
	"github.com/heartmarshall/termbridge/internal/throttle"
)

// TermExtractor finds glossary terms in parallel texts.
type TermExtractor interface {
	ExtractTerms(ctx context.Context, pairs []domain.TextPair) ([]domain.GlossaryEntry, error)
}

// Result holds the outcome of a detail run.
type Result struct {
	Entries        int // entry ids processed
	SkippedEntries int // ids missing a locale snapshot
	Pairs          int
	UnmatchedKeys  int
	TitleTerms     int
	QueuedBodies   int
	BatchesSent    int
	BatchesFailed  int
	ExtractedTerms int
	Filtered       int
	Duplicates     int
	Written        int
	Duration       time.Duration
}

// HasErrors reports whether any extraction batch failed.
func (r Result) HasErrors() bool {
	return r.BatchesFailed > 0
}

// Pipeline runs the detail extraction.
type Pipeline struct {
	log       *slog.Logger
	extractor TermExtractor
	limiter   *rate.Limiter
	cfg       Config
}

// NewPipeline creates a Pipeline. A nil extractor limits the output to item
// titles.
func NewPipeline(log *slog.Logger, extractor TermExtractor, cfg Config) *Pipeline {
	cfg.applyDefaults()
	return &Pipeline{
		log:       log.With("component", "detail"),
		extractor: extractor,
		limiter:   throttle.Every(cfg.BatchInterval),
		cfg:       cfg,
	}
}

// Run aligns every entry, extracts body terms and writes the glossary.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	ids := p.cfg.EntryIDs
	if len(ids) == 0 {
		var err error
		ids, err = hoyowiki.ListEntryIDs(p.cfg.SnapshotDir)
		if err != nil {
			return res, err
		}
	}
	p.log.InfoContext(ctx, "aligning entries", slog.Int("entries", len(ids)))

	var pairs []alignedPair
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		aligned, err := p.alignEntry(ctx, id, &res)
		if err != nil {
			res.SkippedEntries++
			p.log.WarnContext(ctx, "entry skipped",
				slog.String("entry_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		res.Entries++
		pairs = append(pairs, aligned...)

		if (i+1)%p.cfg.CheckpointEvery == 0 {
			p.checkpoint(ctx, pairs)
		}
	}
	p.checkpoint(ctx, pairs)
	res.Pairs = len(pairs)

	var entries []domain.GlossaryEntry
	var bodies []domain.TextPair
	for _, ap := range pairs {
		if e := domain.NewGlossaryEntry(ap.Source.Title, ap.Target.Title); e.Complete() {
			entries = append(entries, e)
			res.TitleTerms++
		}
		if p.longEnough(ap.Source.Body) && p.longEnough(ap.Target.Body) {
			bodies = append(bodies, ap.Bodies())
		}
	}
	res.QueuedBodies = len(bodies)

	extracted, err := p.extract(ctx, bodies, &res)
	if err != nil {
		return res, err
	}
	entries = append(entries, extracted...)

	entries = p.filter(entries, &res)
	entries, res.Duplicates = glossary.Dedup(entries)

	if err := glossary.WriteFile(p.cfg.OutputPath, entries); err != nil {
		return res, err
	}
	res.Written = len(entries)
	res.Duration = time.Since(start)

	p.log.InfoContext(ctx, "detail extraction completed",
		slog.Int("entries", res.Entries),
		slog.Int("skipped_entries", res.SkippedEntries),
		slog.Int("pairs", res.Pairs),
		slog.Int("unmatched_keys", res.UnmatchedKeys),
		slog.Int("title_terms", res.TitleTerms),
		slog.Int("extracted_terms", res.ExtractedTerms),
		slog.Int("batches_failed", res.BatchesFailed),
		slog.Int("written", res.Written),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func (p *Pipeline) alignEntry(ctx context.Context, id string, res *Result) ([]alignedPair, error) {
	source, err := hoyowiki.LoadSnapshot(p.cfg.SnapshotDir, id, p.cfg.SourceLocale)
	if err != nil {
		return nil, err
	}
	target, err := hoyowiki.LoadSnapshot(p.cfg.SnapshotDir, id, p.cfg.TargetLocale)
	if err != nil {
		return nil, err
	}

	a := align.Align(source, target)
	for _, key := range a.UnmatchedTarget {
		p.log.WarnContext(ctx, "no source item for key",
			slog.String("entry_id", id),
			slog.String("locale", p.cfg.SourceLocale),
			slog.String("key", key.String()),
		)
	}
	for _, key := range a.UnmatchedSource {
		p.log.WarnContext(ctx, "no target item for key",
			slog.String("entry_id", id),
			slog.String("locale", p.cfg.TargetLocale),
			slog.String("key", key.String()),
		)
	}
	res.UnmatchedKeys += len(a.UnmatchedSource) + len(a.UnmatchedTarget)

	if a.SourceExtra > 0 || a.TargetExtra > 0 {
		p.log.WarnContext(ctx, "description counts differ",
			slog.String("entry_id", id),
			slog.Int("source_extra", a.SourceExtra),
			slog.Int("target_extra", a.TargetExtra),
		)
	}

	all := a.Pairs()
	out := make([]alignedPair, 0, len(all))
	for _, pair := range all {
		out = append(out, alignedPair{EntryID: id, Pair: pair})
	}
	p.log.DebugContext(ctx, "entry aligned",
		slog.String("entry_id", id),
		slog.Int("titled", len(a.Titled)),
		slog.Int("descriptions", len(a.Descriptions)),
	)
	return out, nil
}

func (p *Pipeline) checkpoint(ctx context.Context, pairs []alignedPair) {
	if p.cfg.CheckpointPath == "" {
		return
	}
	if err := writeCheckpoint(p.cfg.CheckpointPath, pairs); err != nil {
		p.log.WarnContext(ctx, "checkpoint failed", slog.String("error", err.Error()))
	}
}

// extract sends body pairs to the extractor in rate-limited batches.
// A failed batch is logged and skipped.
func (p *Pipeline) extract(ctx context.Context, bodies []domain.TextPair, res *Result) ([]domain.GlossaryEntry, error) {
	if len(bodies) == 0 {
		return nil, nil
	}
	if p.extractor == nil {
		p.log.WarnContext(ctx, "no term extractor configured, body terms skipped",
			slog.Int("queued", len(bodies)))
		return nil, nil
	}

	var out []domain.GlossaryEntry
	for start := 0; start < len(bodies); start += p.cfg.BatchSize {
		end := min(start+p.cfg.BatchSize, len(bodies))

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		res.BatchesSent++
		terms, err := p.extractor.ExtractTerms(ctx, bodies[start:end])
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			res.BatchesFailed++
			p.log.WarnContext(ctx, "term extraction batch failed",
				slog.Int("batch_start", start),
				slog.Int("batch_size", end-start),
				slog.String("error", err.Error()),
			)
			continue
		}
		res.ExtractedTerms += len(terms)
		out = append(out, terms...)
	}
	return out, nil
}

// filter drops incomplete entries and single-symbol sources.
func (p *Pipeline) filter(entries []domain.GlossaryEntry, res *Result) []domain.GlossaryEntry {
	out := entries[:0]
	for _, e := range entries {
		e = domain.NewGlossaryEntry(e.Source, e.Target)
		if !e.Complete() || isLoneSymbol(e.Source) {
			res.Filtered++
			continue
		}
		out = append(out, e)
	}
	return out
}

func (p *Pipeline) longEnough(body string) bool {
	return utf8.RuneCountInString(body) >= p.cfg.MinBodyRunes
}

func isLoneSymbol(s string) bool {
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Package consolidate merges partial glossaries into one: it cleans target
// terms contaminated with source-script fragments, derives lexical variants
// and removes duplicate pairs.
package consolidate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/glossary"
	"github.com/heartmarshall/termbridge/internal/script"
	"github.com/heartmarshall/termbridge/internal/throttle"
)

// Cleaner is the external cleaning service. It must return exactly one
// cleaned line per input line, in input order.
type Cleaner interface {
	CleanBatch(ctx context.Context, lines []string) ([]string, error)
}

// Cache stores cleaned forms between runs. *cleancache.Cache implements it.
type Cache interface {
	Get(original string) (string, bool)
	Put(original, cleaned string)
	Flush() error
}

// Config controls a consolidation run.
type Config struct {
	BatchSize      int
	BatchInterval  time.Duration
	MaxPluralWords int
	Mixed          script.Mixed
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BatchSize:      50,
		BatchInterval:  10 * time.Second,
		MaxPluralWords: 4,
		Mixed:          script.Mixed{Target: script.Japanese, Source: script.Latin},
	}
}

// Result holds the outcome of a run.
type Result struct {
	Input            int
	Mixed            int
	CacheHits        int
	Queued           int
	Cleaned          int
	BatchesSent      int
	BatchesFailed    int
	BatchesDiscarded int
	BatchesSkipped   int // not sent because the context ended
	PluralVariants   int
	StrippedVariants int
	Duplicates       int

	Entries []domain.GlossaryEntry
}

// HasErrors reports whether any cleaning batch failed, was discarded or was
// never sent.
func (r Result) HasErrors() bool {
	return r.BatchesFailed > 0 || r.BatchesDiscarded > 0 || r.BatchesSkipped > 0
}

// Consolidator runs the consolidation pipeline.
type Consolidator struct {
	log     *slog.Logger
	cache   Cache
	cleaner Cleaner
	cfg     Config
	limiter *rate.Limiter
}

// New creates a Consolidator. cleaner may be nil, in which case only cached
// cleanings are applied.
func New(log *slog.Logger, cache Cache, cleaner Cleaner, cfg Config) *Consolidator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.MaxPluralWords <= 0 {
		cfg.MaxPluralWords = DefaultConfig().MaxPluralWords
	}
	if cfg.Mixed.Target.Ranges == nil || cfg.Mixed.Source.Ranges == nil {
		cfg.Mixed = DefaultConfig().Mixed
	}

	return &Consolidator{
		log:     log.With("component", "consolidate"),
		cache:   cache,
		cleaner: cleaner,
		cfg:     cfg,
		limiter: throttle.Every(cfg.BatchInterval),
	}
}

// Run consolidates entries. The input slice is not modified.
//
// No cleaning failure aborts the run: failed batches and batches whose line
// count does not match are logged and their entries keep the original text.
// When ctx ends during cleaning the remaining batches are skipped and the
// run still returns every entry, cleaned where the cache allows.
func (c *Consolidator) Run(ctx context.Context, entries []domain.GlossaryEntry) (Result, error) {
	res := Result{Input: len(entries)}

	work := make([]domain.GlossaryEntry, len(entries))
	copy(work, entries)

	c.clean(ctx, work, &res)

	withVariants := c.deriveVariants(work, &res)

	res.Entries, res.Duplicates = glossary.Dedup(withVariants)

	c.log.InfoContext(ctx, "consolidation completed",
		slog.Int("input", res.Input),
		slog.Int("mixed", res.Mixed),
		slog.Int("cache_hits", res.CacheHits),
		slog.Int("cleaned", res.Cleaned),
		slog.Int("batches_skipped", res.BatchesSkipped),
		slog.Int("plural_variants", res.PluralVariants),
		slog.Int("stripped_variants", res.StrippedVariants),
		slog.Int("duplicates", res.Duplicates),
		slog.Int("output", len(res.Entries)),
	)

	return res, nil
}

// clean replaces contaminated target terms in place.
func (c *Consolidator) clean(ctx context.Context, entries []domain.GlossaryEntry, res *Result) {
	var (
		mixed  []int
		queue  []string
		queued = make(map[string]bool)
	)

	for i, e := range entries {
		if !c.cfg.Mixed.Match(e.Target) {
			continue
		}
		res.Mixed++
		mixed = append(mixed, i)

		if _, ok := c.cache.Get(e.Target); ok {
			res.CacheHits++
			continue
		}
		if !queued[e.Target] {
			queued[e.Target] = true
			queue = append(queue, e.Target)
		}
	}
	res.Queued = len(queue)

	c.log.InfoContext(ctx, "mixed-script entries detected",
		slog.String("predicate", c.cfg.Mixed.String()),
		slog.Int("mixed", res.Mixed),
		slog.Int("cache_hits", res.CacheHits),
		slog.Int("queued", res.Queued),
	)

	if len(queue) > 0 && c.cleaner == nil {
		c.log.WarnContext(ctx, "no cleaning service configured, queued entries left unchanged",
			slog.Int("queued", len(queue)))
	}

	if c.cleaner != nil {
		c.cleanQueue(ctx, queue, res)
	}

	for _, i := range mixed {
		cleaned, ok := c.cache.Get(entries[i].Target)
		if !ok {
			continue
		}
		cleaned = domain.NormalizeTerm(cleaned)
		if cleaned == "" || cleaned == entries[i].Target {
			continue
		}
		entries[i].Target = cleaned
		res.Cleaned++
	}
}

func (c *Consolidator) cleanQueue(ctx context.Context, queue []string, res *Result) {
	total := (len(queue) + c.cfg.BatchSize - 1) / c.cfg.BatchSize

	for n, start := 0, 0; start < len(queue); n, start = n+1, start+c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(queue))
		batch := queue[start:end]

		if err := c.limiter.Wait(ctx); err != nil {
			c.skipRest(ctx, n, total, err)
			res.BatchesSkipped += total - n
			return
		}

		if err := c.cleanBatch(ctx, batch); err != nil {
			if ctx.Err() != nil {
				c.skipRest(ctx, n, total, err)
				res.BatchesSkipped += total - n
				return
			}
			switch domain.ReasonOf(err) {
			case domain.ErrIntegrity:
				res.BatchesDiscarded++
			default:
				res.BatchesFailed++
			}
			c.log.WarnContext(ctx, "cleaning batch skipped",
				slog.Int("batch", n+1),
				slog.Int("of", total),
				slog.Int("size", len(batch)),
				slog.String("error", err.Error()),
			)
			continue
		}
		res.BatchesSent++

		// Persist after every trusted batch so an interrupted run keeps
		// what it already paid for.
		if err := c.cache.Flush(); err != nil {
			c.log.WarnContext(ctx, "flush cleaning cache", slog.String("error", err.Error()))
		}

		c.log.DebugContext(ctx, "cleaning batch applied",
			slog.Int("batch", n+1),
			slog.Int("of", total),
			slog.Int("size", len(batch)),
		)
	}
}

// skipRest logs that batches n+1..total will not be sent.
func (c *Consolidator) skipRest(ctx context.Context, n, total int, err error) {
	c.log.WarnContext(ctx, "cleaning stopped, remaining batches keep original text",
		slog.Int("from_batch", n+1),
		slog.Int("of", total),
		slog.String("error", err.Error()),
	)
}

// cleanBatch sends one batch and caches its results. Nothing is cached
// unless the service returned one line per input line.
func (c *Consolidator) cleanBatch(ctx context.Context, batch []string) error {
	lines, err := c.cleaner.CleanBatch(ctx, batch)
	if err != nil {
		return domain.CollaboratorFailed("cleaning batch", err)
	}
	if len(lines) != len(batch) {
		return domain.IntegrityViolated("cleaning batch",
			fmt.Errorf("sent %d lines, got %d back", len(batch), len(lines)))
	}

	// An empty answer is cached as the original so it is not asked again.
	for i, original := range batch {
		cleaned := strings.TrimSpace(lines[i])
		if cleaned == "" {
			cleaned = original
		}
		c.cache.Put(original, cleaned)
	}
	return nil
}

// deriveVariants returns entries followed by their derived variants.
func (c *Consolidator) deriveVariants(entries []domain.GlossaryEntry, res *Result) []domain.GlossaryEntry {
	out := make([]domain.GlossaryEntry, 0, len(entries)*2)
	out = append(out, entries...)

	for _, e := range entries {
		if v, ok := pluralVariant(e, c.cfg.MaxPluralWords); ok {
			out = append(out, v)
			res.PluralVariants++
		}
		if v, ok := strippedVariant(e); ok {
			out = append(out, v)
			res.StrippedVariants++
		}
	}
	return out
}

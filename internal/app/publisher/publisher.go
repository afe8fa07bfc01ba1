// Package publisher loads the final glossary into the glossary store and
// verifies what was stored.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/glossary"
)

// GlossaryStore persists whole glossaries.
type GlossaryStore interface {
	Replace(ctx context.Context, name string, entries []domain.GlossaryEntry) (int, error)
	Count(ctx context.Context, name string) (int, error)
	Sample(ctx context.Context, name string, limit int) ([]domain.GlossaryEntry, error)
}

// Result holds the outcome of a publish.
type Result struct {
	Read      int
	Malformed int
	Stored    int
	Verified  int
	Sample    []domain.GlossaryEntry
	Duration  time.Duration
}

// Publisher replaces a stored glossary with the contents of a glossary file.
type Publisher struct {
	log   *slog.Logger
	store GlossaryStore
	cfg   Config
}

// New creates a Publisher. store may be nil for a dry run.
func New(log *slog.Logger, store GlossaryStore, cfg Config) *Publisher {
	return &Publisher{
		log:   log.With("component", "publisher"),
		store: store,
		cfg:   cfg,
	}
}

// Run reads the glossary file and, unless DryRun is set, replaces the stored
// glossary with it and reads the stored count back.
func (p *Publisher) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	entries, stats, err := glossary.ReadFile(p.cfg.GlossaryPath)
	if err != nil {
		return res, err
	}
	entries, _ = glossary.Dedup(entries)
	res.Read = len(entries)
	res.Malformed = stats.Malformed

	p.log.InfoContext(ctx, "glossary read",
		slog.String("path", p.cfg.GlossaryPath),
		slog.Int("entries", res.Read),
		slog.Int("malformed", res.Malformed),
	)

	if p.cfg.DryRun {
		p.log.InfoContext(ctx, "dry run, nothing published")
		res.Duration = time.Since(start)
		return res, nil
	}
	if p.store == nil {
		return res, fmt.Errorf("no glossary store configured")
	}

	res.Stored, err = p.store.Replace(ctx, p.cfg.GlossaryName, entries)
	if err != nil {
		return res, fmt.Errorf("replace glossary %s: %w", p.cfg.GlossaryName, err)
	}

	res.Verified, err = p.store.Count(ctx, p.cfg.GlossaryName)
	if err != nil {
		return res, fmt.Errorf("verify glossary %s: %w", p.cfg.GlossaryName, err)
	}
	if res.Verified != res.Read {
		return res, domain.IntegrityViolated("glossary "+p.cfg.GlossaryName,
			fmt.Errorf("published %d entries, store holds %d", res.Read, res.Verified))
	}
	if res.Verified == 0 {
		p.log.WarnContext(ctx, "published glossary is empty", slog.String("glossary", p.cfg.GlossaryName))
	}

	if p.cfg.SampleSize > 0 {
		res.Sample, err = p.store.Sample(ctx, p.cfg.GlossaryName, p.cfg.SampleSize)
		if err != nil {
			return res, fmt.Errorf("sample glossary %s: %w", p.cfg.GlossaryName, err)
		}
		for _, e := range res.Sample {
			p.log.InfoContext(ctx, "stored term", slog.String("source", e.Source), slog.String("target", e.Target))
		}
	}

	res.Duration = time.Since(start)
	p.log.InfoContext(ctx, "glossary published",
		slog.String("glossary", p.cfg.GlossaryName),
		slog.Int("stored", res.Stored),
		slog.Int("verified", res.Verified),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

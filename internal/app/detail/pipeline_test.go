package detail

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/termbridge/internal/align"
	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/glossary"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeExtractor struct {
	calls   [][]domain.TextPair
	failOn  int // 1-based call number that fails; 0 never
	respond func([]domain.TextPair) []domain.GlossaryEntry
}

func (f *fakeExtractor) ExtractTerms(_ context.Context, pairs []domain.TextPair) ([]domain.GlossaryEntry, error) {
	f.calls = append(f.calls, pairs)
	if len(f.calls) == f.failOn {
		return nil, errors.New("upstream unavailable")
	}
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(pairs), nil
}

func writeSnapshot(t *testing.T, dir, id, locale string, items []domain.ContentItem) {
	t.Helper()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+"."+locale+".json"), data, 0o644))
}

func titled(section, tab int, title, body string) domain.ContentItem {
	return domain.ContentItem{
		Kind:  domain.KindTitled,
		Key:   domain.StructuralKey{Section: section, Tab: tab},
		Title: title,
		Body:  body,
	}
}

func description(title, body string) domain.ContentItem {
	return domain.ContentItem{Kind: domain.KindDescription, Title: title, Body: body}
}

func fixture(t *testing.T) (Config, string) {
	t.Helper()
	dir := t.TempDir()
	snapshots := filepath.Join(dir, "snapshots")
	require.NoError(t, os.MkdirAll(snapshots, 0o755))

	writeSnapshot(t, snapshots, "1", "en-us", []domain.ContentItem{
		titled(0, 0, "Basic Attack", "Performs up to three slashes."),
		titled(1, 0, "Dodge", "A rapid dodge."),
		description("Lazy Afternoon", "Basic Attack deals more DMG."),
	})
	writeSnapshot(t, snapshots, "1", "ja-jp", []domain.ContentItem{
		titled(0, 0, "通常攻撃", "最大3段の斬撃を行う。"),
		titled(2, 1, "必殺技", "強力な一撃を放つ。"),
		description("気だるい午後", "通常攻撃のダメージ+30%"),
	})
	writeSnapshot(t, snapshots, "2", "en-us", []domain.ContentItem{
		titled(0, 0, "?", "Tiny"),
		titled(0, 1, "Basic Attack", "Hit"),
	})
	writeSnapshot(t, snapshots, "2", "ja-jp", []domain.ContentItem{
		titled(0, 0, "？", "小さい"),
		titled(0, 1, "通常攻撃", "最大3段の斬撃を行う。"),
	})
	// Only one locale: skipped.
	writeSnapshot(t, snapshots, "3", "en-us", []domain.ContentItem{titled(0, 0, "Solo", "Alone here.")})

	cfg := Config{
		SnapshotDir:     snapshots,
		OutputPath:      filepath.Join(dir, "out", "detail.csv"),
		CheckpointPath:  filepath.Join(dir, "out", "pairs.csv"),
		CheckpointEvery: 1,
		BatchSize:       1,
	}
	return cfg, dir
}

func readGlossary(t *testing.T, path string) []domain.GlossaryEntry {
	t.Helper()
	entries, _, err := glossary.ReadFile(path)
	require.NoError(t, err)
	return entries
}

func TestPipeline_Run(t *testing.T) {
	cfg, _ := fixture(t)
	ext := &fakeExtractor{respond: func(pairs []domain.TextPair) []domain.GlossaryEntry {
		if pairs[0].Source == "Basic Attack deals more DMG." {
			return []domain.GlossaryEntry{{Source: "DMG", Target: "ダメージ"}, {Source: " ", Target: "x"}}
		}
		return []domain.GlossaryEntry{{Source: "Basic Attack", Target: "通常攻撃"}}
	}}

	res, err := NewPipeline(newTestLogger(), ext, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Entries)
	assert.Equal(t, 1, res.SkippedEntries)
	assert.Equal(t, 4, res.Pairs)
	assert.Equal(t, 2, res.UnmatchedKeys)
	assert.Equal(t, 4, res.TitleTerms)
	// "Tiny"/"小さい" and "Hit" fall below the minimum body length.
	assert.Equal(t, 2, res.QueuedBodies)
	assert.Equal(t, 2, res.BatchesSent)
	assert.False(t, res.HasErrors())

	assert.Equal(t, []domain.GlossaryEntry{
		{Source: "Basic Attack", Target: "通常攻撃"},
		{Source: "Lazy Afternoon", Target: "気だるい午後"},
		{Source: "DMG", Target: "ダメージ"},
	}, readGlossary(t, cfg.OutputPath))
	assert.Equal(t, 3, res.Written)
	assert.Equal(t, 2, res.Filtered) // "?" and the blank source
}

func TestPipeline_Run_Checkpoint(t *testing.T) {
	cfg, _ := fixture(t)

	_, err := NewPipeline(newTestLogger(), nil, cfg).Run(context.Background())
	require.NoError(t, err)

	f, err := os.Open(cfg.CheckpointPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, checkpointHeader, rows[0])
	assert.Equal(t, []string{"1", "Basic Attack", "Performs up to three slashes.", "通常攻撃", "最大3段の斬撃を行う。"}, rows[1])
}

func TestPipeline_Run_FailedBatchSkipped(t *testing.T) {
	cfg, _ := fixture(t)
	ext := &fakeExtractor{
		failOn: 1,
		respond: func([]domain.TextPair) []domain.GlossaryEntry {
			return []domain.GlossaryEntry{{Source: "DMG", Target: "ダメージ"}}
		},
	}

	res, err := NewPipeline(newTestLogger(), ext, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.BatchesSent)
	assert.Equal(t, 1, res.BatchesFailed)
	assert.True(t, res.HasErrors())
	assert.Contains(t, readGlossary(t, cfg.OutputPath), domain.GlossaryEntry{Source: "DMG", Target: "ダメージ"})
}

func TestPipeline_Run_ExplicitIDs(t *testing.T) {
	cfg, _ := fixture(t)
	cfg.EntryIDs = []string{"2"}

	res, err := NewPipeline(newTestLogger(), nil, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Entries)
	assert.Equal(t, []domain.GlossaryEntry{{Source: "Basic Attack", Target: "通常攻撃"}}, readGlossary(t, cfg.OutputPath))
}

func TestIsLoneSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"?", true},
		{"・", true},
		{"A", false},
		{"7", false},
		{"炎", false},
		{"??", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isLoneSymbol(tt.in); got != tt.want {
			t.Errorf("isLoneSymbol(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncodeCheckpoint_WriteError(t *testing.T) {
	pairs := []alignedPair{{
		EntryID: "1291",
		Pair: align.Pair{
			Source: domain.ContentItem{Title: "Fire Blade", Body: "Deals fire damage."},
			Target: domain.ContentItem{Title: "火炎剣", Body: "炎属性ダメージを与える。"},
		},
	}}

	err := encodeCheckpoint(failingWriter{}, pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

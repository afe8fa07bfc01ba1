package combiner

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/glossary"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stripLatin removes ASCII letters, standing in for the LLM cleaner.
type stripLatin struct{ calls int }

func (s *stripLatin) CleanBatch(_ context.Context, lines []string) ([]string, error) {
	s.calls++
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				return -1
			}
			return r
		}, l)
	}
	return out, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCombiner_Run(t *testing.T) {
	dir := t.TempDir()
	xml := filepath.Join(dir, "xml.csv")
	fandom := filepath.Join(dir, "fandom.csv")
	broken := filepath.Join(dir, "broken.csv")
	writeFile(t, xml, "en,ja\nFire Blade,炎の剣\nCat,ねこ\n")
	writeFile(t, fandom, "source_term,target_term\nCat,ねこ\nEllen Joe,エレン Ellen\n,空\n")
	writeFile(t, broken, "a,b\n1,2\n")

	cfg := Config{
		Sources:    []string{xml, fandom, filepath.Join(dir, "missing.csv"), broken},
		OutputPath: filepath.Join(dir, "out", "glossary.csv"),
		CachePath:  filepath.Join(dir, "out", "cache.csv"),
	}
	cleaner := &stripLatin{}

	res, err := New(newTestLogger(), cleaner, cfg).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Sources, 4)
	assert.Equal(t, StatusLoaded, res.Sources[0].Status)
	assert.Equal(t, StatusLoaded, res.Sources[1].Status)
	assert.Equal(t, 1, res.Sources[1].Malformed)
	assert.Equal(t, StatusMissing, res.Sources[2].Status)
	assert.Equal(t, StatusMalformed, res.Sources[3].Status)
	assert.True(t, res.HasErrors())
	assert.Equal(t, 1, cleaner.calls)

	got, _, err := glossary.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, []domain.GlossaryEntry{
		{Source: "Fire Blade", Target: "炎の剣"},
		{Source: "Cat", Target: "ねこ"},
		{Source: "Ellen Joe", Target: "エレン"},
		{Source: "Fire Blades", Target: "炎の剣"},
		{Source: "Cats", Target: "ねこ"},
		{Source: "Ellen Joes", Target: "エレン"},
	}, got)
	assert.Equal(t, len(got), res.Written)

	_, err = os.Stat(cfg.CachePath)
	assert.NoError(t, err)
}

func TestCombiner_Run_CanceledStillWritesOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "fandom.csv")
	writeFile(t, src, "source_term,target_term\nCat,ねこ\nEllen Joe,エレン Ellen\n")

	cfg := Config{
		Sources:    []string{src},
		OutputPath: filepath.Join(dir, "glossary.csv"),
		CachePath:  filepath.Join(dir, "cache.csv"),
	}
	cleaner := &stripLatin{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(newTestLogger(), cleaner, cfg).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cleaner.calls)
	assert.Equal(t, 1, res.Consolidation.BatchesSkipped)
	assert.True(t, res.HasErrors())

	got, _, err := glossary.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, got, domain.GlossaryEntry{Source: "Cat", Target: "ねこ"})
	assert.Contains(t, got, domain.GlossaryEntry{Source: "Ellen Joe", Target: "エレン Ellen"})
	assert.Equal(t, res.Written, len(got))
}

func TestCombiner_Run_NoEntries(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Sources:    []string{filepath.Join(dir, "missing.csv")},
		OutputPath: filepath.Join(dir, "glossary.csv"),
		CachePath:  filepath.Join(dir, "cache.csv"),
	}

	_, err := New(newTestLogger(), nil, cfg).Run(context.Background())
	assert.Error(t, err)
}

func TestCombiner_Run_UnknownScript(t *testing.T) {
	cfg := Config{TargetScript: "klingon"}

	_, err := New(newTestLogger(), nil, cfg).Run(context.Background())
	assert.ErrorContains(t, err, "klingon")
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	RenderReport(&buf, Result{
		Sources: []SourceResult{
			{Path: "xml.csv", Status: StatusLoaded, Stats: glossary.Stats{Rows: 3, Kept: 2, Malformed: 1}},
			{Path: "gone.csv", Status: StatusMissing},
		},
		Written: 7,
	})

	out := buf.String()
	assert.Contains(t, out, "xml.csv")
	assert.Contains(t, out, "gone.csv")
	assert.Contains(t, out, StatusMissing)
	assert.Contains(t, out, "duplicates removed")
}

package fandomscrape

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/termbridge/internal/adapter/provider/fandom"
	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/glossary"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	pages   []string
	names   map[string]fandom.Names
	errs    map[string]error
	listErr error
	fetched []string
}

func (f *fakeSource) ListPages(context.Context) ([]string, error) {
	return f.pages, f.listErr
}

func (f *fakeSource) FetchNames(_ context.Context, url string) (fandom.Names, error) {
	f.fetched = append(f.fetched, url)
	if err, ok := f.errs[url]; ok {
		return fandom.Names{}, err
	}
	n, ok := f.names[url]
	if !ok {
		return fandom.Names{}, domain.Absent("page "+url, nil)
	}
	return n, nil
}

func TestScraper_Run(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "fandom.csv")
	src := &fakeSource{
		pages: []string{"/a", "/b", "/c", "/d", "/e"},
		names: map[string]fandom.Names{
			"/a": {English: "Ellen Joe", Japanese: "エレン・ジョー"},
			"/b": {English: "Bangboo", Japanese: "Bangboo"},
			"/e": {English: "Ellen Joe", Japanese: "エレン・ジョー"},
		},
		errs: map[string]error{
			"/d": domain.CollaboratorFailed("page /d", errors.New("status 500")),
		},
	}

	s := NewScraper(newTestLogger(), src, Config{OutputPath: out, FlushEvery: 1})
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Pages)
	assert.Equal(t, 3, res.Found)
	assert.Equal(t, 1, res.Absent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, res.Written)
	assert.True(t, res.HasErrors())

	got, _, err := glossary.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []domain.GlossaryEntry{
		{Source: "Ellen Joe", Target: "エレン・ジョー"},
		{Source: "Bangboo", Target: "Bangboo"},
	}, got)
}

func TestScraper_Run_MaxPages(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fandom.csv")
	src := &fakeSource{pages: []string{"/a", "/b", "/c"}}

	s := NewScraper(newTestLogger(), src, Config{OutputPath: out, MaxPages: 2})
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, []string{"/a", "/b"}, src.fetched)
	assert.Equal(t, 0, res.Written)
}

func TestScraper_Run_ListError(t *testing.T) {
	src := &fakeSource{listErr: errors.New("boom")}

	s := NewScraper(newTestLogger(), src, Config{OutputPath: filepath.Join(t.TempDir(), "x.csv")})
	_, err := s.Run(context.Background())
	assert.Error(t, err)
}

func TestScraper_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{pages: []string{"/a"}}
	s := NewScraper(newTestLogger(), src, Config{OutputPath: filepath.Join(t.TempDir(), "x.csv")})
	_, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.fetched)
}

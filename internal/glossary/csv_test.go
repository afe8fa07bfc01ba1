package glossary

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/termbridge/internal/domain"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

func TestRead(t *testing.T) {
	t.Parallel()

	input := "source_term,target_term\n" +
		"Fire Blade,火炎剣\n" +
		"  cat  ,  ねこ \n" +
		"cat,ねこ\n" +
		"\"Sword, Great\",大剣\n"

	entries, stats, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []domain.GlossaryEntry{
		{Source: "Fire Blade", Target: "火炎剣"},
		{Source: "cat", Target: "ねこ"},
		{Source: "cat", Target: "ねこ"},
		{Source: "Sword, Great", Target: "大剣"},
	}, entries)
	assert.Equal(t, Stats{Rows: 4, Kept: 4}, stats)
}

func TestRead_ColumnOrderFromHeader(t *testing.T) {
	t.Parallel()

	entries, _, err := Read(strings.NewReader("target_term,note,source_term\n火炎剣,x,Fire Blade\n"))
	require.NoError(t, err)
	assert.Equal(t, []domain.GlossaryEntry{{Source: "Fire Blade", Target: "火炎剣"}}, entries)
}

func TestRead_LegacyHeaderWithBOM(t *testing.T) {
	t.Parallel()

	entries, stats, err := ReadFile(testdataPath(t, "legacy.csv"))
	require.NoError(t, err)

	assert.Len(t, entries, 2)
	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 2, stats.Malformed)
}

func TestRead_BadHeader(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty file":     "",
		"unknown header": "word,translation\nFire,火\n",
		"one column":     "source_term\nFire\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Read(strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformed), "err = %v", err)
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteFile_ThenRead(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	entries := []domain.GlossaryEntry{
		{Source: "Fire Blade", Target: "火炎剣"},
		{Source: "Quote \"x\"", Target: "引用"},
	}

	require.NoError(t, WriteFile(path, entries))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "source_term,target_term\n"))

	got, _, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWrite_EmptyHasHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, "source_term,target_term\n", buf.String())
}

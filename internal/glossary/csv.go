// Package glossary reads and writes glossary files: delimited files with a
// header row and one (source_term, target_term) pair per line.
package glossary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/termbridge/internal/domain"
)

// Header is the header row written to every glossary file.
var Header = []string{"source_term", "target_term"}

// Accepted header names per column, in preference order. "en"/"ja" is the
// layout of older partial glossaries.
var (
	sourceColumns = []string{"source_term", "en"}
	targetColumns = []string{"target_term", "ja"}
)

// Stats describes one read.
type Stats struct {
	Rows      int // data rows after the header
	Kept      int
	Malformed int // rows with a missing or empty term
}

// ReadFile reads a glossary file. See Read.
func ReadFile(path string) ([]domain.GlossaryEntry, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open glossary %s: %w", path, err)
	}
	defer f.Close()

	entries, stats, err := Read(f)
	if err != nil {
		return nil, stats, fmt.Errorf("read glossary %s: %w", path, err)
	}
	return entries, stats, nil
}

// Read parses a glossary. A header row naming the source and target columns
// is required. Terms are normalized with domain.NormalizeTerm; rows where
// either term ends up empty are skipped and counted as malformed.
// Duplicates are kept.
func Read(r io.Reader) ([]domain.GlossaryEntry, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable column count

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Stats{}, domain.Malformed("glossary header", io.ErrUnexpectedEOF)
		}
		return nil, Stats{}, domain.Malformed("glossary header", err)
	}

	srcIdx, tgtIdx, err := columnIndexes(header)
	if err != nil {
		return nil, Stats{}, err
	}

	var (
		stats   Stats
		entries []domain.GlossaryEntry
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entries, stats, domain.Malformed(fmt.Sprintf("glossary row %d", stats.Rows+1), err)
		}
		stats.Rows++

		if len(record) <= srcIdx || len(record) <= tgtIdx {
			stats.Malformed++
			continue
		}

		entry := domain.NewGlossaryEntry(record[srcIdx], record[tgtIdx])
		if !entry.Complete() {
			stats.Malformed++
			continue
		}

		entries = append(entries, entry)
		stats.Kept++
	}

	return entries, stats, nil
}

func columnIndexes(header []string) (int, int, error) {
	names := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		names[i] = strings.ToLower(strings.TrimSpace(h))
	}

	src := indexOfAny(names, sourceColumns)
	tgt := indexOfAny(names, targetColumns)
	if src < 0 || tgt < 0 {
		return 0, 0, domain.Malformed("glossary header",
			fmt.Errorf("want columns %s, got %q", strings.Join(Header, ","), header))
	}
	return src, tgt, nil
}

func indexOfAny(names, candidates []string) int {
	for _, c := range candidates {
		for i, n := range names {
			if n == c {
				return i
			}
		}
	}
	return -1
}

// Write writes the header and one row per entry.
func Write(w io.Writer, entries []domain.GlossaryEntry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		if err := writer.Write([]string{e.Source, e.Target}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes entries to path, creating parent directories. The file
// is written to a temporary sibling first and renamed into place, so an
// interrupted run never leaves a truncated glossary behind.
func WriteFile(path string, entries []domain.GlossaryEntry) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, entries); err != nil {
		tmp.Close()
		return fmt.Errorf("write glossary %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close glossary %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename glossary %s: %w", path, err)
	}
	return nil
}

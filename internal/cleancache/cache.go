// Package cleancache persists cleaned forms of contaminated glossary terms so
// that the external cleaning service is asked about each string only once.
//
// The backing file holds `original,cleaned` rows without a header. It is read
// once on Open and only ever appended to.
package cleancache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Cache maps an original string to its cleaned form.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]string
	pending [][2]string
}

// Open loads the cache file at path. A missing file yields an empty cache
// that will be created on the first Flush. When a key appears more than once
// in the file, the first row wins. Rows with fewer than two columns are
// ignored.
func Open(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]string),
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open cleaning cache %s: %w", path, err)
	}
	defer f.Close()

	if err := c.load(f); err != nil {
		return nil, fmt.Errorf("load cleaning cache %s: %w", path, err)
	}
	return c, nil
}

func (c *Cache) load(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// A torn last line from an interrupted append; skip it.
			continue
		}
		if err != nil {
			return err
		}
		if len(record) < 2 {
			continue
		}
		if _, exists := c.entries[record[0]]; exists {
			continue
		}
		c.entries[record[0]] = record[1]
	}
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cleaned form of original.
func (c *Cache) Get(original string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cleaned, ok := c.entries[original]
	return cleaned, ok
}

// Put records a cleaned form. It is a no-op when original is already cached,
// so a key keeps the value it was first given. The entry is visible to Get
// immediately and is written to disk by the next Flush.
func (c *Cache) Put(original, cleaned string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[original]; exists {
		return
	}
	c.entries[original] = cleaned
	c.pending = append(c.pending, [2]string{original, cleaned})
}

// Len returns the number of cached entries, flushed or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Pending returns the number of entries not yet flushed.
func (c *Cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Flush appends pending entries to the cache file.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) == 0 {
		return nil
	}

	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open cleaning cache %s for append: %w", c.path, err)
	}

	writer := csv.NewWriter(f)
	for _, row := range c.pending {
		if err := writer.Write(row[:]); err != nil {
			f.Close()
			return fmt.Errorf("append cleaning cache: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("append cleaning cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close cleaning cache: %w", err)
	}

	c.pending = c.pending[:0]
	return nil
}

package hoyowiki

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/heartmarshall/termbridge/internal/domain"
)

// Snapshot file layout: <dir>/<id>.<locale>.html and <dir>/<id>.<locale>.json.
const (
	htmlExt = ".html"
	jsonExt = ".json"
)

// LoadSnapshot reads one locale rendering of an entry. Description items
// parsed from the HTML come first, followed by the items of the JSON file.
// Either file may be missing, but not both.
func LoadSnapshot(dir, id, locale string) ([]domain.ContentItem, error) {
	base := filepath.Join(dir, id+"."+locale)
	var (
		items []domain.ContentItem
		found bool
	)

	if f, err := os.Open(base + htmlExt); err == nil {
		found = true
		desc, err := ParseDescriptions(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("snapshot %s %s: %w", id, locale, err)
		}
		items = append(items, desc...)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("snapshot %s %s: %w", id, locale, err)
	}

	data, err := os.ReadFile(base + jsonExt)
	switch {
	case err == nil:
		found = true
		var extra []domain.ContentItem
		if err := json.Unmarshal(data, &extra); err != nil {
			return nil, domain.Malformed("snapshot "+base+jsonExt, err)
		}
		items = append(items, extra...)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("snapshot %s %s: %w", id, locale, err)
	}

	if !found {
		return nil, domain.Absent("snapshot "+id+" "+locale, nil)
	}
	return items, nil
}

// ListEntryIDs returns the ids of all entries with at least one snapshot
// file in dir. Numeric ids sort numerically, before any others.
func ListEntryIDs(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		ext := filepath.Ext(name)
		if ext != htmlExt && ext != jsonExt {
			continue
		}
		id, _, ok := strings.Cut(strings.TrimSuffix(name, ext), ".")
		if !ok || id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	slices.SortFunc(ids, compareIDs)
	return ids, nil
}

func compareIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na - nb
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

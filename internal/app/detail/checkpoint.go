package detail

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/heartmarshall/termbridge/internal/align"
)

var checkpointHeader = []string{"entry_id", "source_title", "source_body", "target_title", "target_body"}

// alignedPair is an aligned pair together with the entry it came from.
type alignedPair struct {
	EntryID string
	align.Pair
}

// writeCheckpoint saves every pair aligned so far, replacing the previous
// checkpoint.
func writeCheckpoint(path string, pairs []alignedPair) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create checkpoint: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encodeCheckpoint(tmp, pairs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close checkpoint: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func encodeCheckpoint(out io.Writer, pairs []alignedPair) error {
	w := csv.NewWriter(out)
	if err := w.Write(checkpointHeader); err != nil {
		return fmt.Errorf("write checkpoint header: %w", err)
	}
	for _, p := range pairs {
		if err := w.Write([]string{p.EntryID, p.Source.Title, p.Source.Body, p.Target.Title, p.Target.Body}); err != nil {
			return fmt.Errorf("write checkpoint row %s: %w", p.EntryID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amishk599/internscout/internal/model"
)

var _ model.Ledger = (*FileLedger)(nil)

// FileLedger keeps notified opportunity IDs in a JSON array file.
type FileLedger struct {
	path string
}

// NewFileLedger returns a ledger persisted at path. The file need not exist.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

// Path returns the ledger file location.
func (l *FileLedger) Path() string { return l.path }

// Load returns the IDs in the ledger. A missing or unparsable file is an
// empty ledger, not an error.
func (l *FileLedger) Load() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read ledger %s: %w", l.path, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return []string{}, nil
	}
	return dedupeIDs(ids), nil
}

// Append adds ids to the ledger, skipping ones already present, and
// rewrites the file atomically.
func (l *FileLedger) Append(ids []string) error {
	current, err := l.Load()
	if err != nil {
		return err
	}
	merged := dedupeIDs(append(current, ids...))
	return writeJSONAtomic(l.path, merged)
}

// dedupeIDs drops repeated IDs, keeping first occurrences in order.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// writeJSONAtomic writes v as indented JSON to a temp file in the target
// directory and renames it over path.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ReadOnlyLedger serves reads from an underlying ledger and drops appends.
// Used by check mode so nothing is marked sent.
type ReadOnlyLedger struct {
	inner model.Ledger
}

// NewReadOnlyLedger wraps inner. A nil inner behaves as an empty ledger.
func NewReadOnlyLedger(inner model.Ledger) *ReadOnlyLedger {
	return &ReadOnlyLedger{inner: inner}
}

func (l *ReadOnlyLedger) Load() ([]string, error) {
	if l.inner == nil {
		return []string{}, nil
	}
	return l.inner.Load()
}

func (l *ReadOnlyLedger) Append(ids []string) error { return nil }

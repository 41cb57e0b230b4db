package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/amishk599/internscout/internal/model"
)

var _ model.SnapshotWriter = (*SnapshotFile)(nil)

// SnapshotFile holds the verbatim raw records of the latest run.
type SnapshotFile struct {
	path string
}

// NewSnapshotFile returns a snapshot writer targeting path.
func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{path: path}
}

// Write overwrites the snapshot with records. An empty run writes [].
func (s *SnapshotFile) Write(records []model.RawRecord) error {
	if records == nil {
		records = []model.RawRecord{}
	}
	return writeJSONAtomic(s.path, records)
}

// ReadSnapshot loads a snapshot written by SnapshotFile.
func ReadSnapshot(path string) ([]model.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var records []model.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return records, nil
}

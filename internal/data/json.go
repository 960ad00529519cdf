package data

import (
	"fmt"
	"os"
	"path/filepath"

	"wealth-dashboard/internal/model"
)

// LoadSnapshotsJSON reads a saved simulation response (the service's JSON array).
func LoadSnapshotsJSON(path string) ([]model.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	snaps, err := model.DecodeSnapshots(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snaps, nil
}

// SaveSnapshotsJSON writes a raw simulation response so it can be derived again offline.
func SaveSnapshotsJSON(path string, raw []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}

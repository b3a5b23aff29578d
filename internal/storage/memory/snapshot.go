package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type snapshot struct {
	IDCounter uint      `json:"idCounter"`
	Records   []*Record `json:"records"`
}

// saveSnapshot writes all records as zstd-compressed JSON. The file is
// written next to the target and renamed into place.
func (b *Backend) saveSnapshot() error {
	path := b.cfg.SnapshotPath
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	if err := json.NewEncoder(enc).Encode(snapshot{IDCounter: b.idCounter, Records: b.records}); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	return os.Rename(tmp, path)
}

// loadSnapshot replaces the in-memory state with the snapshot on disk.
// A missing file is not an error.
func (b *Backend) loadSnapshot() error {
	f, err := os.Open(b.cfg.SnapshotPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	var snap snapshot
	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	b.records = snap.Records
	b.byID = make(map[uint]*Record, len(snap.Records))
	for _, r := range snap.Records {
		b.byID[r.Waypoint.ID] = r
	}
	b.idCounter = snap.IDCounter
	return nil
}

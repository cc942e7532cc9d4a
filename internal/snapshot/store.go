package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"
)

var ErrNotFound = errors.New("snapshot not found")

// ErrInvalidSnapshot is returned by Decode for structurally broken input.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// FileStore persists snapshots as JSON files on disk.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// PathFor names the artifact for pageURL extracted at t.
func (s *FileStore) PathFor(pageURL string, t time.Time) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(pageURL))
	name := fmt.Sprintf("page_components_%s_%d.json", t.Format("20060102_150405"), h.Sum32())
	return filepath.Join(s.dir, name)
}

// Save writes snap to path, creating parent directories.
func (s *FileStore) Save(_ context.Context, snap *PageSnapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads the snapshot stored at path.
func (s *FileStore) Load(_ context.Context, path string) (*PageSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return snap, nil
}

// Encode renders snap as indented JSON without HTML escaping.
func Encode(snap *PageSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a snapshot. A bare array of components is accepted as a
// snapshot without a page URL. Null components are rejected.
func Decode(data []byte) (*PageSnapshot, error) {
	var snap PageSnapshot
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &snap.Components); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(trimmed, &snap); err != nil {
		return nil, err
	}

	for i, c := range snap.Components {
		if c == nil {
			return nil, fmt.Errorf("%w: component %d is null", ErrInvalidSnapshot, i)
		}
	}
	return &snap, nil
}

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vyrodovalexey/items-api/internal/model"
)

const (
	dataFileMode = 0o644
	dataDirMode  = 0o755
)

// FileStore implements Store on top of a single JSON file.
// Every Load reads the file and every Save rewrites it in full; there is
// no locking, so concurrent writers race and the last rename wins.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the file at path.
// The file does not need to exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the data file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the item collection from disk.
func (s *FileStore) Load(ctx context.Context) ([]model.Item, error) {
	if err := checkContext(ctx, "load"); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Item{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []model.Item{}, nil
	}

	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: fmt.Errorf("decode: %w", err)}
	}

	if items == nil {
		items = []model.Item{}
	}

	return items, nil
}

// Save writes items to a temporary file next to the data file and renames
// it into place, so a reader sees either the old or the new collection.
func (s *FileStore) Save(ctx context.Context, items []model.Item) error {
	if err := checkContext(ctx, "save"); err != nil {
		return err
	}

	if items == nil {
		items = []model.Item{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: fmt.Errorf("encode: %w", err)}
	}

	if err := s.writeAtomic(data); err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}

	return nil
}

// NextID returns the id for a new item.
func (s *FileStore) NextID(items []model.Item) int {
	return NextID(items)
}

// writeAtomic replaces the data file with data via temp file and rename.
func (s *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dataDirMode); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer os.Remove(tmpName)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, dataFileMode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileStore keeps the snapshot list in a JSON file.
type FileStore struct {
	*listStore
}

// NewFileStore returns a store backed by path. The file and its directory are
// created on the first save.
func NewFileStore(path string, logger *zap.Logger, opts ...Option) *FileStore {
	return &FileStore{listStore: newListStore(fileBlob{path: path}, logger, opts)}
}

type fileBlob struct {
	path string
}

func (f fileBlob) load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// store replaces the file through a rename.
func (f fileBlob) store(_ context.Context, data []byte) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (fileBlob) close() error { return nil }

func (f fileBlob) describe() string { return f.path }

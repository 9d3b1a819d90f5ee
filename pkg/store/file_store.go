package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	errUtils "github.com/mediaops/amsctl/errors"
)

const (
	dirPermissions  = 0o700
	filePermissions = 0o600
)

// FileStore persists the registry blob in a single file. Writes go through a
// temp file and rename so a crash never leaves a half-written registry.
type FileStore struct {
	path string
}

var _ SettingsStore = (*FileStore)(nil)

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted blob. A missing file is not an error; it returns
// nil data so the caller starts with an empty registry.
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Join(errUtils.ErrSettingsStore, err)
	}
	return data, nil
}

// Save atomically replaces the persisted blob.
func (s *FileStore) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return errors.Join(errUtils.ErrSettingsStore, fmt.Errorf("failed to create settings directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Join(errUtils.ErrSettingsStore, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Join(errUtils.ErrSettingsStore, err)
	}
	if err := tmp.Chmod(filePermissions); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Join(errUtils.ErrSettingsStore, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Join(errUtils.ErrSettingsStore, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Join(errUtils.ErrSettingsStore, err)
	}
	return nil
}

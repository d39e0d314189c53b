package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

var slotName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps each slot in its own file under dir.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, &StorageError{Op: "init", Key: dir, Err: err}
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory slots are stored in.
func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) path(key string) (string, error) {
	if !slotName.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid slot name %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileStore) Read(_ context.Context, key string) (string, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return "", false, &StorageError{Op: "read", Key: key, Err: err}
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Op: "read", Key: key, Err: err}
	}
	return string(data), true, nil
}

// Write replaces the slot through a temp file and rename, so readers never
// see a half-written value.
func (f *FileStore) Write(_ context.Context, key, value string) error {
	p, err := f.path(key)
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	if err := os.Rename(tmpName, p); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

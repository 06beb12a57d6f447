package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/spf13/afero"
)

// LocalStorage keeps documents in a directory tree.
type LocalStorage struct {
	fs afero.Fs
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	osFs := afero.NewOsFs()
	err := osFs.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return NewLocalStorageFs(afero.NewBasePathFs(osFs, dir)), nil
}

// NewLocalStorageFs wraps an existing filesystem, e.g. an in-memory one.
func NewLocalStorageFs(fsys afero.Fs) *LocalStorage {
	return &LocalStorage{fs: fsys}
}

func (s *LocalStorage) Save(_ context.Context, name string, content io.Reader) error {
	err := s.fs.MkdirAll(path.Dir(name), 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	err = afero.WriteFile(s.fs, name, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Load(_ context.Context, name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	err := s.fs.Remove(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

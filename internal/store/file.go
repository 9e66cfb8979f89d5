package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps each location as a regular file on disk.
type FileStore struct{}

func (FileStore) Stat(location string) (time.Time, error) {
	if strings.TrimSpace(location) == "" {
		return time.Time{}, errors.New("location is required")
	}
	info, err := os.Stat(location)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", location, err)
	}
	if info.IsDir() {
		return time.Time{}, fmt.Errorf("stat %s: is a directory", location)
	}
	return info.ModTime(), nil
}

func (FileStore) Read(location string) ([]byte, error) {
	if strings.TrimSpace(location) == "" {
		return nil, errors.New("location is required")
	}
	data, err := os.ReadFile(location)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return data, nil
}

// Write replaces the file atomically: data goes to a temp file in the same
// directory which is then renamed over location.
func (FileStore) Write(location string, data []byte) error {
	if strings.TrimSpace(location) == "" {
		return errors.New("location is required")
	}

	dir := filepath.Dir(location)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(location)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", location, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", location, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", location, err)
	}
	if err := os.Rename(tmpName, location); err != nil {
		return fmt.Errorf("replace %s: %w", location, err)
	}
	return nil
}

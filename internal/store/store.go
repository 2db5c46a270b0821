// Package store owns the published page on disk. The target file is a
// single-writer resource: writers hold an exclusive lock and replace the
// file through a temp file and rename, so concurrent posts resolve to a
// whole-body last-write-wins and a reader never observes a torn page.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PageStore manages the single target file this service is allowed to
// overwrite.
type PageStore struct {
	mu   sync.RWMutex
	path string
}

// New prepares a store for the given target path, creating the parent
// directory if it does not exist yet.
func New(path string) (*PageStore, error) {
	if path == "" {
		return nil, errors.New("target path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create target dir: %w", err)
	}
	return &PageStore{path: path}, nil
}

// Path returns the configured target file path.
func (s *PageStore) Path() string { return s.path }

// Name returns the target file's base name.
func (s *PageStore) Name() string { return filepath.Base(s.path) }

// Write replaces the target file's contents with body and returns the
// number of bytes written. The body goes to a uniquely named temp file in
// the target directory first and is renamed over the target, so a crash
// mid-write cannot leave a truncated page where the old one was.
func (s *PageStore) Write(body []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	n, err := f.Write(body)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("replace target: %w", err)
	}
	return n, nil
}

// Read returns the current page contents and modification time. When no
// page has been published yet the error satisfies errors.Is(err,
// os.ErrNotExist).
func (s *PageStore) Read() ([]byte, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fi, err := os.Stat(s.path)
	if err != nil {
		return nil, time.Time{}, err
	}
	body, err := os.ReadFile(s.path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return body, fi.ModTime(), nil
}

// Stat reports whether a page exists without reading it, plus its size and
// modification time when it does.
func (s *PageStore) Stat() (exists bool, size int64, modTime time.Time, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fi, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, 0, time.Time{}, nil
		}
		return false, 0, time.Time{}, err
	}
	return true, fi.Size(), fi.ModTime(), nil
}

package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// FileStore persists values in a TOML file. Every mutation rewrites the
// file; a failed write is kept and returned by Err, the in-memory value is
// updated regardless.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]any
	err    error
}

var _ Store = (*FileStore)(nil)

// OpenFileStore loads path. A missing file is an empty store; the file is
// created on the first write.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: make(map[string]any)}
	if _, err := toml.DecodeFile(path, &s.values); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("settings: load %s: %w", path, err)
		}
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) TryGet(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.err = s.flushLocked()
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.err = s.flushLocked()
}

// Err returns the error of the last write, nil when it succeeded.
func (s *FileStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// flushLocked пишет во временный файл и переименовывает, чтобы читатель
// никогда не увидел половину файла.
func (s *FileStore) flushLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(s.values); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("settings: encode %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

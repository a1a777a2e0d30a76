package settings

import (
	"errors"
	"maps"
	"sync"
)

// Store is a flat key/value container. Values are either direct values
// (bool, numbers, strings) or codec-encoded strings.
type Store interface {
	TryGet(key string) (any, bool)
	Set(key string, value any)
	Remove(key string)
}

// MapStore keeps values in memory. The zero value is ready to use.
type MapStore struct {
	mu     sync.RWMutex
	values map[string]any
}

var _ Store = (*MapStore)(nil)

func NewMapStore() *MapStore {
	return &MapStore{values: make(map[string]any)}
}

func (s *MapStore) TryGet(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MapStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key] = value
}

func (s *MapStore) Remove(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// Len returns the number of stored keys.
func (s *MapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Snapshot returns a copy of the stored values.
func (s *MapStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// ErrNoStore is passed to OnError when a setting is written before a Store
// was assigned.
var ErrNoStore = errors.New("settings: no store assigned")

// Package memory keeps profile documents in process memory. It backs the
// terminal host when no Redis address is configured, and tests.
package memory

import (
	"context"
	"sync"

	"durak/internal/ports"
)

// Store is a ports.KeyValueStore over a map.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ ports.KeyValueStore = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ports.ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ports.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	if key == "" {
		return ports.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps objects in process memory. Used in tests and local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	puts int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key string, content []byte, _ string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), content...)
	s.puts++
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) URL(key string) string {
	return "memory://" + key
}

// Puts returns how many writes the store has accepted.
func (s *MemoryStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

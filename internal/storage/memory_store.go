package storage

import (
	"bytes"
	"sync"
)

// MemoryStore keeps values in process memory. Nothing survives Close.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	subs   subscribers
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(value), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	s.values[key] = bytes.Clone(value)
	s.mu.Unlock()

	s.subs.notify(key, value)
	return nil
}

func (s *MemoryStore) Subscribe(key string, fn func([]byte)) func() {
	return s.subs.add(key, fn)
}

func (s *MemoryStore) GetConfigPath() string {
	return ""
}

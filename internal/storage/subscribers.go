package storage

import (
	"bytes"
	"slices"
	"sync"
)

type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[string]map[int]func([]byte)
}

func (s *subscribers) add(key string, fn func([]byte)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[string]map[int]func([]byte))
	}
	if s.fns[key] == nil {
		s.fns[key] = make(map[int]func([]byte))
	}
	id := s.next
	s.next++
	s.fns[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.fns[key], id)
		})
	}
}

// notify runs the callbacks for key outside the lock so they may call back into the provider.
func (s *subscribers) notify(key string, value []byte) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.fns[key]))
	for id := range s.fns[key] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func([]byte), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.fns[key][id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(bytes.Clone(value))
	}
}

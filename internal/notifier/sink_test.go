package notifier

import (
	"context"
	"errors"
	"sync"
)

// recordingSink captures deliveries and can be told to fail for specific ids.
type recordingSink struct {
	mu        sync.Mutex
	delivered []Notification
	fail      map[string]bool
	ch        chan Notification
}

func newRecordingSink() *recordingSink {
	return &recordingSink{fail: make(map[string]bool), ch: make(chan Notification, 32)}
}

func (s *recordingSink) Deliver(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[n.ID] {
		return errors.New("delivery refused")
	}
	s.delivered = append(s.delivered, n)
	s.ch <- n
	return nil
}

func (s *recordingSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.delivered))
	for _, n := range s.delivered {
		ids = append(ids, n.ID)
	}
	return ids
}

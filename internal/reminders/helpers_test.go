package reminders

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/notifier"
	"github.com/julianstephens/remindme/internal/storage"
)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

// recordingDispatcher keeps the latest notification per id, like a real dispatcher.
type recordingDispatcher struct {
	mu        sync.Mutex
	pending   map[string]notifier.Notification
	scheduled []notifier.Notification
	cancelled []string
	err       error
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{pending: make(map[string]notifier.Notification)}
}

func (d *recordingDispatcher) Schedule(n notifier.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.scheduled = append(d.scheduled, n)
	d.pending[n.ID] = n
	return nil
}

func (d *recordingDispatcher) Cancel(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelled = append(d.cancelled, id)
	delete(d.pending, id)
}

func (d *recordingDispatcher) isPending(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[id]
	return ok
}

func (d *recordingDispatcher) pendingFor(id string) (notifier.Notification, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.pending[id]
	return n, ok
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type testEnv struct {
	store      *Store
	kv         *storage.MemoryStore
	dispatcher *recordingDispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	kv := storage.NewMemoryStore()
	d := newRecordingDispatcher()
	s := New(kv, d,
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
		WithIDGenerator(sequentialIDs()),
	)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return &testEnv{store: s, kv: kv, dispatcher: d}
}

func (e *testEnv) category(t *testing.T, name string) models.Category {
	t.Helper()
	c, err := e.store.AddCategory(name, "📁", constants.ColorWork)
	if err != nil {
		t.Fatalf("AddCategory(%q) error = %v", name, err)
	}
	return c
}

func (e *testEnv) reminder(t *testing.T, in models.NewReminder) models.Reminder {
	t.Helper()
	r, err := e.store.AddReminder(in)
	if err != nil {
		t.Fatalf("AddReminder(%q) error = %v", in.Title, err)
	}
	return r
}

func ptr[T any](v T) *T {
	return &v
}

package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/storage"
)

// QueueDispatcher records pending notifications in the key-value store so that a
// later process (cron-driven `remindme notify` or the daemon) can deliver them.
// Entries whose time has passed are delivered on the next DeliverDue.
type QueueDispatcher struct {
	kv  storage.Provider
	now func() time.Time
	mu  sync.Mutex
}

// NewQueueDispatcher returns a dispatcher backed by kv. A nil now uses time.Now.
func NewQueueDispatcher(kv storage.Provider, now func() time.Time) *QueueDispatcher {
	if now == nil {
		now = time.Now
	}
	return &QueueDispatcher{kv: kv, now: now}
}

func (q *QueueDispatcher) load() ([]Notification, error) {
	data, err := q.kv.Get(constants.NotificationsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read notification queue: %w", err)
	}

	var queue []Notification
	if err := json.Unmarshal(data, &queue); err != nil {
		return nil, fmt.Errorf("failed to parse notification queue: %w", err)
	}
	return queue, nil
}

func (q *QueueDispatcher) save(queue []Notification) error {
	if queue == nil {
		queue = []Notification{}
	}
	slices.SortStableFunc(queue, func(a, b Notification) int {
		return a.At.Compare(b.At)
	})

	data, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("failed to serialize notification queue: %w", err)
	}
	if err := q.kv.Set(constants.NotificationsKey, data); err != nil {
		return fmt.Errorf("failed to write notification queue: %w", err)
	}
	return nil
}

func (q *QueueDispatcher) Schedule(n Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, err := q.load()
	if err != nil {
		return err
	}

	queue = slices.DeleteFunc(queue, func(existing Notification) bool { return existing.ID == n.ID })
	queue = append(queue, n)

	return q.save(queue)
}

func (q *QueueDispatcher) Cancel(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, err := q.load()
	if err != nil {
		logger.Warn("Failed to cancel notification", "id", id, "error", err)
		return
	}

	remaining := slices.DeleteFunc(slices.Clone(queue), func(n Notification) bool { return n.ID == id })
	if len(remaining) == len(queue) {
		return
	}

	if err := q.save(remaining); err != nil {
		logger.Warn("Failed to cancel notification", "id", id, "error", err)
	}
}

// Pending returns every queued notification ordered by time.
func (q *QueueDispatcher) Pending() ([]Notification, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, err := q.load()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(queue, func(a, b Notification) int { return a.At.Compare(b.At) })
	return queue, nil
}

// Due returns the queued notifications whose time is at or before now.
func (q *QueueDispatcher) Due() ([]Notification, error) {
	pending, err := q.Pending()
	if err != nil {
		return nil, err
	}

	now := q.now()
	var due []Notification
	for _, n := range pending {
		if !n.At.After(now) {
			due = append(due, n)
		}
	}
	return due, nil
}

// DeliverDue hands every due notification to sink and removes the delivered ones.
// Failed deliveries stay queued for the next run. It returns how many were delivered.
func (q *QueueDispatcher) DeliverDue(ctx context.Context, sink Sink) (int, error) {
	due, err := q.Due()
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	var delivered []Notification
	var errs []error
	for _, n := range due {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := sink.Deliver(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("notification %s: %w", n.ID, err))
			continue
		}
		delivered = append(delivered, n)
	}

	if len(delivered) > 0 {
		if err := q.remove(delivered); err != nil {
			errs = append(errs, err)
		}
	}

	logger.Debug("Delivered due notifications", "delivered", len(delivered), "failed", len(due)-len(delivered))
	return len(delivered), errors.Join(errs...)
}

// remove drops delivered entries, leaving any that were rescheduled meanwhile.
func (q *QueueDispatcher) remove(delivered []Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, err := q.load()
	if err != nil {
		return err
	}

	queue = slices.DeleteFunc(queue, func(n Notification) bool {
		return slices.ContainsFunc(delivered, func(d Notification) bool {
			return d.ID == n.ID && d.At.Equal(n.At)
		})
	})
	return q.save(queue)
}

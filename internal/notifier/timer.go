package notifier

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/julianstephens/remindme/internal/logger"
)

var ErrDispatcherStopped = errors.New("dispatcher stopped")

type timerEntry struct {
	token uint64
	timer *time.Timer
	n     Notification
}

// TimerDispatcher delivers notifications from in-process timers, one per ID.
// Each timer carries a token; a timer whose token no longer matches the side map
// was cancelled or replaced and does nothing when it fires.
// Notifications whose time has already passed fire immediately.
type TimerDispatcher struct {
	ctx  context.Context
	sink Sink
	now  func() time.Time

	mu        sync.Mutex
	pending   map[string]*timerEntry
	nextToken uint64
	stopped   bool
}

func NewTimerDispatcher(ctx context.Context, sink Sink) *TimerDispatcher {
	return &TimerDispatcher{
		ctx:     ctx,
		sink:    sink,
		now:     time.Now,
		pending: make(map[string]*timerEntry),
	}
}

func (d *TimerDispatcher) Schedule(n Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	if prev, ok := d.pending[n.ID]; ok {
		prev.timer.Stop()
	}

	delay := n.At.Sub(d.now())
	if delay < 0 {
		delay = 0
	}

	d.nextToken++
	token := d.nextToken
	entry := &timerEntry{token: token, n: n}
	entry.timer = time.AfterFunc(delay, func() { d.fire(n.ID, token) })
	d.pending[n.ID] = entry

	logger.Debug("Notification scheduled", "id", n.ID, "at", n.At, "in", delay)
	return nil
}

func (d *TimerDispatcher) Cancel(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, ok := d.pending[id]; ok {
		entry.timer.Stop()
		delete(d.pending, id)
		logger.Debug("Notification cancelled", "id", id)
	}
}

func (d *TimerDispatcher) fire(id string, token uint64) {
	d.mu.Lock()
	entry, ok := d.pending[id]
	if !ok || entry.token != token {
		d.mu.Unlock()
		return
	}
	delete(d.pending, id)
	d.mu.Unlock()

	if err := d.sink.Deliver(d.ctx, entry.n); err != nil {
		logger.Error("Failed to deliver notification", "id", id, "error", err)
	}
}

// Pending reports whether a notification for id is waiting to fire.
func (d *TimerDispatcher) Pending(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[id]
	return ok
}

// PendingIDs returns the ids of waiting notifications in sorted order.
func (d *TimerDispatcher) PendingIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]string, 0, len(d.pending))
	for id := range d.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Reset cancels every pending notification.
func (d *TimerDispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, entry := range d.pending {
		entry.timer.Stop()
		delete(d.pending, id)
	}
}

// Stop cancels everything and rejects further Schedule calls.
func (d *TimerDispatcher) Stop() {
	d.Reset()

	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}

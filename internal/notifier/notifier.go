package notifier

import (
	"context"
	"time"
)

// Notification is a single alert to present at At. ID is the reminder id,
// so scheduling the same ID again replaces the earlier one.
type Notification struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

// Dispatcher arranges for notifications to be presented later.
// Schedule replaces any pending notification with the same ID. Cancel is idempotent.
type Dispatcher interface {
	Schedule(n Notification) error
	Cancel(id string)
}

// Sink presents a notification to the user right now.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// Discard drops everything. Used by processes that only edit data while a daemon owns delivery.
type Discard struct{}

func (Discard) Schedule(Notification) error { return nil }
func (Discard) Cancel(string)               {}

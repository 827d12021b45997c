package system

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/notifier"
	"github.com/julianstephens/remindme/internal/reminders"
	"github.com/julianstephens/remindme/internal/storage"
)

type recordingSink struct {
	delivered chan notifier.Notification
}

func newRecordingSink() *recordingSink {
	return &recordingSink{delivered: make(chan notifier.Notification, 16)}
}

func (s *recordingSink) Deliver(_ context.Context, n notifier.Notification) error {
	s.delivered <- n
	return nil
}

func (s *recordingSink) wait(t *testing.T) notifier.Notification {
	t.Helper()
	select {
	case n := <-s.delivered:
		return n
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a notification")
		return notifier.Notification{}
	}
}

func TestDaemonCmd_Validate(t *testing.T) {
	for _, mode := range []string{"", constants.NotifierModeQueue, constants.NotifierModeTimer} {
		if err := (&DaemonCmd{Mode: mode}).Validate(); err != nil {
			t.Errorf("mode %q: unexpected error %v", mode, err)
		}
	}
	if err := (&DaemonCmd{Mode: "cron"}).Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func startDaemon(t *testing.T, cmd *DaemonCmd, run func(context.Context) error) (stop func()) {
	t.Helper()
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(runCtx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("daemon returned error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("daemon did not stop")
		}
	}
}

func waitForEmptyQueue(t *testing.T, q *notifier.QueueDispatcher) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		pending, err := q.Pending()
		if err != nil {
			t.Fatalf("Pending failed: %v", err)
		}
		if len(pending) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for the queue to drain")
}

func TestDaemonCmd_QueueMode(t *testing.T) {
	ctx, _ := setupTestContext(t, nil)
	sink := newRecordingSink()
	cmd := &DaemonCmd{Mode: constants.NotifierModeQueue, sink: sink}

	queue := notifier.NewQueueDispatcher(ctx.Provider, nil)
	queueNotifications(t, queue, notifier.Notification{ID: "first", Title: "First", At: time.Now().Add(-time.Minute)})

	stop := startDaemon(t, cmd, func(runCtx context.Context) error { return cmd.run(runCtx, ctx) })
	defer stop()

	if n := sink.wait(t); n.ID != "first" {
		t.Errorf("expected first notification, got %q", n.ID)
	}
	waitForEmptyQueue(t, queue)

	queueNotifications(t, queue, notifier.Notification{ID: "second", Title: "Second", At: time.Now()})
	if n := sink.wait(t); n.ID != "second" {
		t.Errorf("expected second notification on a later tick, got %q", n.ID)
	}
}

func TestDaemonCmd_TimerModePicksUpChanges(t *testing.T) {
	ctx, _ := setupTestContext(t, nil)
	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	sink := newRecordingSink()
	cmd := &DaemonCmd{Mode: constants.NotifierModeTimer, sink: sink}

	stop := startDaemon(t, cmd, func(runCtx context.Context) error { return cmd.run(runCtx, ctx) })
	defer stop()

	// A snooze ending shortly is the quickest way to get an alarm that is still ahead.
	snoozed := time.Now().Add(time.Second)
	doc := models.Export{
		Version:    constants.ExportVersion,
		Categories: []models.Category{{ID: "cat-1", Name: "Home", Icon: "🏠", Color: constants.ColorPersonal}},
		Reminders: []models.Reminder{{
			ID:             "rem-1",
			CategoryID:     "cat-1",
			Title:          "Take out bins",
			Date:           "2024-03-15",
			Time:           "08:00",
			IsAlarmEnabled: true,
			Priority:       constants.PriorityMedium,
			Recurrence:     constants.RecurrenceNone,
			SnoozedUntil:   &snoozed,
		}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal import: %v", err)
	}
	if err := ctx.Store.ImportData(data); err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}

	n := sink.wait(t)
	if n.ID != "rem-1" || n.Title != "Home: Take out bins" {
		t.Errorf("unexpected notification: %+v", n)
	}

	// The daemon is running now, so an alarm that is already due must fire at once.
	due, err := ctx.Store.AddReminder(models.NewReminder{
		CategoryID: "cat-1", Title: "Call plumber", Date: "2024-03-15", Time: "09:00", IsAlarmEnabled: true,
	})
	if err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}
	if n := sink.wait(t); n.ID != due.ID {
		t.Errorf("expected the already due alarm to be delivered, got %+v", n)
	}
}

func TestDaemonCmd_UnknownSink(t *testing.T) {
	ctx, _ := setupTestContext(t, nil)
	ctx.Config.Notifier.Sink = "pager"

	if err := (&DaemonCmd{}).run(context.Background(), ctx); err == nil {
		t.Error("expected error for unknown sink")
	}
}

func TestDaemonCmd_QueueModeSeesOtherProcesses(t *testing.T) {
	cliProvider := newJSONProvider(t)
	if err := cliProvider.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	daemonProvider := storage.NewJSONStore(cliProvider.GetConfigPath())
	if err := daemonProvider.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	daemonCtx, _ := setupTestContext(t, daemonProvider)
	sink := newRecordingSink()
	cmd := &DaemonCmd{Mode: constants.NotifierModeQueue, sink: sink}
	stop := startDaemon(t, cmd, func(runCtx context.Context) error { return cmd.run(runCtx, daemonCtx) })
	defer stop()

	queue := notifier.NewQueueDispatcher(cliProvider, nil)
	cliStore := reminders.New(cliProvider, queue,
		reminders.WithClock(func() time.Time { return testNow }),
		reminders.WithLocation(time.UTC))
	if err := cliStore.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	cat, err := cliStore.AddCategory("Home", "🏠", constants.ColorPersonal)
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	r, err := cliStore.AddReminder(models.NewReminder{
		CategoryID: cat.ID, Title: "Water plants", Date: "2024-03-15", Time: "08:00", IsAlarmEnabled: true,
	})
	if err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}

	if n := sink.wait(t); n.ID != r.ID {
		t.Errorf("expected notification for %s, got %q", r.ID, n.ID)
	}
	waitForEmptyQueue(t, queue)

	reopened := storage.NewJSONStore(cliProvider.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	check := reminders.New(reopened, nil)
	if err := check.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	if len(check.Categories()) != 1 || len(check.Reminders()) != 1 {
		t.Errorf("expected the daemon's queue update to keep other data, got %d categories and %d reminders",
			len(check.Categories()), len(check.Reminders()))
	}
}

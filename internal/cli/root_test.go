package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/remindme/internal/config"
	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/notifier"
	"github.com/julianstephens/remindme/internal/reminders"
	"github.com/julianstephens/remindme/internal/storage"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	store := reminders.New(storage.NewMemoryStore(), nil,
		reminders.WithClock(func() time.Time { return testNow }),
		reminders.WithLocation(time.UTC),
	)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	out := &bytes.Buffer{}
	return &Context{Store: store, Out: out, ConfigDir: t.TempDir()}, out
}

func TestParseDateArg(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2024-03-15", false},
		{"today", "2024-03-15", false},
		{"Tomorrow", "2024-03-16", false},
		{"+3", "2024-03-18", false},
		{"+0", "2024-03-15", false},
		{"2024-12-25", "2024-12-25", false},
		{"+x", "", true},
		{"+-2", "", true},
		{"25/12/2024", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDateArg(tt.in, testNow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDateArg(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDateArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveCategory(t *testing.T) {
	ctx, _ := setupTestContext(t)
	work, err := ctx.Store.AddCategory("Work", "💼", constants.ColorWork)
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}

	if got, err := ctx.ResolveCategory(work.ID); err != nil || got.ID != work.ID {
		t.Errorf("expected lookup by id, got %+v, %v", got, err)
	}
	if got, err := ctx.ResolveCategory("work"); err != nil || got.ID != work.ID {
		t.Errorf("expected case-insensitive name lookup, got %+v, %v", got, err)
	}
	if _, err := ctx.ResolveCategory("Play"); err == nil {
		t.Error("expected error for unknown category")
	}

	if _, err := ctx.Store.AddCategory("Work", "🏢", constants.ColorWork); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if _, err := ctx.ResolveCategory("Work"); err == nil {
		t.Error("expected error for ambiguous name")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"yes", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			ctx, out := setupTestContext(t)
			ctx.In = strings.NewReader(tt.input)

			got, err := ctx.Confirm("Proceed?")
			if err != nil {
				t.Fatalf("Confirm failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Proceed? [y/N]") {
				t.Errorf("expected prompt, got %q", out.String())
			}
		})
	}
}

func TestReportNotificationError(t *testing.T) {
	ctx, _ := setupTestContext(t)

	notifyErr := fmt.Errorf("%w for reminder r1: %w", reminders.ErrNotificationFailed, errors.New("denied"))
	saveErr := fmt.Errorf("%w reminders: %w", reminders.ErrSaveFailed, errors.New("disk full"))
	other := errors.New("boom")

	if err := ctx.ReportNotificationError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := ctx.ReportNotificationError(notifyErr); err != nil {
		t.Errorf("expected notification failure to be downgraded, got %v", err)
	}
	if err := ctx.ReportNotificationError(errors.Join(saveErr, notifyErr)); err == nil {
		t.Error("expected save failure to pass through")
	}
	if err := ctx.ReportNotificationError(other); err != other {
		t.Errorf("expected other errors to pass through, got %v", err)
	}
}

func TestSink(t *testing.T) {
	ctx, out := setupTestContext(t)

	sink, err := ctx.Sink(out)
	if err != nil {
		t.Fatalf("Sink failed: %v", err)
	}
	if _, ok := sink.(*notifier.TraySink); !ok {
		t.Errorf("expected tray sink by default, got %T", sink)
	}

	ctx.Config = &config.Config{Notifier: config.NotifierConfig{Sink: constants.NotifierSinkLog}}
	sink, err = ctx.Sink(out)
	if err != nil {
		t.Fatalf("Sink failed: %v", err)
	}
	if _, ok := sink.(*notifier.LogSink); !ok {
		t.Errorf("expected log sink, got %T", sink)
	}

	ctx.Config.Notifier.Sink = "pager"
	if _, err := ctx.Sink(out); err == nil {
		t.Error("expected error for unknown sink")
	}
}

func TestPerformAutomaticBackup(t *testing.T) {
	ctx, _ := setupTestContext(t)

	ctx.PerformAutomaticBackup()

	backups, err := ctx.BackupManager().ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 automatic backup, got %d", len(backups))
	}
}

func TestDueIn(t *testing.T) {
	tests := []struct {
		name string
		r    models.Reminder
		want string
	}{
		{"future", models.Reminder{Date: "2024-03-17", Time: "10:00"}, "2 days from now"},
		{"past", models.Reminder{Date: "2024-03-15", Time: "07:00"}, "3 hours ago"},
		{"all day", models.Reminder{Date: "2024-03-15"}, "1 hour ago"},
		{"bad date", models.Reminder{Date: "soon"}, "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DueIn(tt.r, testNow, constants.DefaultAllDayTime); got != tt.want {
				t.Errorf("DueIn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatReminder(t *testing.T) {
	cat := models.Category{ID: "c1", Name: "Work", Icon: "💼", Color: constants.ColorWork}
	r := models.Reminder{
		ID:                 "r1",
		Title:              "Ship release",
		Date:               "2024-03-16",
		Time:               "09:30",
		IsAlarmEnabled:     true,
		AlarmMinutesBefore: 15,
		Priority:           constants.PriorityHigh,
		Recurrence:         constants.RecurrenceWeekly,
		Tags:               []string{"release"},
	}

	line := FormatReminder(r, cat, testNow, constants.DefaultAllDayTime, true)
	for _, want := range []string{"[ ]", "Ship release", "2024-03-16 09:30", "Work", "Weekly", "15m", "#release", "r1"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}

	r.IsCompleted = true
	line = FormatReminder(r, cat, testNow, constants.DefaultAllDayTime, false)
	if !strings.Contains(line, "[x]") {
		t.Errorf("expected completed marker in %q", line)
	}
	if strings.Contains(line, "r1") {
		t.Errorf("expected no id without showIDs in %q", line)
	}
}

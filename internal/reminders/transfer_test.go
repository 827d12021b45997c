package reminders

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/storage"
)

func TestExportImport_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	work := env.category(t, "Work")
	home := env.category(t, "Home")
	env.reminder(t, models.NewReminder{
		CategoryID: work.ID, Title: "Standup", Date: "2024-01-11", Time: "09:30",
		IsAlarmEnabled: true, AlarmMinutesBefore: 5, Recurrence: constants.RecurrenceDaily, Tags: []string{"team"},
	})
	r := env.reminder(t, models.NewReminder{CategoryID: home.ID, Title: "Laundry", Date: "2024-01-10", Description: "Whites"})
	if err := env.store.SnoozeReminder(r.ID, 30); err != nil {
		t.Fatalf("SnoozeReminder() error = %v", err)
	}

	export := env.store.ExportData()
	if export.Version != constants.ExportVersion || !export.ExportedAt.Equal(fixedNow) {
		t.Errorf("unexpected export header: %s %v", export.Version, export.ExportedAt)
	}
	data, err := json.Marshal(export)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	other := newTestEnv(t)
	other.category(t, "To be replaced")
	if err := other.store.ImportData(data); err != nil {
		t.Fatalf("ImportData() error = %v", err)
	}

	if !reflect.DeepEqual(other.store.Categories(), env.store.Categories()) {
		t.Errorf("categories differ after round trip:\n got %+v\nwant %+v", other.store.Categories(), env.store.Categories())
	}
	if !reflect.DeepEqual(other.store.Reminders(), env.store.Reminders()) {
		t.Errorf("reminders differ after round trip:\n got %+v\nwant %+v", other.store.Reminders(), env.store.Reminders())
	}
}

func TestImportData_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"missing version", `{"categories":[],"reminders":[]}`},
		{"missing categories", `{"version":"1.0","reminders":[]}`},
		{"missing reminders", `{"version":"1.0","categories":[]}`},
		{"null reminders", `{"version":"1.0","categories":[],"reminders":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			c := env.category(t, "Work")

			err := env.store.ImportData([]byte(tt.data))
			if !errors.Is(err, ErrInvalidImport) {
				t.Fatalf("expected ErrInvalidImport, got %v", err)
			}
			if got := env.store.Categories(); len(got) != 1 || got[0].ID != c.ID {
				t.Errorf("failed import changed the store: %+v", got)
			}
		})
	}
}

func TestImportData_SchedulesFutureAlarmsOnly(t *testing.T) {
	env := newTestEnv(t)
	data := `{
		"version": "1.0",
		"categories": [{"id": "c1", "name": "Work", "icon": "💼", "color": "work"}],
		"reminders": [
			{"id": "past", "categoryId": "c1", "title": "Past", "date": "2024-01-09", "time": "09:00", "isAlarmEnabled": true, "priority": "low", "recurrence": "none"},
			{"id": "future", "categoryId": "c1", "title": "Future", "date": "2024-01-11", "time": "09:00", "isAlarmEnabled": true, "priority": "low", "recurrence": "none"},
			{"id": "done", "categoryId": "c1", "title": "Done", "date": "2024-01-12", "time": "09:00", "isAlarmEnabled": true, "isCompleted": true, "priority": "low", "recurrence": "none"}
		]
	}`

	if err := env.store.ImportData([]byte(data)); err != nil {
		t.Fatalf("ImportData() error = %v", err)
	}

	if env.dispatcher.isPending("past") {
		t.Error("expected elapsed alarm not to be re-fired")
	}
	if !env.dispatcher.isPending("future") {
		t.Error("expected future alarm to be scheduled")
	}
	if env.dispatcher.isPending("done") {
		t.Error("expected completed reminder not to be scheduled")
	}
}

func TestImportData_CancelsReplacedAlarms(t *testing.T) {
	env := newTestEnv(t)
	c := env.category(t, "Work")
	r := env.reminder(t, models.NewReminder{CategoryID: c.ID, Title: "Old", Date: "2024-01-12", IsAlarmEnabled: true})

	if err := env.store.ImportData([]byte(`{"version":"1.0","categories":[],"reminders":[]}`)); err != nil {
		t.Fatalf("ImportData() error = %v", err)
	}
	if env.dispatcher.isPending(r.ID) {
		t.Error("expected alarms of replaced reminders to be cancelled")
	}
	if len(env.store.Reminders()) != 0 || len(env.store.Categories()) != 0 {
		t.Error("expected collections to be replaced")
	}
}

func TestExportImportCategory(t *testing.T) {
	env := newTestEnv(t)
	work := env.category(t, "Work")
	env.category(t, "Home")
	env.reminder(t, models.NewReminder{CategoryID: work.ID, Title: "Standup", Date: "2024-01-11", Time: "09:30", IsAlarmEnabled: true})
	env.reminder(t, models.NewReminder{CategoryID: work.ID, Title: "Retro", Date: "2024-01-12"})

	data, err := env.store.ExportCategory(work.ID)
	if err != nil {
		t.Fatalf("ExportCategory() error = %v", err)
	}

	var doc models.CategoryExport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("exported category is not valid JSON: %v", err)
	}
	if doc.Category.Name != "Work" || len(doc.Reminders) != 2 {
		t.Errorf("unexpected export: %+v", doc)
	}

	later := fixedNow.Add(time.Hour)
	env.store.now = func() time.Time { return later }

	imported, err := env.store.ImportCategory(data)
	if err != nil {
		t.Fatalf("ImportCategory() error = %v", err)
	}
	if imported.ID == work.ID || imported.Name != "Work" || !imported.CreatedAt.Equal(later) {
		t.Errorf("unexpected imported category: %+v", imported)
	}

	copies := env.store.RemindersByCategory(imported.ID)
	if len(copies) != 2 {
		t.Fatalf("expected 2 imported reminders, got %d", len(copies))
	}
	for _, r := range copies {
		if r.ID == "" || !r.CreatedAt.Equal(later) {
			t.Errorf("expected fresh identity, got %+v", r)
		}
	}
	if len(env.store.RemindersByCategory(work.ID)) != 2 {
		t.Error("expected the original category to be untouched")
	}
	if !env.dispatcher.isPending(copies[0].ID) {
		t.Error("expected imported alarm to be scheduled")
	}
}

func TestExportCategory_Unknown(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.store.ExportCategory("missing"); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestImportCategory_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing category", `{"version":"1.0","reminders":[]}`},
		{"missing reminders", `{"version":"1.0","category":{"name":"Work"}}`},
		{"blank name", `{"version":"1.0","category":{"name":" "},"reminders":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(storage.NewMemoryStore(), nil)
			if _, err := s.ImportCategory([]byte(tt.data)); !errors.Is(err, ErrInvalidImport) {
				t.Errorf("expected ErrInvalidImport, got %v", err)
			}
			if len(s.Categories()) != 0 {
				t.Error("expected nothing to be imported")
			}
		})
	}
}

func TestRescheduleAll(t *testing.T) {
	env := newTestEnv(t)
	c := env.category(t, "Work")
	past := env.reminder(t, models.NewReminder{CategoryID: c.ID, Title: "Past", Date: "2024-01-09", IsAlarmEnabled: true})
	future := env.reminder(t, models.NewReminder{CategoryID: c.ID, Title: "Future", Date: "2024-01-11", IsAlarmEnabled: true})

	fresh := newRecordingDispatcher()
	reloaded := New(env.kv, fresh, WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := reloaded.RescheduleAll(); err != nil {
		t.Fatalf("RescheduleAll() error = %v", err)
	}

	if fresh.isPending(past.ID) {
		t.Error("expected elapsed alarm to be skipped")
	}
	if !fresh.isPending(future.ID) {
		t.Error("expected future alarm to be registered")
	}
}

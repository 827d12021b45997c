package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "remindme.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_InitCreatesSchema(t *testing.T) {
	store := setupSQLiteStore(t)

	var count int
	row := store.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = 'kv'")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("failed to inspect schema: %v", err)
	}
	if count != 1 {
		t.Errorf("kv table not created")
	}

	// Running migrations again is harmless.
	if err := store.Init(); err != nil {
		t.Errorf("second Init() failed: %v", err)
	}
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("Load() error = %v, want not initialized", err)
	}
}

func TestSQLiteStore_GetSet(t *testing.T) {
	store := setupSQLiteStore(t)

	if _, err := store.Get("categories"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}

	if err := store.Set("categories", []byte(`[{"id":"c1"}]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("categories", []byte(`[{"id":"c2"}]`)); err != nil {
		t.Fatalf("overwrite Set() failed: %v", err)
	}

	path := store.GetConfigPath()
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened := NewSQLiteStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("categories")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != `[{"id":"c2"}]` {
		t.Errorf("Get() = %s, want last written value", got)
	}
}

func TestSQLiteStore_NotLoaded(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "remindme.db"))
	if err := store.Set("k", []byte("v")); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Set() error = %v, want ErrNotLoaded", err)
	}
}

func TestSQLiteStore_WatchSeesExternalWrites(t *testing.T) {
	store := setupSQLiteStore(t)
	store.SetPollInterval(20 * time.Millisecond)
	if err := store.Set("reminders", []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got := make(chan string, 16)
	store.Subscribe("reminders", func(v []byte) { got <- string(v) })

	other := NewSQLiteStore(store.GetConfigPath())
	if err := other.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer other.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Watch(ctx)

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case v := <-got:
			if !strings.HasPrefix(v, `[{"id":"ext-`) {
				t.Errorf("unexpected value from watcher: %s", v)
			}
			return
		case <-ticker.C:
			if err := other.Set("reminders", []byte(fmt.Sprintf(`[{"id":"ext-%d"}]`, i))); err != nil {
				t.Fatalf("external Set() failed: %v", err)
			}
		case <-deadline:
			t.Fatal("watcher did not report the external write")
		}
	}
}

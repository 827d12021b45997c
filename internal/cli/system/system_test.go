package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/remindme/internal/cli"
	"github.com/julianstephens/remindme/internal/config"
	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/reminders"
	"github.com/julianstephens/remindme/internal/storage"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Storage:   config.StorageConfig{Backend: constants.BackendJSON},
		Notifier:  config.NotifierConfig{Mode: constants.NotifierModeQueue, Sink: constants.NotifierSinkLog, PollInterval: 10 * time.Millisecond},
		Reminders: config.RemindersConfig{AllDayTime: "09:00"},
	}
}

// setupTestContext wires a context around provider. A nil provider means an in-memory store.
func setupTestContext(t *testing.T, provider storage.Provider) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	if provider == nil {
		provider = storage.NewMemoryStore()
	}
	store := reminders.New(provider, nil,
		reminders.WithClock(func() time.Time { return testNow }),
		reminders.WithLocation(time.UTC))

	out := &bytes.Buffer{}
	return &cli.Context{
		Config:    testConfig(),
		ConfigDir: t.TempDir(),
		Provider:  provider,
		Store:     store,
		Out:       out,
	}, out
}

func newJSONProvider(t *testing.T) *storage.JSONStore {
	t.Helper()
	return storage.NewJSONStore(filepath.Join(t.TempDir(), "remindme.json"))
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/utils"
)

type Config struct {
	Timezone  string          `koanf:"timezone"`
	Debug     bool            `koanf:"debug"`
	Storage   StorageConfig   `koanf:"storage"`
	Notifier  NotifierConfig  `koanf:"notifier"`
	Reminders RemindersConfig `koanf:"reminders"`
	Backup    BackupConfig    `koanf:"backup"`

	path   string // config file location, whether or not it exists
	loaded bool
}

type StorageConfig struct {
	Backend string `koanf:"backend"` // json, sqlite or postgres
	Path    string `koanf:"path"`    // file path for json/sqlite
	DSN     string `koanf:"dsn"`     // postgres connection string without password
}

type NotifierConfig struct {
	Mode              string        `koanf:"mode"` // queue or timer
	Sink              string        `koanf:"sink"` // tray or log
	PollInterval      time.Duration `koanf:"poll_interval"`
	TrayAppIdentifier string        `koanf:"tray_app_identifier"`
}

type RemindersConfig struct {
	AllDayTime          string `koanf:"all_day_time"`
	DefaultAlarmMinutes int    `koanf:"default_alarm_minutes"`
}

type BackupConfig struct {
	MaxBackups int `koanf:"max_backups"`
}

// Load layers defaults, the YAML file at configPath (when present), a .env file in the
// working directory and REMINDME_ environment variables, in that order.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	loaded := false
	if configPath != "" {
		configPath = ExpandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
			loaded = true
		}
	}

	// A missing .env is the common case.
	_ = godotenv.Load()

	if err := k.Load(env.Provider(constants.EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.path = configPath
	cfg.loaded = loaded

	return &cfg, nil
}

// envKey maps REMINDME_NOTIFIER__POLL_INTERVAL to notifier.poll_interval.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, constants.EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case constants.BackendJSON, constants.BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	case constants.BackendPostgres:
	default:
		return fmt.Errorf("unknown storage backend: %s (supported: %s, %s, %s)",
			c.Storage.Backend, constants.BackendJSON, constants.BackendSQLite, constants.BackendPostgres)
	}

	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone: %s", c.Timezone)
	}

	switch c.Notifier.Mode {
	case constants.NotifierModeQueue, constants.NotifierModeTimer:
	default:
		return fmt.Errorf("unknown notifier mode: %s (supported: %s, %s)",
			c.Notifier.Mode, constants.NotifierModeQueue, constants.NotifierModeTimer)
	}

	switch c.Notifier.Sink {
	case constants.NotifierSinkTray, constants.NotifierSinkLog:
	default:
		return fmt.Errorf("unknown notifier sink: %s (supported: %s, %s)",
			c.Notifier.Sink, constants.NotifierSinkTray, constants.NotifierSinkLog)
	}

	if c.Notifier.PollInterval <= 0 {
		return fmt.Errorf("notifier.poll_interval must be positive")
	}

	if !utils.ValidateTimeFormat(c.Reminders.AllDayTime) {
		return fmt.Errorf("invalid reminders.all_day_time: %s (expected HH:MM)", c.Reminders.AllDayTime)
	}

	if c.Reminders.DefaultAlarmMinutes < 0 {
		return fmt.Errorf("reminders.default_alarm_minutes cannot be negative")
	}

	if c.Backup.MaxBackups <= 0 {
		return fmt.Errorf("backup.max_backups must be positive")
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// ConfigDir is the directory holding logs, backups and the notifier lockfile.
func (c *Config) ConfigDir() string {
	if c.path != "" {
		return filepath.Dir(c.path)
	}
	return ExpandPath(constants.DefaultConfigDir)
}

// Path returns the config file location and whether it was read.
func (c *Config) Path() (string, bool) {
	return c.path, c.loaded
}

func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}

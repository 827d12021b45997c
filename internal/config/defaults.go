package config

import (
	"github.com/knadh/koanf/providers/confmap"

	"github.com/julianstephens/remindme/internal/constants"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"timezone": constants.DefaultTimezone,
		"debug":    false,
		"storage": map[string]interface{}{
			"backend": constants.DefaultStorageBackend,
			"path":    constants.DefaultDataPath,
			"dsn":     "",
		},
		"notifier": map[string]interface{}{
			"mode":                constants.DefaultNotifierMode,
			"sink":                constants.DefaultNotifierSink,
			"poll_interval":       constants.DefaultNotifierPollIntervalS,
			"tray_app_identifier": constants.TrayAppIdentifier,
		},
		"reminders": map[string]interface{}{
			"all_day_time":          constants.DefaultAllDayTime,
			"default_alarm_minutes": constants.DefaultAlarmMinutesBefore,
		},
		"backup": map[string]interface{}{
			"max_backups": constants.MaxBackups,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return constants.DefaultConfigFile
}

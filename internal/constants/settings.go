package constants

const (
	// Config keys
	SettingStorageBackend        = "storage.backend"
	SettingStoragePath           = "storage.path"
	SettingStorageDSN            = "storage.dsn"
	SettingTimezone              = "timezone"
	SettingDebug                 = "debug"
	SettingNotifierMode          = "notifier.mode"
	SettingNotifierSink          = "notifier.sink"
	SettingNotifierPollInterval  = "notifier.poll_interval"
	SettingTrayAppIdentifier     = "notifier.tray_app_identifier"
	SettingAllDayTime            = "reminders.all_day_time"
	SettingDefaultAlarmMinutes   = "reminders.default_alarm_minutes"
	SettingBackupMaxBackups      = "backup.max_backups"
	EnvPrefix                    = "REMINDME_"
	DefaultTimezone              = "Local" // Use system local timezone by default
	DefaultStorageBackend        = BackendJSON
	DefaultNotifierMode          = NotifierModeQueue
	DefaultNotifierSink          = NotifierSinkTray
	DefaultNotifierPollIntervalS = "30s"
)

package constants

import "time"

// CategoryColor is the display color family of a category
type CategoryColor string

// Priority is the urgency of a reminder
type Priority string

// RecurrenceType is how often a reminder repeats once completed
type RecurrenceType string

const (
	AppName            = "remindme"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/remindme"
	DefaultConfigFile  = "~/.config/remindme/config.yaml"
	DefaultDataPath    = "~/.config/remindme/remindme.json"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Storage keys
	CategoriesKey    = "categories"
	RemindersKey     = "reminders"
	NotificationsKey = "notifications"

	// Storage backends
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	// Export constants
	ExportVersion = "1.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "remindme-"
	BackupFileSuffix = ".json"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "remindme-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.remindme"
	TrayExecutablePrefix   = "remindme-tray"
	NotifierModeQueue      = "queue"
	NotifierModeTimer      = "timer"
	NotifierSinkTray       = "tray"
	NotifierSinkLog        = "log"
	DefaultPollInterval    = 30 * time.Second

	// Notification content
	DefaultNotificationBody = "You have a reminder"

	// Placeholder used when a reminder references a category that no longer exists
	UnknownCategoryName = "Uncategorized"
	UnknownCategoryIcon = "📌"

	// Reminder defaults
	DefaultAllDayTime         = "09:00"
	DefaultAlarmMinutesBefore = 15

	// Category colors
	ColorWork     CategoryColor = "work"
	ColorPersonal CategoryColor = "personal"
	ColorFriends  CategoryColor = "friends"
	ColorHealth   CategoryColor = "health"
	ColorFinance  CategoryColor = "finance"
	ColorDefault  CategoryColor = "default"

	// Priorities
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	// Recurrence constants
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// DefaultCategory describes a category created on first run
type DefaultCategory struct {
	Name  string
	Icon  string
	Color CategoryColor
}

// DefaultCategories are seeded by `remindme init` into an empty store.
var DefaultCategories = []DefaultCategory{
	{Name: "Work", Icon: "💼", Color: ColorWork},
	{Name: "Personal", Icon: "🏠", Color: ColorPersonal},
	{Name: "Friends", Icon: "👥", Color: ColorFriends},
	{Name: "Health", Icon: "❤️", Color: ColorHealth},
	{Name: "Finance", Icon: "💰", Color: ColorFinance},
}

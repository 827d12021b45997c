package models

import "time"

// Export is the full backup document.
type Export struct {
	Version    string     `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	Categories []Category `json:"categories"`
	Reminders  []Reminder `json:"reminders"`
}

// CategoryExport is the document produced when sharing a single category.
type CategoryExport struct {
	Version    string     `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	Category   Category   `json:"category"`
	Reminders  []Reminder `json:"reminders"`
}

// Stats aggregates reminder counts relative to the current day.
type Stats struct {
	Total              int `json:"total"`
	Completed          int `json:"completed"`
	CompletedToday     int `json:"completedToday"`
	CompletedThisWeek  int `json:"completedThisWeek"`
	CompletedThisMonth int `json:"completedThisMonth"`
	PendingToday       int `json:"pendingToday"`
	PendingThisWeek    int `json:"pendingThisWeek"`
	Overdue            int `json:"overdue"`
}

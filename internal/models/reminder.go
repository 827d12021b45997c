package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/remindme/internal/constants"
)

type Reminder struct {
	ID                 string                   `json:"id"`
	CategoryID         string                   `json:"categoryId"`
	Title              string                   `json:"title"`
	Description        string                   `json:"description,omitempty"`
	Date               string                   `json:"date"`           // YYYY-MM-DD format
	Time               string                   `json:"time,omitempty"` // HH:MM format
	IsAlarmEnabled     bool                     `json:"isAlarmEnabled"`
	AlarmMinutesBefore int                      `json:"alarmMinutesBefore"`
	IsCompleted        bool                     `json:"isCompleted"`
	Priority           constants.Priority       `json:"priority"`
	CreatedAt          time.Time                `json:"createdAt"`
	Recurrence         constants.RecurrenceType `json:"recurrence"`
	RecurrenceEndDate  string                   `json:"recurrenceEndDate,omitempty"` // YYYY-MM-DD format
	SnoozedUntil       *time.Time               `json:"snoozedUntil,omitempty"`
	Tags               []string                 `json:"tags,omitempty"`
}

// NewReminder holds the caller-supplied fields of a reminder about to be created.
type NewReminder struct {
	CategoryID         string
	Title              string
	Description        string
	Date               string
	Time               string
	IsAlarmEnabled     bool
	AlarmMinutesBefore int
	Priority           constants.Priority
	Recurrence         constants.RecurrenceType
	RecurrenceEndDate  string
	Tags               []string
}

// ReminderUpdate carries the fields to overwrite on a reminder. Nil fields keep their value.
type ReminderUpdate struct {
	CategoryID         *string
	Title              *string
	Description        *string
	Date               *string
	Time               *string
	IsAlarmEnabled     *bool
	AlarmMinutesBefore *int
	IsCompleted        *bool
	Priority           *constants.Priority
	Recurrence         *constants.RecurrenceType
	RecurrenceEndDate  *string
	Tags               *[]string
}

// Build turns the creation request into a reminder with the given identity.
func (n NewReminder) Build(id string, createdAt time.Time) Reminder {
	r := Reminder{
		ID:                 id,
		CategoryID:         n.CategoryID,
		Title:              strings.TrimSpace(n.Title),
		Description:        n.Description,
		Date:               n.Date,
		Time:               n.Time,
		IsAlarmEnabled:     n.IsAlarmEnabled,
		AlarmMinutesBefore: n.AlarmMinutesBefore,
		Priority:           n.Priority,
		CreatedAt:          createdAt,
		Recurrence:         n.Recurrence,
		RecurrenceEndDate:  n.RecurrenceEndDate,
		Tags:               slices.Clone(n.Tags),
	}
	r.applyDefaults()
	return r
}

// Apply merges the update into r. It reports whether the due moment moved.
func (u ReminderUpdate) Apply(r *Reminder) (rescheduled bool) {
	if u.CategoryID != nil {
		r.CategoryID = *u.CategoryID
	}
	if u.Title != nil {
		r.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Date != nil && *u.Date != r.Date {
		r.Date = *u.Date
		rescheduled = true
	}
	if u.Time != nil && *u.Time != r.Time {
		r.Time = *u.Time
		rescheduled = true
	}
	if u.IsAlarmEnabled != nil {
		r.IsAlarmEnabled = *u.IsAlarmEnabled
	}
	if u.AlarmMinutesBefore != nil {
		r.AlarmMinutesBefore = *u.AlarmMinutesBefore
	}
	if u.IsCompleted != nil {
		r.IsCompleted = *u.IsCompleted
	}
	if u.Priority != nil {
		r.Priority = *u.Priority
	}
	if u.Recurrence != nil {
		r.Recurrence = *u.Recurrence
	}
	if u.RecurrenceEndDate != nil {
		r.RecurrenceEndDate = *u.RecurrenceEndDate
	}
	if u.Tags != nil {
		r.Tags = slices.Clone(*u.Tags)
	}
	r.applyDefaults()
	return rescheduled
}

func (r *Reminder) applyDefaults() {
	if r.Priority == "" {
		r.Priority = constants.PriorityMedium
	}
	if r.Recurrence == "" {
		r.Recurrence = constants.RecurrenceNone
	}
}

func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("reminder title cannot be empty")
	}

	if _, err := time.Parse(constants.DateFormat, r.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}

	if r.Time != "" {
		if _, err := time.Parse(constants.TimeFormat, r.Time); err != nil {
			return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
		}
	}

	if r.AlarmMinutesBefore < 0 {
		return fmt.Errorf("alarm lead time cannot be negative")
	}

	switch r.Priority {
	case constants.PriorityLow, constants.PriorityMedium, constants.PriorityHigh:
	default:
		return fmt.Errorf("invalid priority: %s (must be low, medium, or high)", r.Priority)
	}

	switch r.Recurrence {
	case constants.RecurrenceNone, constants.RecurrenceDaily, constants.RecurrenceWeekly,
		constants.RecurrenceMonthly, constants.RecurrenceYearly:
	default:
		return fmt.Errorf("invalid recurrence type: %s (must be none, daily, weekly, monthly, or yearly)", r.Recurrence)
	}

	if r.RecurrenceEndDate != "" {
		if _, err := time.Parse(constants.DateFormat, r.RecurrenceEndDate); err != nil {
			return fmt.Errorf("invalid recurrence end date (expected YYYY-MM-DD): %w", err)
		}
	}

	return nil
}

// IsRecurring returns true if completing this reminder spawns a successor
func (r *Reminder) IsRecurring() bool {
	return r.Recurrence != "" && r.Recurrence != constants.RecurrenceNone
}

// Clone returns a deep copy of the reminder.
func (r Reminder) Clone() Reminder {
	r.Tags = slices.Clone(r.Tags)
	if r.SnoozedUntil != nil {
		t := *r.SnoozedUntil
		r.SnoozedUntil = &t
	}
	return r
}

// Matches reports whether the lowercased query is a substring of the title, description, or a tag.
func (r *Reminder) Matches(query string) bool {
	if strings.Contains(strings.ToLower(r.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// FormatRecurrence returns a human-readable string describing the reminder's recurrence pattern
func (r *Reminder) FormatRecurrence() string {
	switch r.Recurrence {
	case constants.RecurrenceDaily:
		return "Daily"
	case constants.RecurrenceWeekly:
		return "Weekly"
	case constants.RecurrenceMonthly:
		return "Monthly"
	case constants.RecurrenceYearly:
		return "Yearly"
	default:
		return "Once"
	}
}

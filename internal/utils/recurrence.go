package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/models"
)

// NextOccurrence returns the date one recurrence unit after dateStr.
// Monthly and yearly steps clamp the day to the last day of the target month,
// so Jan 31 is followed by Feb 28 (or 29) and Feb 29 by Feb 28 of the next year.
func NextOccurrence(dateStr string, recurrence constants.RecurrenceType) (string, error) {
	date, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date format: %w", err)
	}

	switch recurrence {
	case constants.RecurrenceDaily:
		return DateString(date.AddDate(0, 0, 1)), nil
	case constants.RecurrenceWeekly:
		return DateString(date.AddDate(0, 0, 7)), nil
	case constants.RecurrenceMonthly:
		return DateString(addMonthsClamped(date, 1)), nil
	case constants.RecurrenceYearly:
		return DateString(addMonthsClamped(date, 12)), nil
	default:
		return "", fmt.Errorf("reminder does not recur: %q", recurrence)
	}
}

// addMonthsClamped adds months without letting the day overflow into the following month.
func addMonthsClamped(date time.Time, months int) time.Time {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location()).AddDate(0, months, 0)
	day := min(date.Day(), daysIn(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, date.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextRecurrence computes the successor date for a completed recurring reminder.
// It returns ok=false when the reminder does not recur or when the next date is
// not strictly before the reminder's recurrence end date.
func NextRecurrence(r models.Reminder) (next string, ok bool, err error) {
	if !r.IsRecurring() {
		return "", false, nil
	}

	next, err = NextOccurrence(r.Date, r.Recurrence)
	if err != nil {
		return "", false, err
	}

	// Both dates are YYYY-MM-DD, so lexical order is chronological order
	if r.RecurrenceEndDate != "" && next >= r.RecurrenceEndDate {
		return "", false, nil
	}

	return next, true, nil
}

// NotificationTime returns when the alarm for r should fire: the due moment
// minus the lead time, or the snooze time when that is later.
func NotificationTime(r models.Reminder, allDayTime string, loc *time.Location) (time.Time, error) {
	timeStr := r.Time
	if timeStr == "" {
		timeStr = allDayTime
	}
	if timeStr == "" {
		timeStr = constants.DefaultAllDayTime
	}

	due, err := CombineDateAndTime(r.Date, timeStr, loc)
	if err != nil {
		return time.Time{}, err
	}

	at := due.Add(-time.Duration(r.AlarmMinutesBefore) * time.Minute)
	if r.SnoozedUntil != nil && r.SnoozedUntil.After(at) {
		at = r.SnoozedUntil.In(loc)
	}
	return at, nil
}

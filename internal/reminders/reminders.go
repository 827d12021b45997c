package reminders

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/utils"
)

// AddReminder creates a reminder and schedules its alarm.
// A notification error is returned alongside the saved reminder.
func (s *Store) AddReminder(in models.NewReminder) (models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := in.Build(s.newID(), s.now())
	if err := r.Validate(); err != nil {
		return models.Reminder{}, fmt.Errorf("%w: %w", ErrInvalidReminder, err)
	}
	if s.categoryIndex(r.CategoryID) < 0 {
		return models.Reminder{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, r.CategoryID)
	}

	s.reminders = append(s.reminders, r)
	logger.Debug("Reminder added", "id", r.ID, "date", r.Date, "time", r.Time)

	return r.Clone(), errors.Join(s.persistLocked(), s.scheduleLocked(r))
}

// UpdateReminder merges u into the reminder, then cancels and re-registers its alarm.
// Unknown ids are ignored. Moving the date or time clears a snooze.
func (s *Store) UpdateReminder(id string, u models.ReminderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.reminderIndex(id)
	if i < 0 {
		return nil
	}

	updated := s.reminders[i].Clone()
	moved := u.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReminder, err)
	}
	if u.CategoryID != nil && s.categoryIndex(updated.CategoryID) < 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, updated.CategoryID)
	}
	if moved || updated.IsCompleted {
		updated.SnoozedUntil = nil
	}
	s.reminders[i] = updated

	persistErr := s.persistLocked()
	s.dispatcher.Cancel(id)
	return errors.Join(persistErr, s.scheduleLocked(updated))
}

// DeleteReminder cancels the reminder's alarm and removes it. Unknown ids are ignored.
func (s *Store) DeleteReminder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.reminderIndex(id)
	if i < 0 {
		return nil
	}

	s.dispatcher.Cancel(id)
	s.reminders = slices.Delete(s.reminders, i, i+1)
	return s.persistLocked()
}

// ToggleReminderComplete flips the completion state.
// Completing cancels the alarm and, for recurring reminders, appends the next occurrence
// unless it would fall on or after the recurrence end date. Reopening reschedules the
// original alarm, which fires at once if its time has passed.
func (s *Store) ToggleReminderComplete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.reminderIndex(id)
	if i < 0 {
		return nil
	}

	r := &s.reminders[i]
	if r.IsCompleted {
		r.IsCompleted = false
		reopened := r.Clone()
		return errors.Join(s.persistLocked(), s.scheduleLocked(reopened))
	}

	r.IsCompleted = true
	r.SnoozedUntil = nil
	s.dispatcher.Cancel(id)

	next, ok, err := utils.NextRecurrence(*r)
	if err != nil {
		return errors.Join(fmt.Errorf("%w: %w", ErrInvalidReminder, err), s.persistLocked())
	}
	if !ok {
		return s.persistLocked()
	}

	successor := r.Clone()
	successor.ID = s.newID()
	successor.CreatedAt = s.now()
	successor.Date = next
	successor.IsCompleted = false
	successor.SnoozedUntil = nil
	s.reminders = append(s.reminders, successor)

	logger.Debug("Recurring reminder advanced", "id", id, "next", successor.ID, "date", next)
	return errors.Join(s.persistLocked(), s.scheduleLocked(successor))
}

// SnoozeReminder pushes the alarm of an open reminder to now plus minutes.
func (s *Store) SnoozeReminder(id string, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: snooze minutes must be positive", ErrInvalidReminder)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.reminderIndex(id)
	if i < 0 || s.reminders[i].IsCompleted {
		return nil
	}

	until := s.now().Add(time.Duration(minutes) * time.Minute)
	s.reminders[i].SnoozedUntil = &until
	snoozed := s.reminders[i].Clone()

	persistErr := s.persistLocked()
	s.dispatcher.Cancel(id)
	return errors.Join(persistErr, s.scheduleLocked(snoozed))
}

// DeleteCompletedReminders removes every completed reminder and returns how many went.
func (s *Store) DeleteCompletedReminders() (int, error) {
	return s.deleteWhere(func(r models.Reminder) bool { return r.IsCompleted })
}

// DeleteOldReminders removes completed reminders whose date began before now minus daysOld days.
// A date counts from midnight in the store location, so one dated exactly daysOld days ago goes
// as soon as that midnight lies more than daysOld days in the past.
func (s *Store) DeleteOldReminders(daysOld int) (int, error) {
	if daysOld < 0 {
		return 0, fmt.Errorf("days must not be negative: %d", daysOld)
	}

	cutoff := s.Now().AddDate(0, 0, -daysOld)
	return s.deleteWhere(func(r models.Reminder) bool {
		if !r.IsCompleted {
			return false
		}
		day, err := utils.ParseDateInLocation(r.Date, s.loc)
		return err == nil && day.Before(cutoff)
	})
}

func (s *Store) deleteWhere(match func(models.Reminder) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, r := range s.reminders {
		if match(r) {
			s.dispatcher.Cancel(r.ID)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	s.reminders = slices.DeleteFunc(s.reminders, match)
	return removed, s.persistLocked()
}

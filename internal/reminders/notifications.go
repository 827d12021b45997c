package reminders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/notifier"
	"github.com/julianstephens/remindme/internal/utils"
)

// notificationFor builds the alert for r. Callers must hold s.mu.
func (s *Store) notificationFor(r models.Reminder) (notifier.Notification, error) {
	at, err := utils.NotificationTime(r, s.allDayTime, s.loc)
	if err != nil {
		return notifier.Notification{}, err
	}

	category := s.categoryOrDefaultLocked(r.CategoryID)
	body := r.Description
	if strings.TrimSpace(body) == "" {
		body = constants.DefaultNotificationBody
	}

	return notifier.Notification{
		ID:    r.ID,
		Title: fmt.Sprintf("%s: %s", category.Name, r.Title),
		Body:  body,
		At:    at,
	}, nil
}

// scheduleLocked registers r's alarm when it is enabled and r is still open.
// An alarm time that has already passed is still handed to the dispatcher, which fires it immediately.
func (s *Store) scheduleLocked(r models.Reminder) error {
	if !r.IsAlarmEnabled || r.IsCompleted {
		return nil
	}

	n, err := s.notificationFor(r)
	if err != nil {
		return fmt.Errorf("%w for reminder %s: %w", ErrNotificationFailed, r.ID, err)
	}
	if err := s.dispatcher.Schedule(n); err != nil {
		return fmt.Errorf("%w for reminder %s: %w", ErrNotificationFailed, r.ID, err)
	}
	return nil
}

// rescheduleLocked schedules r only if its alarm is still ahead. Used when
// re-registering alarms for data that was not just edited by the user.
func (s *Store) rescheduleLocked(r models.Reminder) error {
	if !r.IsAlarmEnabled || r.IsCompleted {
		return nil
	}

	n, err := s.notificationFor(r)
	if err != nil {
		return fmt.Errorf("%w for reminder %s: %w", ErrNotificationFailed, r.ID, err)
	}
	if !n.At.After(s.now()) {
		return nil
	}
	if err := s.dispatcher.Schedule(n); err != nil {
		return fmt.Errorf("%w for reminder %s: %w", ErrNotificationFailed, r.ID, err)
	}
	return nil
}

// RescheduleAll re-registers the alarm of every open, alarm-enabled reminder whose
// notification time is still in the future. Alarms that already elapsed are not re-fired.
func (s *Store) RescheduleAll() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	for _, r := range s.reminders {
		if err := s.rescheduleLocked(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reload rereads both collections and reconciles the dispatcher with the previous snapshot.
// Alarms that went away are cancelled. New or changed alarms are scheduled, firing at once
// when already due. Unchanged alarms are left alone so one that already fired stays quiet.
func (s *Store) Reload() error {
	categories, reminders, err := s.readAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before, _ := s.alarmsLocked()
	s.categories = categories
	s.reminders = reminders
	after, errs := s.alarmsLocked()

	for id := range before {
		if _, ok := after[id]; !ok {
			s.dispatcher.Cancel(id)
		}
	}

	scheduled := 0
	for id, n := range after {
		if prev, ok := before[id]; ok && sameNotification(prev, n) {
			continue
		}
		if err := s.dispatcher.Schedule(n); err != nil {
			errs = append(errs, fmt.Errorf("%w for reminder %s: %w", ErrNotificationFailed, id, err))
			continue
		}
		scheduled++
	}

	logger.Debug("Reloaded reminders", "reminders", len(reminders), "scheduled", scheduled)
	return errors.Join(errs...)
}

// alarmsLocked builds the notification of every open, alarm-enabled reminder keyed by id.
// Callers must hold s.mu.
func (s *Store) alarmsLocked() (map[string]notifier.Notification, []error) {
	alarms := make(map[string]notifier.Notification)
	var errs []error
	for _, r := range s.reminders {
		if !r.IsAlarmEnabled || r.IsCompleted {
			continue
		}
		n, err := s.notificationFor(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w for reminder %s: %w", ErrNotificationFailed, r.ID, err))
			continue
		}
		alarms[r.ID] = n
	}
	return alarms, errs
}

func sameNotification(a, b notifier.Notification) bool {
	return a.ID == b.ID && a.Title == b.Title && a.Body == b.Body && a.At.Equal(b.At)
}

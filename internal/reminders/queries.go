package reminders

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/utils"
)

func (s *Store) filter(keep func(models.Reminder) bool) []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Reminder{}
	for _, r := range s.reminders {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// RemindersByCategory returns every reminder in the category, completed ones included.
func (s *Store) RemindersByCategory(categoryID string) []models.Reminder {
	return s.filter(func(r models.Reminder) bool { return r.CategoryID == categoryID })
}

// RemindersByDate returns every reminder on the calendar day of date in the store's timezone.
func (s *Store) RemindersByDate(date time.Time) []models.Reminder {
	day := utils.DateString(date.In(s.loc))
	return s.filter(func(r models.Reminder) bool { return r.Date == day })
}

// TodayReminders returns open reminders due today, timed ones first by time.
func (s *Store) TodayReminders() []models.Reminder {
	return s.openOn(s.today())
}

// TomorrowReminders returns open reminders due tomorrow, timed ones first by time.
func (s *Store) TomorrowReminders() []models.Reminder {
	tomorrow, _ := utils.AddDays(s.today(), 1)
	return s.openOn(tomorrow)
}

func (s *Store) openOn(day string) []models.Reminder {
	out := s.filter(func(r models.Reminder) bool { return !r.IsCompleted && r.Date == day })
	slices.SortStableFunc(out, byTimeAllDayLast)
	return out
}

// byTimeAllDayLast orders HH:MM strings ascending with untimed reminders after all timed ones.
func byTimeAllDayLast(a, b models.Reminder) int {
	switch {
	case a.Time == "" && b.Time == "":
		return 0
	case a.Time == "":
		return 1
	case b.Time == "":
		return -1
	default:
		return strings.Compare(a.Time, b.Time)
	}
}

func byDate(a, b models.Reminder) int {
	return cmp.Compare(a.Date, b.Date)
}

// OverdueReminders returns open reminders dated before today, oldest first.
func (s *Store) OverdueReminders() []models.Reminder {
	today := s.today()
	out := s.filter(func(r models.Reminder) bool { return !r.IsCompleted && r.Date < today })
	slices.SortStableFunc(out, byDate)
	return out
}

// UpcomingReminders returns open reminders dated after today and no later than today plus days.
func (s *Store) UpcomingReminders(days int) []models.Reminder {
	today := s.today()
	last, _ := utils.AddDays(today, days)
	out := s.filter(func(r models.Reminder) bool {
		return !r.IsCompleted && r.Date > today && r.Date <= last
	})
	slices.SortStableFunc(out, byDate)
	return out
}

// SearchReminders matches query case-insensitively against titles, descriptions and tags.
// A blank query matches nothing.
func (s *Store) SearchReminders(query string) []models.Reminder {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.Reminder{}
	}
	return s.filter(func(r models.Reminder) bool { return r.Matches(q) })
}

// Stats counts reminders relative to today. Weeks start on Monday.
// Completion is attributed to the reminder's date.
func (s *Store) Stats() models.Stats {
	now := s.Now()
	today := utils.DateString(now)
	weekStart := utils.DateString(utils.StartOfWeek(now))
	weekEnd, _ := utils.AddDays(weekStart, 7)
	month := today[:7]

	s.mu.RLock()
	defer s.mu.RUnlock()

	var st models.Stats
	for _, r := range s.reminders {
		st.Total++
		inWeek := r.Date >= weekStart && r.Date < weekEnd
		if r.IsCompleted {
			st.Completed++
			if r.Date == today {
				st.CompletedToday++
			}
			if inWeek {
				st.CompletedThisWeek++
			}
			if strings.HasPrefix(r.Date, month) {
				st.CompletedThisMonth++
			}
			continue
		}
		if r.Date == today {
			st.PendingToday++
		}
		if inWeek {
			st.PendingThisWeek++
		}
		if r.Date < today {
			st.Overdue++
		}
	}
	return st
}

// CompletedCount returns how many reminders are completed.
func (s *Store) CompletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, r := range s.reminders {
		if r.IsCompleted {
			count++
		}
	}
	return count
}

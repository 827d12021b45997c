// Package reminders holds the authoritative in-memory collections of categories and
// reminders. Every mutation rewrites both collections to the key-value provider and
// keeps the dispatcher's pending notifications in step with the data.
package reminders

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/notifier"
	"github.com/julianstephens/remindme/internal/storage"
	"github.com/julianstephens/remindme/internal/utils"
)

var (
	// ErrInvalidImport is returned when an import document is malformed or incomplete.
	ErrInvalidImport = errors.New("invalid import data")
	// ErrInvalidReminder is returned when reminder fields fail validation.
	ErrInvalidReminder = errors.New("invalid reminder")
	// ErrInvalidCategory is returned when category fields fail validation.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrCategoryNotFound is returned when an operation needs a category that does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrNotificationFailed is returned when the data changed but its notification
	// could not be registered or cancelled. The change itself is kept.
	ErrNotificationFailed = errors.New("notification scheduling failed")
	// ErrSaveFailed is returned when the provider rejected a write.
	ErrSaveFailed = errors.New("failed to save")
)

// Store owns the categories and reminders of one user and keeps their alarms registered
// with a dispatcher. It is safe for concurrent use.
type Store struct {
	kv         storage.Provider
	dispatcher notifier.Dispatcher

	now        func() time.Time
	loc        *time.Location
	newID      func() string
	allDayTime string

	mu         sync.RWMutex
	categories []models.Category
	reminders  []models.Reminder
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the timezone that decides calendar days and due moments.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithAllDayTime sets when reminders without a time of day are due (HH:MM).
func WithAllDayTime(hhmm string) Option {
	return func(s *Store) {
		if hhmm != "" {
			s.allDayTime = hhmm
		}
	}
}

// New returns a store over kv. A nil dispatcher discards notifications. Call Load before use.
func New(kv storage.Provider, dispatcher notifier.Dispatcher, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		dispatcher: dispatcher,
		now:        time.Now,
		loc:        time.Local,
		newID:      uuid.NewString,
		allDayTime: constants.DefaultAllDayTime,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatcher == nil {
		s.dispatcher = notifier.Discard{}
	}
	return s
}

// Load replaces the in-memory collections with the persisted ones.
// Missing keys load as empty collections.
func (s *Store) Load() error {
	categories, reminders, err := s.readAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
	s.reminders = reminders

	logger.Debug("Loaded reminders", "categories", len(categories), "reminders", len(reminders))
	return nil
}

func (s *Store) readAll() ([]models.Category, []models.Reminder, error) {
	var categories []models.Category
	if err := s.read(constants.CategoriesKey, &categories); err != nil {
		return nil, nil, err
	}
	var reminders []models.Reminder
	if err := s.read(constants.RemindersKey, &reminders); err != nil {
		return nil, nil, err
	}
	return categories, reminders, nil
}

func (s *Store) read(key string, dst any) error {
	data, err := s.kv.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

// persistLocked rewrites both collections. Callers must hold s.mu.
func (s *Store) persistLocked() error {
	if err := s.write(constants.CategoriesKey, nonNil(s.categories)); err != nil {
		return err
	}
	return s.write(constants.RemindersKey, nonNil(s.reminders))
}

func (s *Store) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	if err := s.kv.Set(key, data); err != nil {
		return fmt.Errorf("%w %s: %w", ErrSaveFailed, key, err)
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Categories returns a copy of every category in insertion order.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category{}, s.categories...)
}

// Reminders returns a copy of every reminder in insertion order.
func (s *Store) Reminders() []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.reminders)
}

func (s *Store) Category(id string) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.categoryIndex(id)
	if i < 0 {
		return models.Category{}, false
	}
	return s.categories[i], true
}

func (s *Store) Reminder(id string) (models.Reminder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.reminderIndex(id)
	if i < 0 {
		return models.Reminder{}, false
	}
	return s.reminders[i].Clone(), true
}

// CategoryOrDefault resolves id, substituting a placeholder for dangling references.
func (s *Store) CategoryOrDefault(id string) models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoryOrDefaultLocked(id)
}

func (s *Store) categoryOrDefaultLocked(id string) models.Category {
	if i := s.categoryIndex(id); i >= 0 {
		return s.categories[i]
	}
	return models.PlaceholderCategory(id)
}

// Location is the timezone the store evaluates dates in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Now is the store's clock in its location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Store) today() string {
	return utils.DateString(s.Now())
}

func (s *Store) categoryIndex(id string) int {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) reminderIndex(id string) int {
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(reminders []models.Reminder) []models.Reminder {
	out := make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, r.Clone())
	}
	return out
}

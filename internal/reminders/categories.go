package reminders

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/models"
)

// AddCategory appends a new category. Names need not be unique.
func (s *Store) AddCategory(name, icon string, color constants.CategoryColor) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.Category{
		ID:        s.newID(),
		Name:      strings.TrimSpace(name),
		Icon:      icon,
		Color:     models.NormalizeColor(color),
		CreatedAt: s.now(),
	}
	if err := c.Validate(); err != nil {
		return models.Category{}, fmt.Errorf("%w: %w", ErrInvalidCategory, err)
	}

	s.categories = append(s.categories, c)
	logger.Debug("Category added", "id", c.ID, "name", c.Name)
	return c, s.persistLocked()
}

// UpdateCategory merges u into the category. Unknown ids are ignored.
// Renaming refreshes the pending alarms of the category's reminders, whose titles carry the name.
func (s *Store) UpdateCategory(id string, u models.CategoryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(id)
	if i < 0 || u.IsEmpty() {
		return nil
	}

	updated := s.categories[i]
	u.Apply(&updated)
	updated.Name = strings.TrimSpace(updated.Name)
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCategory, err)
	}
	renamed := updated.Name != s.categories[i].Name
	s.categories[i] = updated

	errs := []error{s.persistLocked()}
	if renamed {
		for _, r := range s.reminders {
			if r.CategoryID == id {
				errs = append(errs, s.rescheduleLocked(r))
			}
		}
	}
	return errors.Join(errs...)
}

// DeleteCategory removes the category together with every reminder that references it,
// cancelling their notifications first.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(id)
	removed := 0
	for _, r := range s.reminders {
		if r.CategoryID == id {
			s.dispatcher.Cancel(r.ID)
			removed++
		}
	}
	if i < 0 && removed == 0 {
		return nil
	}

	s.reminders = slices.DeleteFunc(s.reminders, func(r models.Reminder) bool { return r.CategoryID == id })
	if i >= 0 {
		s.categories = slices.Delete(s.categories, i, i+1)
	}

	logger.Debug("Category deleted", "id", id, "reminders", removed)
	return s.persistLocked()
}

// SeedDefaultCategories adds the built-in categories when there are none yet.
func (s *Store) SeedDefaultCategories() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.categories) > 0 {
		return nil
	}

	for _, d := range constants.DefaultCategories {
		s.categories = append(s.categories, models.Category{
			ID:        s.newID(),
			Name:      d.Name,
			Icon:      d.Icon,
			Color:     d.Color,
			CreatedAt: s.now(),
		})
	}
	return s.persistLocked()
}

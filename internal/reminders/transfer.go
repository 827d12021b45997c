package reminders

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/models"
)

// ExportData snapshots both collections.
func (s *Store) ExportData() models.Export {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.Export{
		Version:    constants.ExportVersion,
		ExportedAt: s.now(),
		Categories: append([]models.Category{}, s.categories...),
		Reminders:  cloneAll(s.reminders),
	}
}

type importDocument struct {
	Version    *string            `json:"version"`
	Categories *[]models.Category `json:"categories"`
	Reminders  *[]models.Reminder `json:"reminders"`
}

// ImportData replaces both collections with the contents of an export document.
// The document must carry version, categories and reminders; otherwise nothing changes
// and the error wraps ErrInvalidImport. References between the imported records are not checked.
func (s *Store) ImportData(data []byte) error {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	switch {
	case doc.Version == nil || strings.TrimSpace(*doc.Version) == "":
		return fmt.Errorf("%w: missing version", ErrInvalidImport)
	case doc.Categories == nil:
		return fmt.Errorf("%w: missing categories", ErrInvalidImport)
	case doc.Reminders == nil:
		return fmt.Errorf("%w: missing reminders", ErrInvalidImport)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reminders {
		s.dispatcher.Cancel(r.ID)
	}

	s.categories = *doc.Categories
	s.reminders = *doc.Reminders

	errs := []error{s.persistLocked()}
	for _, r := range s.reminders {
		errs = append(errs, s.rescheduleLocked(r))
	}

	logger.Info("Imported data", "version", *doc.Version, "categories", len(s.categories), "reminders", len(s.reminders))
	return errors.Join(errs...)
}

// ExportCategory serializes one category and its reminders as a standalone document.
func (s *Store) ExportCategory(id string) ([]byte, error) {
	s.mu.RLock()
	i := s.categoryIndex(id)
	if i < 0 {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	doc := models.CategoryExport{
		Version:    constants.ExportVersion,
		ExportedAt: s.now(),
		Category:   s.categories[i],
		Reminders:  []models.Reminder{},
	}
	for _, r := range s.reminders {
		if r.CategoryID == id {
			doc.Reminders = append(doc.Reminders, r.Clone())
		}
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize category: %w", err)
	}
	return data, nil
}

type categoryImportDocument struct {
	Version   string             `json:"version"`
	Category  *models.Category   `json:"category"`
	Reminders *[]models.Reminder `json:"reminders"`
}

// ImportCategory appends a shared category under a fresh id. Every imported reminder
// gets a fresh id and creation time and is re-pointed at the new category.
func (s *Store) ImportCategory(data []byte) (models.Category, error) {
	var doc categoryImportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Category{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if doc.Category == nil {
		return models.Category{}, fmt.Errorf("%w: missing category", ErrInvalidImport)
	}
	if doc.Reminders == nil {
		return models.Category{}, fmt.Errorf("%w: missing reminders", ErrInvalidImport)
	}
	if strings.TrimSpace(doc.Category.Name) == "" {
		return models.Category{}, fmt.Errorf("%w: category name is empty", ErrInvalidImport)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	category := *doc.Category
	category.ID = s.newID()
	category.CreatedAt = now
	category.Color = models.NormalizeColor(category.Color)
	s.categories = append(s.categories, category)

	imported := make([]models.Reminder, 0, len(*doc.Reminders))
	for _, r := range *doc.Reminders {
		r = r.Clone()
		r.ID = s.newID()
		r.CategoryID = category.ID
		r.CreatedAt = now
		imported = append(imported, r)
	}
	s.reminders = append(s.reminders, imported...)

	errs := []error{s.persistLocked()}
	for _, r := range imported {
		errs = append(errs, s.rescheduleLocked(r))
	}

	logger.Info("Imported category", "id", category.ID, "name", category.Name, "reminders", len(imported))
	return category, errors.Join(errs...)
}

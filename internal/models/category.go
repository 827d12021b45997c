package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/remindme/internal/constants"
)

type Category struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Icon      string                  `json:"icon"`
	Color     constants.CategoryColor `json:"color"`
	CreatedAt time.Time               `json:"createdAt"`
}

// CategoryUpdate carries the fields to overwrite on a category. Nil fields keep their value.
type CategoryUpdate struct {
	Name  *string
	Icon  *string
	Color *constants.CategoryColor
}

// Apply merges the update into c.
func (u CategoryUpdate) Apply(c *Category) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Icon != nil {
		c.Icon = *u.Icon
	}
	if u.Color != nil {
		c.Color = NormalizeColor(*u.Color)
	}
}

// IsEmpty reports whether the update would change nothing.
func (u CategoryUpdate) IsEmpty() bool {
	return u.Name == nil && u.Icon == nil && u.Color == nil
}

func (c *Category) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("category id cannot be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name cannot be empty")
	}
	return nil
}

// NormalizeColor maps unknown colors to the default color.
func NormalizeColor(color constants.CategoryColor) constants.CategoryColor {
	switch color {
	case constants.ColorWork, constants.ColorPersonal, constants.ColorFriends,
		constants.ColorHealth, constants.ColorFinance, constants.ColorDefault:
		return color
	default:
		return constants.ColorDefault
	}
}

// PlaceholderCategory stands in for a category a reminder references but that no longer exists.
func PlaceholderCategory(id string) Category {
	return Category{
		ID:    id,
		Name:  constants.UnknownCategoryName,
		Icon:  constants.UnknownCategoryIcon,
		Color: constants.ColorDefault,
	}
}

package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/utils"
)

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.Stdin()).ReadString('\n')
	if err != nil && response == "" {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ResolveCategory finds a category by id, then by case-insensitive name.
func (c *Context) ResolveCategory(ref string) (models.Category, error) {
	if cat, ok := c.Store.Category(ref); ok {
		return cat, nil
	}

	var matches []models.Category
	for _, cat := range c.Store.Categories() {
		if strings.EqualFold(cat.Name, strings.TrimSpace(ref)) {
			matches = append(matches, cat)
		}
	}
	switch len(matches) {
	case 0:
		return models.Category{}, fmt.Errorf("no category matches %q (see 'remindme category list')", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Category{}, fmt.Errorf("%d categories are named %q, use the category ID instead", len(matches), ref)
	}
}

// ParseDateArg accepts YYYY-MM-DD, "today", "tomorrow" or "+N" days from today.
func ParseDateArg(s string, now time.Time) (string, error) {
	today := utils.DateString(now)
	switch v := strings.ToLower(strings.TrimSpace(s)); {
	case v == "" || v == "today":
		return today, nil
	case v == "tomorrow":
		return utils.AddDays(today, 1)
	case strings.HasPrefix(v, "+"):
		n, err := strconv.Atoi(v[1:])
		if err != nil || n < 0 {
			return "", fmt.Errorf("invalid relative date %q (expected +N)", s)
		}
		return utils.AddDays(today, n)
	default:
		if _, err := time.Parse(constants.DateFormat, v); err != nil {
			return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today, tomorrow or +N)", s)
		}
		return v, nil
	}
}

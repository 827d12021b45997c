package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/utils"
)

var categoryColors = map[constants.CategoryColor]lipgloss.Color{
	constants.ColorWork:     lipgloss.Color("33"),
	constants.ColorPersonal: lipgloss.Color("170"),
	constants.ColorFriends:  lipgloss.Color("214"),
	constants.ColorHealth:   lipgloss.Color("42"),
	constants.ColorFinance:  lipgloss.Color("220"),
	constants.ColorDefault:  lipgloss.Color("245"),
}

var (
	highPriorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	lowPriorityStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	completedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	overdueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// CategoryBadge renders the icon and name in the category's color.
func CategoryBadge(c models.Category) string {
	color, ok := categoryColors[c.Color]
	if !ok {
		color = categoryColors[constants.ColorDefault]
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.TrimSpace(c.Icon + " " + c.Name))
}

func priorityMarker(p constants.Priority) string {
	switch p {
	case constants.PriorityHigh:
		return highPriorityStyle.Render("!!")
	case constants.PriorityLow:
		return lowPriorityStyle.Render(" ·")
	default:
		return "  "
	}
}

// DueIn describes when r is due relative to now, e.g. "3 days from now".
func DueIn(r models.Reminder, now time.Time, allDayTime string) string {
	timeStr := r.Time
	if timeStr == "" {
		timeStr = allDayTime
	}
	due, err := utils.CombineDateAndTime(r.Date, timeStr, now.Location())
	if err != nil {
		return r.Date
	}
	return humanize.RelTime(due, now, "ago", "from now")
}

// FormatReminder renders a one-line summary for list output.
func FormatReminder(r models.Reminder, c models.Category, now time.Time, allDayTime string, showIDs bool) string {
	var b strings.Builder

	check := "[ ]"
	if r.IsCompleted {
		check = "[x]"
	}
	b.WriteString(priorityMarker(r.Priority))
	b.WriteString(" ")
	b.WriteString(check)
	b.WriteString(" ")

	title := r.Title
	if r.IsCompleted {
		title = completedStyle.Render(title)
	}
	b.WriteString(title)

	when := r.Date
	if r.Time != "" {
		when += " " + r.Time
	}
	rel := DueIn(r, now, allDayTime)
	if !r.IsCompleted && r.Date < utils.DateString(now) {
		rel = overdueStyle.Render(rel)
	}
	fmt.Fprintf(&b, "  %s (%s)", dimStyle.Render(when), rel)

	b.WriteString("  ")
	b.WriteString(CategoryBadge(c))

	if r.IsRecurring() {
		fmt.Fprintf(&b, "  ↻ %s", r.FormatRecurrence())
	}
	if r.IsAlarmEnabled && !r.IsCompleted {
		fmt.Fprintf(&b, "  🔔 %dm", r.AlarmMinutesBefore)
	}
	if len(r.Tags) > 0 {
		b.WriteString("  " + dimStyle.Render("#"+strings.Join(r.Tags, " #")))
	}
	if showIDs {
		b.WriteString("  " + dimStyle.Render("(ID: "+r.ID+")"))
	}
	return b.String()
}

package reminders

import (
	"fmt"
	"time"

	"github.com/julianstephens/remindme/internal/cli"
	"github.com/julianstephens/remindme/internal/models"
	"github.com/julianstephens/remindme/internal/utils"
)

type ListCmd struct {
	Today    bool   `help:"Open reminders due today." xor:"view"`
	Tomorrow bool   `help:"Open reminders due tomorrow." xor:"view"`
	Overdue  bool   `help:"Open reminders dated before today." xor:"view"`
	Upcoming int    `help:"Open reminders due in the next N days." xor:"view"`
	Category string `help:"Every reminder in a category (ID or name)." xor:"view"`
	Date     string `help:"Every reminder on a date (YYYY-MM-DD, today, tomorrow or +N)." xor:"view"`
	All      bool   `help:"Every reminder, completed ones included." xor:"view"`
	ShowIDs  bool   `help:"Show reminder IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	items, heading, err := c.selection(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		ctx.Printf("No reminders %s\n", heading)
		return nil
	}

	ctx.Printf("Reminders %s:\n", heading)
	printReminders(ctx, items, c.ShowIDs)
	return nil
}

func (c *ListCmd) selection(ctx *cli.Context) ([]models.Reminder, string, error) {
	now := ctx.Store.Now()
	switch {
	case c.Tomorrow:
		return ctx.Store.TomorrowReminders(), "for tomorrow", nil
	case c.Overdue:
		return ctx.Store.OverdueReminders(), "overdue", nil
	case c.Upcoming > 0:
		return ctx.Store.UpcomingReminders(c.Upcoming), fmt.Sprintf("in the next %d day(s)", c.Upcoming), nil
	case c.Category != "":
		cat, err := ctx.ResolveCategory(c.Category)
		if err != nil {
			return nil, "", err
		}
		return ctx.Store.RemindersByCategory(cat.ID), "in " + cat.Name, nil
	case c.Date != "":
		date, err := cli.ParseDateArg(c.Date, now)
		if err != nil {
			return nil, "", err
		}
		day, err := utils.ParseDateInLocation(date, ctx.Store.Location())
		if err != nil {
			return nil, "", err
		}
		return ctx.Store.RemindersByDate(day), "on " + date, nil
	case c.All:
		return ctx.Store.Reminders(), "(all)", nil
	default:
		return ctx.Store.TodayReminders(), "for today", nil
	}
}

func printReminders(ctx *cli.Context, items []models.Reminder, showIDs bool) {
	now := ctx.Store.Now()
	for _, r := range items {
		ctx.Println(" " + cli.FormatReminder(r, ctx.Store.CategoryOrDefault(r.CategoryID), now, allDayTime(ctx), showIDs))
	}
}

type SearchCmd struct {
	Query   string `arg:"" help:"Text to look for in titles, descriptions and tags."`
	ShowIDs bool   `help:"Show reminder IDs." name:"show-ids"`
}

func (c *SearchCmd) Run(ctx *cli.Context) error {
	items := ctx.Store.SearchReminders(c.Query)
	if len(items) == 0 {
		ctx.Printf("No reminders match %q\n", c.Query)
		return nil
	}
	ctx.Printf("%d reminder(s) match %q:\n", len(items), c.Query)
	printReminders(ctx, items, c.ShowIDs)
	return nil
}

type StatsCmd struct {
	JSON bool `help:"Print as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	st := ctx.Store.Stats()
	if c.JSON {
		return printJSON(ctx, st)
	}

	rate := 0.0
	if st.Total > 0 {
		rate = float64(st.Completed) / float64(st.Total) * 100
	}
	ctx.Printf("Stats as of %s:\n", ctx.Store.Now().Format(time.DateOnly))
	ctx.Printf("  Total:      %d (%d completed, %.0f%%)\n", st.Total, st.Completed, rate)
	ctx.Printf("  Today:      %d pending, %d completed\n", st.PendingToday, st.CompletedToday)
	ctx.Printf("  This week:  %d pending, %d completed\n", st.PendingThisWeek, st.CompletedThisWeek)
	ctx.Printf("  This month: %d completed\n", st.CompletedThisMonth)
	ctx.Printf("  Overdue:    %d\n", st.Overdue)
	return nil
}

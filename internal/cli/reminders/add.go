package reminders

import (
	"fmt"

	"github.com/julianstephens/remindme/internal/cli"
	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/models"
)

type AddCmd struct {
	Title       string   `arg:"" help:"Reminder title."`
	Category    string   `short:"c" help:"Category ID or name." required:""`
	Date        string   `short:"d" help:"Date (YYYY-MM-DD, today, tomorrow or +N)." default:"today"`
	Time        string   `short:"t" help:"Time of day (HH:MM). Omit for an all-day reminder."`
	Description string   `short:"m" help:"Longer description, used as the notification body."`
	Alarm       bool     `short:"a" help:"Enable a notification."`
	Lead        int      `short:"l" help:"Minutes before the due time to notify. Defaults to reminders.default_alarm_minutes." default:"-1"`
	Priority    string   `short:"p" help:"Priority (low|medium|high)." default:"medium" enum:"low,medium,high"`
	Repeat      string   `short:"r" help:"Recurrence (none|daily|weekly|monthly|yearly)." default:"none" enum:"none,daily,weekly,monthly,yearly"`
	Until       string   `help:"Last date a recurring reminder may repeat before (YYYY-MM-DD)."`
	Tags        []string `help:"Comma-separated tags." sep:","`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.ResolveCategory(c.Category)
	if err != nil {
		return err
	}

	date, err := cli.ParseDateArg(c.Date, ctx.Store.Now())
	if err != nil {
		return err
	}

	lead := c.Lead
	if lead < 0 {
		lead = constants.DefaultAlarmMinutesBefore
		if ctx.Config != nil {
			lead = ctx.Config.Reminders.DefaultAlarmMinutes
		}
	}

	r, err := ctx.Store.AddReminder(models.NewReminder{
		CategoryID:         cat.ID,
		Title:              c.Title,
		Description:        c.Description,
		Date:               date,
		Time:               c.Time,
		IsAlarmEnabled:     c.Alarm,
		AlarmMinutesBefore: lead,
		Priority:           constants.Priority(c.Priority),
		Recurrence:         constants.RecurrenceType(c.Repeat),
		RecurrenceEndDate:  c.Until,
		Tags:               c.Tags,
	})
	if err := ctx.ReportNotificationError(err); err != nil {
		return err
	}

	ctx.Printf("Added reminder: %s (ID: %s)\n", r.Title, r.ID)
	if r.IsAlarmEnabled {
		ctx.Printf("  Alarm %d minute(s) before, due %s\n", r.AlarmMinutesBefore, cli.DueIn(r, ctx.Store.Now(), allDayTime(ctx)))
	}
	return nil
}

func allDayTime(ctx *cli.Context) string {
	if ctx.Config != nil && ctx.Config.Reminders.AllDayTime != "" {
		return ctx.Config.Reminders.AllDayTime
	}
	return constants.DefaultAllDayTime
}

type EditCmd struct {
	ID          string   `arg:"" help:"Reminder ID."`
	Title       *string  `help:"New title."`
	Category    *string  `short:"c" help:"Move to this category (ID or name)."`
	Date        *string  `short:"d" help:"New date (YYYY-MM-DD, today, tomorrow or +N)."`
	Time        *string  `short:"t" help:"New time of day (HH:MM)."`
	AllDay      bool     `help:"Clear the time of day."`
	Description *string  `short:"m" help:"New description."`
	Alarm       *bool    `short:"a" help:"Enable or disable the notification (--alarm / --no-alarm)." negatable:""`
	Lead        *int     `short:"l" help:"Minutes before the due time to notify."`
	Priority    *string  `short:"p" help:"Priority (low|medium|high)."`
	Repeat      *string  `short:"r" help:"Recurrence (none|daily|weekly|monthly|yearly)."`
	Until       *string  `help:"Recurrence end date (YYYY-MM-DD); empty to clear."`
	Tags        []string `help:"Replace tags (comma-separated)." sep:","`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if _, ok := ctx.Store.Reminder(c.ID); !ok {
		return fmt.Errorf("reminder not found: %s", c.ID)
	}

	update := models.ReminderUpdate{
		Title:              c.Title,
		Description:        c.Description,
		Time:               c.Time,
		IsAlarmEnabled:     c.Alarm,
		AlarmMinutesBefore: c.Lead,
		RecurrenceEndDate:  c.Until,
	}
	if c.AllDay {
		empty := ""
		update.Time = &empty
	}
	if c.Category != nil {
		cat, err := ctx.ResolveCategory(*c.Category)
		if err != nil {
			return err
		}
		update.CategoryID = &cat.ID
	}
	if c.Date != nil {
		date, err := cli.ParseDateArg(*c.Date, ctx.Store.Now())
		if err != nil {
			return err
		}
		update.Date = &date
	}
	if c.Priority != nil {
		p := constants.Priority(*c.Priority)
		update.Priority = &p
	}
	if c.Repeat != nil {
		rec := constants.RecurrenceType(*c.Repeat)
		update.Recurrence = &rec
	}
	if c.Tags != nil {
		tags := c.Tags
		update.Tags = &tags
	}

	if err := ctx.ReportNotificationError(ctx.Store.UpdateReminder(c.ID, update)); err != nil {
		return err
	}
	ctx.Printf("Updated reminder: %s\n", c.ID)
	return nil
}

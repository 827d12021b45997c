package reminders

import (
	"fmt"

	"github.com/julianstephens/remindme/internal/cli"
)

type DeleteCmd struct {
	ID string `arg:"" help:"Reminder ID."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	r, ok := ctx.Store.Reminder(c.ID)
	if !ok {
		return fmt.Errorf("reminder not found: %s", c.ID)
	}
	if err := ctx.Store.DeleteReminder(c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted reminder: %s\n", r.Title)
	return nil
}

type DoneCmd struct {
	ID string `arg:"" help:"Reminder ID. Running it on a completed reminder reopens it."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	before := ctx.Store.Reminders()
	r, ok := ctx.Store.Reminder(c.ID)
	if !ok {
		return fmt.Errorf("reminder not found: %s", c.ID)
	}

	if err := ctx.ReportNotificationError(ctx.Store.ToggleReminderComplete(c.ID)); err != nil {
		return err
	}

	if r.IsCompleted {
		ctx.Printf("Reopened: %s\n", r.Title)
		return nil
	}
	ctx.Printf("✓ Completed: %s\n", r.Title)

	after := ctx.Store.Reminders()
	if len(after) > len(before) {
		next := after[len(after)-1]
		ctx.Printf("  Next %s occurrence on %s (ID: %s)\n", r.FormatRecurrence(), next.Date, next.ID)
	}
	return nil
}

type SnoozeCmd struct {
	ID      string `arg:"" help:"Reminder ID."`
	Minutes int    `arg:"" optional:"" help:"Minutes to snooze for." default:"10"`
}

func (c *SnoozeCmd) Run(ctx *cli.Context) error {
	r, ok := ctx.Store.Reminder(c.ID)
	if !ok {
		return fmt.Errorf("reminder not found: %s", c.ID)
	}
	if r.IsCompleted {
		return fmt.Errorf("reminder is already completed: %s", r.Title)
	}

	if err := ctx.ReportNotificationError(ctx.Store.SnoozeReminder(c.ID, c.Minutes)); err != nil {
		return err
	}
	ctx.Printf("Snoozed %s for %d minute(s)\n", r.Title, c.Minutes)
	return nil
}

type PurgeCmd struct {
	Completed bool `help:"Delete every completed reminder."`
	OlderThan int  `help:"Delete completed reminders dated more than N days ago." default:"-1"`
}

func (c *PurgeCmd) Validate() error {
	if c.Completed == (c.OlderThan >= 0) {
		return fmt.Errorf("pass exactly one of --completed or --older-than")
	}
	return nil
}

func (c *PurgeCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	var (
		n   int
		err error
	)
	if c.Completed {
		n, err = ctx.Store.DeleteCompletedReminders()
	} else {
		n, err = ctx.Store.DeleteOldReminders(c.OlderThan)
	}
	if err != nil {
		return err
	}
	ctx.Printf("Deleted %d completed reminder(s)\n", n)
	return nil
}

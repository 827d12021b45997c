package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/remindme/internal/cli"
	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/notifier"
)

// NotifyCmd delivers queued notifications that are due. Meant to run from cron or a systemd timer.
type NotifyCmd struct {
	DryRun bool `help:"Print due notifications to stdout instead of sending them."`

	now func() time.Time
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	now := c.now
	if now == nil {
		now = time.Now
	}
	queue := notifier.NewQueueDispatcher(ctx.Provider, now)

	if c.DryRun {
		due, err := queue.Due()
		if err != nil {
			return err
		}
		if len(due) == 0 {
			ctx.Println("No notifications due.")
			return nil
		}
		sink := notifier.NewLogSink(ctx.Stdout())
		for _, n := range due {
			if err := sink.Deliver(context.Background(), n); err != nil {
				return err
			}
		}
		return nil
	}

	sink, err := ctx.Sink(ctx.Stdout())
	if err != nil {
		return err
	}

	delivered, err := queue.DeliverDue(context.Background(), sink)
	logger.Debug("Notify run finished", "delivered", delivered)
	if err != nil {
		return fmt.Errorf("delivered %d notification(s), some failed: %w", delivered, err)
	}
	return nil
}

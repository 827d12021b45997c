package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/remindme/internal/cli"
	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/notifier"
	"github.com/julianstephens/remindme/internal/reminders"
	"github.com/julianstephens/remindme/internal/storage"
)

// DaemonCmd keeps running and delivers notifications as they come due.
type DaemonCmd struct {
	Mode string `help:"Override notifier.mode (queue|timer)."`

	sink notifier.Sink
}

func (c *DaemonCmd) Validate() error {
	switch c.Mode {
	case "", constants.NotifierModeQueue, constants.NotifierModeTimer:
		return nil
	default:
		return fmt.Errorf("invalid mode %q (must be queue or timer)", c.Mode)
	}
}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(runCtx, ctx)
}

func (c *DaemonCmd) run(runCtx context.Context, ctx *cli.Context) error {
	sink := c.sink
	if sink == nil {
		var err error
		if sink, err = ctx.Sink(ctx.Stdout()); err != nil {
			return err
		}
	}

	switch mode := c.mode(ctx); mode {
	case constants.NotifierModeQueue:
		return c.runQueue(runCtx, ctx, sink)
	case constants.NotifierModeTimer:
		return c.runTimers(runCtx, ctx, sink)
	default:
		return fmt.Errorf("unknown notifier mode: %s", mode)
	}
}

func (c *DaemonCmd) mode(ctx *cli.Context) string {
	if c.Mode != "" {
		return c.Mode
	}
	if ctx.Config != nil {
		return ctx.Config.Notifier.Mode
	}
	return constants.DefaultNotifierMode
}

func pollInterval(ctx *cli.Context) time.Duration {
	if ctx.Config != nil && ctx.Config.Notifier.PollInterval > 0 {
		return ctx.Config.Notifier.PollInterval
	}
	return constants.DefaultPollInterval
}

// runQueue drains the durable queue on every tick. Other processes enqueue directly.
func (c *DaemonCmd) runQueue(runCtx context.Context, ctx *cli.Context, sink notifier.Sink) error {
	queue := notifier.NewQueueDispatcher(ctx.Provider, time.Now)
	interval := pollInterval(ctx)
	logger.Info("Daemon started", "mode", constants.NotifierModeQueue, "interval", interval)

	deliver := func() {
		n, err := queue.DeliverDue(runCtx, sink)
		if err != nil {
			logger.Error("Failed to deliver notifications", "error", err)
		}
		if n > 0 {
			logger.Info("Delivered notifications", "count", n)
		}
	}

	deliver()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			logger.Info("Daemon stopped")
			return nil
		case <-ticker.C:
			deliver()
		}
	}
}

// runTimers keeps one in-process timer per alarm. Startup skips alarms that elapsed while
// the daemon was down; later storage changes are reconciled with Store.Reload.
func (c *DaemonCmd) runTimers(runCtx context.Context, ctx *cli.Context, sink notifier.Sink) error {
	timers := notifier.NewTimerDispatcher(runCtx, sink)
	defer timers.Stop()

	// Subscribers run inside the provider's Set, so they only signal.
	changed := make(chan struct{}, 1)
	signalChange := func([]byte) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	unsubReminders := ctx.Provider.Subscribe(constants.RemindersKey, signalChange)
	defer unsubReminders()
	unsubCategories := ctx.Provider.Subscribe(constants.CategoriesKey, signalChange)
	defer unsubCategories()

	store := reminders.New(ctx.Provider, timers, storeOptions(ctx)...)
	if err := store.Load(); err != nil {
		return err
	}
	if err := store.RescheduleAll(); err != nil {
		logger.Warn("Some alarms could not be scheduled", "error", err)
	}

	if w, ok := ctx.Provider.(storage.Watcher); ok {
		go func() {
			if err := w.Watch(runCtx); err != nil && runCtx.Err() == nil {
				logger.Error("Storage watch stopped", "error", err)
			}
		}()
	} else {
		logger.Warn("Storage backend cannot be watched; changes from other processes need a daemon restart")
	}

	logger.Info("Daemon started", "mode", constants.NotifierModeTimer, "pending", len(timers.PendingIDs()))

	for {
		select {
		case <-runCtx.Done():
			logger.Info("Daemon stopped")
			return nil
		case <-changed:
			if err := store.Reload(); err != nil {
				logger.Warn("Failed to reconcile alarms after a storage change", "error", err)
			}
			logger.Debug("Alarms reconciled", "pending", len(timers.PendingIDs()))
		}
	}
}

func storeOptions(ctx *cli.Context) []reminders.Option {
	var opts []reminders.Option
	if ctx.Store != nil {
		opts = append(opts, reminders.WithLocation(ctx.Store.Location()))
	}
	if ctx.Config != nil {
		opts = append(opts, reminders.WithAllDayTime(ctx.Config.Reminders.AllDayTime))
	}
	return opts
}

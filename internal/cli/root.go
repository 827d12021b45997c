package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/remindme/internal/backup"
	"github.com/julianstephens/remindme/internal/config"
	"github.com/julianstephens/remindme/internal/constants"
	apperrors "github.com/julianstephens/remindme/internal/errors"
	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/notifier"
	"github.com/julianstephens/remindme/internal/reminders"
	"github.com/julianstephens/remindme/internal/storage"
)

type Context struct {
	Config     *config.Config
	ConfigDir  string
	Provider   storage.Provider
	Store      *reminders.Store
	Dispatcher notifier.Dispatcher
	Out        io.Writer
	In         io.Reader
}

// Stdout is where commands print results.
func (c *Context) Stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// Stdin is where confirmations are read from.
func (c *Context) Stdin() io.Reader {
	if c.In != nil {
		return c.In
	}
	return os.Stdin
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// BackupManager returns a manager for the snapshots kept under the config directory.
func (c *Context) BackupManager() *backup.Manager {
	maxBackups := constants.MaxBackups
	if c.Config != nil {
		maxBackups = c.Config.Backup.MaxBackups
	}
	return backup.NewManager(c.Store, c.ConfigDir, maxBackups)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Store == nil || c.ConfigDir == "" {
		return
	}
	if _, err := c.BackupManager().CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Sink builds the delivery target named by notifier.sink. The log sink echoes to out.
func (c *Context) Sink(out io.Writer) (notifier.Sink, error) {
	sink, identifier := constants.DefaultNotifierSink, constants.TrayAppIdentifier
	if c.Config != nil {
		sink, identifier = c.Config.Notifier.Sink, c.Config.Notifier.TrayAppIdentifier
	}

	switch sink {
	case constants.NotifierSinkTray:
		return notifier.NewTraySink(identifier), nil
	case constants.NotifierSinkLog:
		return notifier.NewLogSink(out), nil
	default:
		return nil, fmt.Errorf("unknown notifier sink: %s", sink)
	}
}

// ReportNotificationError downgrades an alarm failure on an otherwise saved change to a warning.
// Every other error passes through.
func (c *Context) ReportNotificationError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, reminders.ErrNotificationFailed) && !errors.Is(err, reminders.ErrSaveFailed) {
		apperrors.Report(fmt.Errorf("saved, but the alarm could not be scheduled: %w", err))
		return nil
	}
	return err
}

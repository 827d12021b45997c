package main

import (
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/remindme/internal/cli"
	"github.com/julianstephens/remindme/internal/cli/categories"
	"github.com/julianstephens/remindme/internal/cli/reminders"
	"github.com/julianstephens/remindme/internal/cli/system"
	"github.com/julianstephens/remindme/internal/cli/transfer"
	"github.com/julianstephens/remindme/internal/config"
	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/errors"
	"github.com/julianstephens/remindme/internal/logger"
	"github.com/julianstephens/remindme/internal/notifier"
	reminderstore "github.com/julianstephens/remindme/internal/reminders"
	"github.com/julianstephens/remindme/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_file}"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd         `cmd:"" help:"Initialize remindme storage."`
	Category categories.CategoryCmd `cmd:"" help:"Manage categories."`
	Add      reminders.AddCmd       `cmd:"" help:"Add a reminder."`
	Edit     reminders.EditCmd      `cmd:"" help:"Edit a reminder."`
	Delete   reminders.DeleteCmd    `cmd:"" help:"Delete a reminder."`
	Done     reminders.DoneCmd      `cmd:"" help:"Toggle a reminder's completion."`
	Snooze   reminders.SnoozeCmd    `cmd:"" help:"Snooze a reminder's alarm."`
	List     reminders.ListCmd      `cmd:"" help:"List reminders." default:"1"`
	Search   reminders.SearchCmd    `cmd:"" help:"Search reminders."`
	Stats    reminders.StatsCmd     `cmd:"" help:"Show completion statistics."`
	Purge    reminders.PurgeCmd     `cmd:"" help:"Delete completed reminders."`
	Export   transfer.ExportCmd     `cmd:"" help:"Export all data as JSON."`
	Import   transfer.ImportCmd     `cmd:"" help:"Replace all data from a JSON export."`
	Notify   system.NotifyCmd       `cmd:"" help:"Deliver queued notifications that are due (run from cron)."`
	Daemon   system.DaemonCmd       `cmd:"" help:"Run in the foreground and deliver notifications as they come due."`
	Backup   system.BackupCmd       `cmd:"" help:"Manage backups."`
	Keyring  system.KeyringCmd      `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal reminders with categories, recurrence and notifications"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatalf("invalid configuration: %v", err)
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.ConfigDir(),
		Stderr:    ctx.Command() == "daemon",
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "backend", cfg.Storage.Backend)

	loc, err := cfg.Location()
	if err != nil {
		errors.Fatal(err)
	}

	provider, err := storage.New(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	defer provider.Close()

	dispatcher := newDispatcher(cfg, provider)
	store := reminderstore.New(provider, dispatcher,
		reminderstore.WithLocation(loc),
		reminderstore.WithAllDayTime(cfg.Reminders.AllDayTime),
	)

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigDir:  cfg.ConfigDir(),
		Provider:   provider,
		Store:      store,
		Dispatcher: dispatcher,
	}

	// init opens storage itself
	if ctx.Selected() == nil || ctx.Selected().Name != "init" {
		if err := provider.Load(); err != nil {
			errors.Fatal(err)
		}
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		provider.Close()
		errors.Fatal(err)
	}
}

// newDispatcher picks how short-lived CLI processes hand off alarms. In queue mode they
// are recorded for `notify` or the daemon. In timer mode only the daemon holds timers and
// it rebuilds them from storage, so the CLI schedules nothing itself.
func newDispatcher(cfg *config.Config, provider storage.Provider) notifier.Dispatcher {
	if cfg.Notifier.Mode == constants.NotifierModeTimer {
		return notifier.Discard{}
	}
	return notifier.NewQueueDispatcher(provider, time.Now)
}

package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/remindme/internal/cli"
	"github.com/julianstephens/remindme/internal/constants"
)

type InitCmd struct {
	Force  bool `help:"Force reset by deleting existing storage before initialization."`
	NoSeed bool `help:"Do not create the default categories." name:"no-seed"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, displayLocation(ctx))

	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if c.NoSeed {
		return nil
	}

	if err := ctx.Store.SeedDefaultCategories(); err != nil {
		return fmt.Errorf("failed to create default categories: %w", err)
	}
	ctx.Printf("Created %d categories\n", len(ctx.Store.Categories()))
	return nil
}

// reset removes file-based storage. Postgres data is left alone.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if ctx.Config != nil && ctx.Config.Storage.Backend == constants.BackendPostgres {
		return fmt.Errorf("--force is only supported for json and sqlite storage")
	}

	path := ctx.Provider.GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		if err := ctx.Provider.Close(); err != nil {
			return fmt.Errorf("failed to close existing storage: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing storage: %w", err)
		}
		ctx.Printf("Deleted existing storage at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	return nil
}

// displayLocation hides the connection string for Postgres.
func displayLocation(ctx *cli.Context) string {
	if ctx.Config != nil && ctx.Config.Storage.Backend == constants.BackendPostgres {
		return maskPassword(ctx.Provider.GetConfigPath())
	}
	return ctx.Provider.GetConfigPath()
}

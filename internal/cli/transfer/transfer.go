package transfer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/remindme/internal/cli"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	export := ctx.Store.ExportData()
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize export: %w", err)
	}

	if c.Output == "" {
		ctx.Println(string(data))
		return nil
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("Exported %d categories and %d reminders to %s\n", len(export.Categories), len(export.Reminders), c.Output)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export file to import." type:"existingfile"`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This replaces every category and reminder with the contents of the file.")
		ctx.Println("A backup of your current data will be created first.")
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.ReportNotificationError(ctx.Store.ImportData(data)); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ctx.Printf("✓ Imported %d categories and %d reminders\n", len(ctx.Store.Categories()), len(ctx.Store.Reminders()))
	return nil
}

package categories

import (
	"fmt"
	"os"

	"github.com/julianstephens/remindme/internal/cli"
	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/models"
)

type CategoryCmd struct {
	Add    CategoryAddCmd    `cmd:"" help:"Add a category."`
	List   CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
	Edit   CategoryEditCmd   `cmd:"" help:"Edit a category."`
	Delete CategoryDeleteCmd `cmd:"" help:"Delete a category and all of its reminders."`
	Export CategoryExportCmd `cmd:"" help:"Export a category with its reminders for sharing."`
	Import CategoryImportCmd `cmd:"" help:"Import a shared category as a new category."`
}

type CategoryAddCmd struct {
	Name  string `arg:"" help:"Category name."`
	Icon  string `short:"i" help:"Icon (usually an emoji)." default:"📁"`
	Color string `short:"c" help:"Color (work|personal|friends|health|finance|default)." default:"default"`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.Store.AddCategory(c.Name, c.Icon, constants.CategoryColor(c.Color))
	if err != nil {
		return err
	}
	ctx.Printf("Added category: %s (ID: %s)\n", cli.CategoryBadge(cat), cat.ID)
	return nil
}

type CategoryListCmd struct {
	ShowIDs bool `help:"Show category IDs." name:"show-ids"`
}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	cats := ctx.Store.Categories()
	if len(cats) == 0 {
		ctx.Println("No categories found. Run 'remindme init' or 'remindme category add'.")
		return nil
	}

	ctx.Println("Categories:")
	for _, cat := range cats {
		open := 0
		all := ctx.Store.RemindersByCategory(cat.ID)
		for _, r := range all {
			if !r.IsCompleted {
				open++
			}
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", cat.ID)
		}
		ctx.Printf("  %s%s - %d open, %d total\n", cli.CategoryBadge(cat), idStr, open, len(all))
	}
	return nil
}

type CategoryEditCmd struct {
	Category string  `arg:"" help:"Category ID or name."`
	Name     *string `short:"n" help:"New name."`
	Icon     *string `short:"i" help:"New icon."`
	Color    *string `short:"c" help:"New color."`
}

func (c *CategoryEditCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.ResolveCategory(c.Category)
	if err != nil {
		return err
	}

	update := models.CategoryUpdate{Name: c.Name, Icon: c.Icon}
	if c.Color != nil {
		color := constants.CategoryColor(*c.Color)
		update.Color = &color
	}
	if update.IsEmpty() {
		return fmt.Errorf("nothing to change: pass --name, --icon or --color")
	}

	if err := ctx.ReportNotificationError(ctx.Store.UpdateCategory(cat.ID, update)); err != nil {
		return err
	}
	updated, _ := ctx.Store.Category(cat.ID)
	ctx.Printf("Updated category: %s\n", cli.CategoryBadge(updated))
	return nil
}

type CategoryDeleteCmd struct {
	Category string `arg:"" help:"Category ID or name."`
	Yes      bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.ResolveCategory(c.Category)
	if err != nil {
		return err
	}

	count := len(ctx.Store.RemindersByCategory(cat.ID))
	if !c.Yes && count > 0 {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %s and its %d reminder(s)?", cat.Name, count))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeleteCategory(cat.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted category %s and %d reminder(s)\n", cat.Name, count)
	return nil
}

type CategoryExportCmd struct {
	Category string `arg:"" help:"Category ID or name."`
	Output   string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *CategoryExportCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.ResolveCategory(c.Category)
	if err != nil {
		return err
	}

	data, err := ctx.Store.ExportCategory(cat.ID)
	if err != nil {
		return err
	}

	if c.Output == "" {
		ctx.Println(string(data))
		return nil
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("Exported %s to %s\n", cat.Name, c.Output)
	return nil
}

type CategoryImportCmd struct {
	File string `arg:"" help:"Category export file." type:"existingfile"`
}

func (c *CategoryImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	cat, err := ctx.Store.ImportCategory(data)
	if err := ctx.ReportNotificationError(err); err != nil {
		return err
	}
	ctx.Printf("Imported category %s with %d reminder(s) (ID: %s)\n",
		cli.CategoryBadge(cat), len(ctx.Store.RemindersByCategory(cat.ID)), cat.ID)
	return nil
}

package reminders

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/remindme/internal/cli"
)

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

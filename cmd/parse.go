package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/timer"
)

var parseCmd = &cobra.Command{
	Use:   "parse <title>",
	Short: "Show the timer settings a title would produce",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd.OutOrStdout(), joinArgs(args))
	},
}

func runParse(out io.Writer, title string) error {
	parsed, settings := app.blocks.ParseTitle(title)
	fields := parsed.Fields()

	if jsonOutput {
		return printJSON(out, map[string]any{
			"title":    title,
			"matched":  len(fields) > 0,
			"fields":   fields,
			"settings": settings,
			"summary":  settings.Summary(),
			"duration": settings.TotalDuration(),
			"plan":     timer.Schedule(settings),
		})
	}

	fmt.Fprintf(out, "%s\n", title)
	if len(fields) == 0 {
		fmt.Fprintln(out, "   No timer hints found; defaults apply.")
	} else {
		fmt.Fprintf(out, "   Recognised: %s\n", strings.Join(fields, ", "))
	}
	fmt.Fprintf(out, "   Timer: %s\n", settings.Summary())
	if settings.HasTimer() {
		fmt.Fprintf(out, "   Total: %s\n", domain.FormatSeconds(settings.TotalDuration()))
	}
	return nil
}

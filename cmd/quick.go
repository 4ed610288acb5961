package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/domain"
)

var quickFlags settingsFlags

var quickCmd = &cobra.Command{
	Use:   "quick [title]",
	Short: "Run a one-off timer without saving a block",
	Long: `Run a timer that is not in the library. Settings come from the
configured defaults, then the title, then the flags:

  wod quick Tabata
  wod quick EMOM 12
  wod quick --mode interval --work 40s --rest 20s --rounds 6`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := setupSignalHandler()
		defer cancel()

		title := joinArgs(args)
		settings, err := quickSettings(cmd, title)
		if err != nil {
			return err
		}
		if !settings.HasTimer() {
			return domain.ErrNoTimer
		}

		e, err := app.workouts.NewQuickEngine(settings)
		if err != nil {
			return fmt.Errorf("failed to create timer: %w", err)
		}
		if title == "" {
			title = settings.Summary()
		}
		return runEngine(ctx, cmd.OutOrStdout(), e, nil, title)
	},
}

func init() {
	quickFlags.register(quickCmd)
	quickCmd.Flags().BoolVar(&startPlain, "plain", false, "Print status lines instead of the full-screen timer")
	quickCmd.Flags().BoolVarP(&startAuto, "auto", "a", false, "Start the countdown as soon as the timer opens")
}

func quickSettings(cmd *cobra.Command, title string) (domain.TimerSettings, error) {
	_, settings := app.blocks.ParseTitle(title)
	return quickFlags.apply(cmd, settings)
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/config"
	"github.com/xvierd/wod-cli/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit timer defaults and notifications",
	Long:  `Interactively configure the settings new blocks start from, the get-ready countdown, auto-close and notifications.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfig(cmd.InOrStdin(), cmd.OutOrStdout(), app.config, config.Save)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(in io.Reader, out io.Writer, cfg *config.Config, save func(*config.Config) error) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Current configuration:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "    Default timer:   %s\n", cfg.DefaultSettings().Summary())
	fmt.Fprintf(out, "    Get ready:       %s\n", formatMinutes(time.Duration(cfg.Timer.PrepareTime)))
	fmt.Fprintf(out, "    Auto-close:      %s\n", formatMinutes(time.Duration(cfg.Timer.AutoClose)))
	fmt.Fprintf(out, "    Notifications:   %s\n", notificationStatus(cfg))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  What would you like to change?")
	fmt.Fprintln(out, "    [t] Default timer")
	fmt.Fprintln(out, "    [p] Get-ready countdown")
	fmt.Fprintln(out, "    [a] Auto-close after a run")
	fmt.Fprintln(out, "    [n] Notifications")
	fmt.Fprintln(out, "    [q] Quit without saving")
	fmt.Fprint(out, "  Choose: ")

	choice := readLine(reader)
	switch strings.ToLower(choice) {
	case "t":
		return editDefaultTimer(reader, out, cfg, save)
	case "p":
		return editDuration(reader, out, "Get ready", &cfg.Timer.PrepareTime, cfg, save)
	case "a":
		return editDuration(reader, out, "Auto-close", &cfg.Timer.AutoClose, cfg, save)
	case "n":
		return editNotifications(reader, out, cfg, save)
	case "q", "":
		fmt.Fprintln(out, "  No changes made.")
		return nil
	default:
		return fmt.Errorf("invalid choice %q", choice)
	}
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func editDefaultTimer(reader *bufio.Reader, out io.Writer, cfg *config.Config, save func(*config.Config) error) error {
	t := &cfg.Timer

	fmt.Fprintf(out, "\n  Mode [%s]: ", t.DefaultMode)
	if input := readLine(reader); input != "" {
		mode, err := domain.ValidateTimerMode(input)
		if err != nil {
			return err
		}
		t.DefaultMode = string(mode)
	}

	for _, field := range []struct {
		label string
		d     *config.Duration
	}{
		{"Work", &t.DefaultWork},
		{"Rest", &t.DefaultRest},
	} {
		fmt.Fprintf(out, "  %s [%s]: ", field.label, formatMinutes(time.Duration(*field.d)))
		if input := readLine(reader); input != "" {
			parsed, err := time.ParseDuration(input)
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", input, err)
			}
			*field.d = config.Duration(parsed)
		}
	}

	fmt.Fprintf(out, "  Rounds [%d]: ", t.DefaultRounds)
	if input := readLine(reader); input != "" {
		var n int
		if _, err := fmt.Sscanf(input, "%d", &n); err != nil {
			return fmt.Errorf("invalid number %q: %w", input, err)
		}
		if n < 1 {
			return fmt.Errorf("rounds must be at least 1")
		}
		t.DefaultRounds = n
	}

	if err := cfg.DefaultSettings().Validate(); err != nil {
		return err
	}
	if err := save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "\n  Saved: new blocks start as %s\n", cfg.DefaultSettings().Summary())
	return nil
}

func editDuration(reader *bufio.Reader, out io.Writer, label string, d *config.Duration, cfg *config.Config, save func(*config.Config) error) error {
	fmt.Fprintf(out, "\n  %s [%s]: ", label, formatMinutes(time.Duration(*d)))
	input := readLine(reader)
	if input == "" {
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}

	parsed, err := time.ParseDuration(input)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", input, err)
	}
	if parsed < 0 {
		return fmt.Errorf("%s cannot be negative", strings.ToLower(label))
	}
	*d = config.Duration(parsed)

	if err := save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "\n  Saved: %s %s\n", strings.ToLower(label), formatMinutes(parsed))
	return nil
}

func editNotifications(reader *bufio.Reader, out io.Writer, cfg *config.Config, save func(*config.Config) error) error {
	fmt.Fprintf(out, "\n  Current notifications: %s\n\n", notificationStatus(cfg))
	fmt.Fprintln(out, "    [1] Off")
	fmt.Fprintln(out, "    [2] On (visual only)")
	fmt.Fprintln(out, "    [3] On (with sound)")
	fmt.Fprint(out, "  Choose: ")

	switch readLine(reader) {
	case "1":
		cfg.Notifications.Enabled = false
		cfg.Notifications.Sound = false
	case "2":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = false
	case "3":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = true
	default:
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}

	if err := save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "\n  Saved: notifications %s\n", notificationStatus(cfg))
	return nil
}

func notificationStatus(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "off"
	}
	if cfg.Notifications.Sound {
		return "on (with sound)"
	}
	return "on"
}

// formatMinutes formats a duration as a human-friendly string like "45s", "25m" or "1h30m".
func formatMinutes(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d%time.Minute != 0 {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

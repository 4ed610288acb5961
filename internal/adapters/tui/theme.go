package tui

import (
	"reflect"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/wod-cli/internal/config"
	"github.com/xvierd/wod-cli/internal/domain"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// phaseColor returns the accent color for a timer status.
func phaseColor(theme config.ThemeConfig, status domain.TimerStatus) lipgloss.Color {
	switch status {
	case domain.TimerPreparing:
		return lipgloss.Color(theme.ColorPrepare)
	case domain.TimerResting:
		return lipgloss.Color(theme.ColorRest)
	case domain.TimerPaused, domain.TimerIdle:
		return lipgloss.Color(theme.ColorPaused)
	default:
		return lipgloss.Color(theme.ColorWork)
	}
}

// phaseBar returns a progress bar with the gradient for a timer status.
func phaseBar(theme config.ThemeConfig, status domain.TimerStatus, width int) progress.Model {
	var bar progress.Model
	switch status {
	case domain.TimerPaused, domain.TimerIdle:
		bar = progress.New(progress.WithGradient(theme.PausedGradientStart, theme.PausedGradientEnd))
	case domain.TimerResting:
		bar = progress.New(progress.WithGradient(theme.RestGradientStart, theme.RestGradientEnd))
	default:
		bar = progress.New(progress.WithGradient(theme.WorkGradientStart, theme.WorkGradientEnd))
	}
	bar.Width = width
	return bar
}

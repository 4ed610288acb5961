// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/sirupsen/logrus"
	"github.com/xvierd/wod-cli/internal/config"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/modes"
	"github.com/xvierd/wod-cli/internal/ports"
	"github.com/xvierd/wod-cli/internal/timer"
)

const defaultTickInterval = 250 * time.Millisecond

// tickMsg is sent on every timer tick.
type tickMsg time.Time

// prefSavedMsg reports the outcome of persisting a preference.
type prefSavedMsg struct {
	key string
	err error
}

// Options configures a timer screen.
type Options struct {
	Title        string
	Theme        *config.ThemeConfig
	TickInterval time.Duration
	// AutoStart starts the engine as soon as the screen opens.
	AutoStart bool
	// AutoClose quits this long after the run finishes. Zero keeps the
	// screen open until the user quits.
	AutoClose time.Duration
	Inline    bool

	Sound         bool
	OnSoundToggle func(on bool)
	Prefs         ports.PreferenceRepository

	// OnFinish is called once per run when it finishes or is abandoned.
	OnFinish func(state domain.TimerState, startedAt time.Time)
}

// runLog is shared by every copy of the model so a run is reported once.
type runLog struct {
	startedAt time.Time
	reported  bool
}

// Model is the timer screen.
type Model struct {
	engine   *timer.Engine
	settings domain.TimerSettings
	mode     modes.Mode
	opts     Options
	theme    config.ThemeConfig
	progress progress.Model
	run      *runLog

	width  int
	height int
	inline bool

	last        time.Time
	sound       bool
	confirmStop bool
	autoClosing bool
	closeLeft   time.Duration
}

// NewModel creates a timer screen for an engine.
func NewModel(e *timer.Engine, opts Options) Model {
	settings, _ := e.Settings()
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	theme := resolveTheme(opts.Theme)
	return Model{
		engine:   e,
		settings: settings,
		mode:     modes.ForTimerMode(settings.Mode),
		opts:     opts,
		theme:    theme,
		progress: progress.New(progress.WithGradient(theme.WorkGradientStart, theme.WorkGradientEnd)),
		run:      &runLog{},
		inline:   opts.Inline,
		sound:    opts.Sound,
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	if m.opts.AutoStart {
		m.start()
	}
	return tickCmd(m.opts.TickInterval)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 4

	case tickMsg:
		m.advance(time.Time(msg))
		if m.autoClosing && m.closeLeft <= 0 {
			return m, tea.Quit
		}
		return m, tickCmd(m.opts.TickInterval)

	case prefSavedMsg:
		if msg.err != nil {
			logrus.WithError(msg.err).WithField("key", msg.key).Warn("failed to save preference")
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key other than quit keeps a finished screen open.
	if m.autoClosing && msg.String() != "q" && msg.String() != "ctrl+c" {
		m.autoClosing = false
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "ctrl+c", "q":
		m.report()
		return m, tea.Quit
	case "s":
		if m.engine.Status() == domain.TimerFinished {
			m.engine.Reset()
			m.run.reported = false
		}
		m.start()
	case " ", "p":
		m.engine.Toggle()
		m.confirmStop = false
	case "r":
		m.report()
		m.engine.Reset()
		m.run.reported = false
		m.confirmStop = false
	case "n":
		m.engine.Skip()
		m.confirmStop = false
	case "f":
		status := m.engine.Status()
		if !status.IsActive() && status != domain.TimerPaused {
			return m, nil
		}
		if m.confirmStop {
			m.engine.Stop()
			m.confirmStop = false
		} else {
			m.confirmStop = true
		}
	case "tab":
		m.sound = !m.sound
		if m.opts.OnSoundToggle != nil {
			m.opts.OnSoundToggle(m.sound)
		}
		cmd = savePrefCmd(m.opts.Prefs, ports.PrefSound, onOff(m.sound))
	default:
		m.confirmStop = false
	}

	m.checkFinished()
	return m, cmd
}

func (m *Model) start() {
	if m.engine.Status() != domain.TimerIdle {
		return
	}
	m.engine.Start()
	if m.engine.Status() != domain.TimerIdle {
		m.run.startedAt = time.Now()
		m.run.reported = false
	}
}

// advance feeds the time since the previous tick to the engine. The first
// tick only anchors the clock.
func (m *Model) advance(now time.Time) {
	if !m.last.IsZero() {
		delta := now.Sub(m.last)
		wasClosing := m.autoClosing
		m.engine.Tick(delta)
		if wasClosing {
			m.closeLeft -= delta
		}
	}
	m.last = now
	m.checkFinished()
}

func (m *Model) checkFinished() {
	if m.engine.Status() != domain.TimerFinished || m.run.reported {
		return
	}
	m.report()
	if m.opts.AutoClose > 0 {
		m.autoClosing = true
		m.closeLeft = m.opts.AutoClose
	}
}

// report hands the run to OnFinish once. Runs that never started are
// not reported.
func (m *Model) report() {
	if m.run.reported || m.engine.Status() == domain.TimerIdle {
		return
	}
	m.run.reported = true
	if m.opts.OnFinish != nil {
		m.opts.OnFinish(m.engine.Snapshot(), m.run.startedAt)
	}
}

func savePrefCmd(prefs ports.PreferenceRepository, key, value string) tea.Cmd {
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		return prefSavedMsg{key: key, err: prefs.Set(context.Background(), key, value)}
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// phaseLabel names what the athlete should be doing.
func (m Model) phaseLabel(s domain.TimerState) string {
	switch s.Status {
	case domain.TimerIdle:
		return "READY"
	case domain.TimerPreparing:
		return "GET READY"
	case domain.TimerRunning:
		return m.mode.WorkLabel()
	case domain.TimerResting:
		return "REST"
	case domain.TimerPaused:
		return fmt.Sprintf("%s PAUSED", m.theme.IconPaused)
	case domain.TimerFinished:
		return m.mode.CompletionTitle()
	default:
		return ""
	}
}

// clockText is the big number on screen. An idle timer shows the planned
// length of the whole run.
func (m Model) clockText(s domain.TimerState) string {
	switch s.Status {
	case domain.TimerIdle:
		return domain.FormatSeconds(m.settings.TotalDuration())
	case domain.TimerFinished:
		return domain.FormatSeconds(s.TotalTimeElapsed)
	default:
		return domain.FormatSeconds(s.CurrentTime)
	}
}

func (m Model) helpText(s domain.TimerState) string {
	sound := fmt.Sprintf("tab:sound %s", onOff(m.sound))
	switch {
	case m.confirmStop:
		return "Stop the run? [f] confirm  [esc] cancel"
	case s.Status == domain.TimerIdle:
		return "[s]tart  [q]uit  " + sound
	case s.Status == domain.TimerFinished:
		return "[s] again  [q]uit"
	case s.Status == domain.TimerPaused:
		return "[space] resume  [f]inish  [r]eset  [q]uit  " + sound
	default:
		return "[space] pause  [n]ext  [f]inish  [r]eset  [q]uit  " + sound
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.isAttached() {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp)).Render("This block has no timer.") + "\n"
	}
	if m.inline {
		return m.viewInline()
	}
	if m.width == 0 {
		return "Loading..."
	}

	s := m.engine.Snapshot()
	accent := phaseColor(m.theme, s.Status)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	phaseStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var sections []string
	title := m.opts.Title
	if title == "" {
		title = m.settings.Mode.Label()
	}
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s %s", m.theme.IconApp, title)))
	sections = append(sections, helpStyle.Render(m.settings.Summary()))
	sections = append(sections, "")
	sections = append(sections, phaseStyle.Render(m.phaseLabel(s)))
	sections = append(sections, "")
	sections = append(sections, renderBigTime(m.clockText(s), accent, m.width))

	if s.Status == domain.TimerFinished {
		sections = append(sections, "")
		sections = append(sections, phaseStyle.Render(fmt.Sprintf("%d/%d intervals in %s",
			s.CompletedWorkIntervals, s.TotalWorkIntervals, domain.FormatSeconds(s.TotalTimeElapsed))))
		sections = append(sections, m.progress.ViewAs(1.0))
		if m.autoClosing {
			secs := int((m.closeLeft + time.Second - 1) / time.Second)
			sections = append(sections, helpStyle.Render(fmt.Sprintf("Closing in %ds... press any key to stay", secs)))
		}
	} else {
		if s.TotalWorkIntervals > 1 {
			sections = append(sections, "")
			sections = append(sections, phaseStyle.Render(fmt.Sprintf("Round %d/%d", s.CurrentRound, s.TotalWorkIntervals)))
		}
		sections = append(sections, "")
		sections = append(sections, phaseBar(m.theme, s.Status, m.width-4).ViewAs(s.Progress()))
		sections = append(sections, helpStyle.Render(fmt.Sprintf("%s / %s",
			domain.FormatSeconds(s.TotalTimeElapsed), domain.FormatSeconds(s.TotalBlockDuration))))
	}

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(m.helpText(s)))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// viewInline renders a compact two-line timer that leaves the scrollback alone.
func (m Model) viewInline() string {
	s := m.engine.Snapshot()
	accent := lipgloss.NewStyle().Bold(true).Foreground(phaseColor(m.theme, s.Status))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	line := fmt.Sprintf("%s %s  %s  %s", m.theme.IconApp, m.opts.Title,
		accent.Render(m.phaseLabel(s)), accent.Render(m.clockText(s)))
	if s.TotalWorkIntervals > 1 && s.Status != domain.TimerFinished {
		line += dim.Render(fmt.Sprintf("  round %d/%d", s.CurrentRound, s.TotalWorkIntervals))
	}

	width := m.width
	if width == 0 {
		width = 80
	}
	bar := phaseBar(m.theme, s.Status, width/3)
	line += "  " + bar.ViewAs(s.Progress())

	return line + "\n" + dim.Render(m.helpText(s)) + "\n"
}

func (m Model) isAttached() bool {
	_, ok := m.engine.Settings()
	return ok
}

// tickCmd creates a command that sends a tick message.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// RunTimer shows the timer screen until the user quits or ctx is done and
// returns the final engine state. OnFinish sees every run that started,
// including one abandoned by quitting.
func RunTimer(ctx context.Context, e *timer.Engine, opts Options) (domain.TimerState, error) {
	m := NewModel(e, opts)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Inline {
		m.width = getTerminalWidth()
	} else {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	_, err := tea.NewProgram(m, progOpts...).Run()
	// The run log is shared, so this is a no-op when the model already reported.
	m.report()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return e.Snapshot(), fmt.Errorf("failed to run TUI: %w", err)
	}
	return e.Snapshot(), nil
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/wod-cli/internal/config"
	"github.com/xvierd/wod-cli/internal/domain"
)

// ParseFunc previews a title: the settings it produces and the names of
// the fields it recognised.
type ParseFunc func(title string) (domain.TimerSettings, []string)

// EditorResult holds the outcome of the block editor.
type EditorResult struct {
	Title     string
	Exercises []string
	Settings  domain.TimerSettings
	Aborted   bool
}

const (
	fieldTitle = iota
	fieldExercises
)

type editorModel struct {
	inputs  []textinput.Model
	focus   int
	parse   ParseFunc
	preview domain.TimerSettings
	fields  []string
	err     string
	done    bool
	aborted bool
	theme   config.ThemeConfig
}

func newEditorModel(title string, parse ParseFunc, theme config.ThemeConfig) editorModel {
	ti := textinput.New()
	ti.Placeholder = "EMOM 10, Tabata, 40/20 x 6..."
	ti.CharLimit = 120
	ti.Width = 50
	ti.SetValue(title)
	ti.Focus()

	ex := textinput.New()
	ex.Placeholder = "Exercises, comma separated"
	ex.CharLimit = 240
	ex.Width = 50

	m := editorModel{
		inputs: []textinput.Model{ti, ex},
		parse:  parse,
		theme:  theme,
	}
	m.reparse()
	return m
}

func (m editorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *editorModel) reparse() {
	if m.parse == nil {
		return
	}
	m.preview, m.fields = m.parse(m.inputs[fieldTitle].Value())
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "tab", "shift+tab", "up", "down":
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % len(m.inputs)
			return m, m.inputs[m.focus].Focus()
		case "enter":
			if strings.TrimSpace(m.inputs[fieldTitle].Value()) == "" {
				m.err = "A block needs a title."
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.focus == fieldTitle {
		m.err = ""
		m.reparse()
	}
	return m, cmd
}

func (m editorModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	accent := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorWork))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  %s New block", m.theme.IconApp)) + "\n\n")
	b.WriteString("  Title      " + m.inputs[fieldTitle].View() + "\n")
	b.WriteString("  Exercises  " + m.inputs[fieldExercises].View() + "\n\n")

	if len(m.fields) > 0 {
		b.WriteString("  " + accent.Render("→ "+m.preview.Summary()))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (from title: %s)", strings.Join(m.fields, ", "))) + "\n")
	} else {
		b.WriteString(dimStyle.Render("  → "+m.preview.Summary()+"  (defaults)") + "\n")
	}

	if m.err != "" {
		b.WriteString("\n" + accent.Render("  "+m.err) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  tab next field · enter save · esc cancel") + "\n")
	return b.String()
}

func (m editorModel) result() EditorResult {
	if m.aborted || !m.done {
		return EditorResult{Aborted: true}
	}
	return EditorResult{
		Title:     strings.TrimSpace(m.inputs[fieldTitle].Value()),
		Exercises: splitExercises(m.inputs[fieldExercises].Value()),
		Settings:  m.preview,
	}
}

func splitExercises(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RunEditor opens the block editor. The settings preview updates as the
// title is typed.
func RunEditor(title string, parse ParseFunc, theme *config.ThemeConfig) EditorResult {
	m := newEditorModel(title, parse, resolveTheme(theme))

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return EditorResult{Aborted: true}
	}
	return result.(editorModel).result()
}

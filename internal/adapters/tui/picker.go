package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/xvierd/wod-cli/internal/config"
	"github.com/xvierd/wod-cli/internal/domain"
)

// PickerItem represents one option in the picker.
type PickerItem struct {
	Label string
	Desc  string
}

// PickerResult holds the outcome of a picker interaction. Index points
// into the items passed to RunPicker.
type PickerResult struct {
	Index   int
	Aborted bool
}

// BlockItems turns blocks into picker items labelled by title.
func BlockItems(blocks []*domain.WorkoutBlock) []PickerItem {
	items := make([]PickerItem, 0, len(blocks))
	for _, b := range blocks {
		items = append(items, PickerItem{Label: b.Title, Desc: b.Settings.Summary()})
	}
	return items
}

type pickerModel struct {
	title   string
	items   []PickerItem
	footer  string
	query   string
	visible []int
	cursor  int
	chosen  bool
	aborted bool
	theme   config.ThemeConfig
}

func newPickerModel(title string, items []PickerItem, footer string, theme config.ThemeConfig) pickerModel {
	m := pickerModel{title: title, items: items, footer: footer, theme: theme}
	m.filter()
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

// filter narrows the visible items to fuzzy matches of the query, best first.
func (m *pickerModel) filter() {
	m.visible = m.visible[:0]
	if m.query == "" {
		for i := range m.items {
			m.visible = append(m.visible, i)
		}
	} else {
		labels := make([]string, len(m.items))
		for i, item := range m.items {
			labels[i] = item.Label
		}
		for _, match := range fuzzy.Find(m.query, labels) {
			m.visible = append(m.visible, match.Index)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			if len(m.visible) == 0 {
				return m, nil
			}
			m.chosen = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.query != "" {
				r := []rune(m.query)
				m.query = string(r[:len(r)-1])
				m.filter()
			}
		case tea.KeySpace:
			m.query += " "
			m.cursor = 0
			m.filter()
		case tea.KeyRunes:
			m.query += string(msg.Runes)
			m.cursor = 0
			m.filter()
		}
	}
	return m, nil
}

// selected returns the index into items of the highlighted entry, or -1.
func (m pickerModel) selected() int {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return -1
	}
	return m.visible[m.cursor]
}

func (m pickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorWork)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.title) + "\n")
	if m.query != "" {
		b.WriteString(dimStyle.Render("  search: "+m.query) + "\n")
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render("    no matches") + "\n")
	}
	for i, idx := range m.visible {
		item := m.items[idx]
		if i == m.cursor {
			arrow := activeStyle.Render("▸")
			line := activeStyle.Render(fmt.Sprintf(" %-28s %s", item.Label, item.Desc))
			b.WriteString(fmt.Sprintf("  %s%s\n", arrow, line))
		} else {
			b.WriteString(dimStyle.Render(fmt.Sprintf("    %-28s %s", item.Label, item.Desc)) + "\n")
		}
	}

	if m.footer != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  "+m.footer) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  type to search · ↑/↓ navigate · enter select · esc back") + "\n")

	return b.String()
}

// RunPicker launches an interactive picker and returns the selected index.
func RunPicker(title string, items []PickerItem, footer string, theme *config.ThemeConfig) PickerResult {
	if len(items) == 0 {
		return PickerResult{Aborted: true}
	}
	m := newPickerModel(title, items, footer, resolveTheme(theme))

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}

	final := result.(pickerModel)
	if final.aborted || final.selected() < 0 {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Index: final.selected()}
}

// --- Styled text prompt ---

// TextPromptResult holds the outcome of a text prompt.
type TextPromptResult struct {
	Value   string
	Aborted bool
}

type textPromptModel struct {
	title   string
	input   textinput.Model
	aborted bool
	theme   config.ThemeConfig
}

func (m textPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textPromptModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.title) + " ")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  enter confirm · esc back") + "\n")

	return b.String()
}

// RunTextPrompt launches a styled text input prompt.
func RunTextPrompt(title, initial string, theme *config.ThemeConfig) TextPromptResult {
	ti := textinput.New()
	ti.SetValue(initial)
	ti.CharLimit = 120
	ti.Width = 50
	ti.Focus()

	m := textPromptModel{
		title: title,
		input: ti,
		theme: resolveTheme(theme),
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return TextPromptResult{Aborted: true}
	}

	final := result.(textPromptModel)
	if final.aborted {
		return TextPromptResult{Aborted: true}
	}
	return TextPromptResult{Value: strings.TrimSpace(final.input.Value())}
}

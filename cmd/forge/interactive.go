package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/forge/internal/export"
	"github.com/unbound-force/forge/internal/synth"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// browseModel is the Bubble Tea model for browsing generated cases.
type browseModel struct {
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newBrowseModel(res synth.Result) browseModel {
	return browseModel{
		help:    help.New(),
		keys:    defaultKeyMap,
		content: renderBrowseContent(export.Build(res)),
	}
}

func renderBrowseContent(doc export.Document) string {
	var sb strings.Builder

	total := 0
	for _, fc := range doc.Functions {
		total += len(fc.Cases)
	}
	for _, cc := range doc.Classes {
		for _, mc := range cc.Members {
			total += len(mc.Cases)
		}
	}

	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("Forge Cases: module %s, %d case(s)", doc.Module, total)))
	sb.WriteString("\n\n")

	for _, fc := range doc.Functions {
		sb.WriteString(tuiHeaderStyle.Render(fmt.Sprintf("=== %s ===", fc.Function)))
		sb.WriteString("\n")
		writeCaseBlock(&sb, fc.Cases)
	}

	for _, cc := range doc.Classes {
		sb.WriteString(tuiHeaderStyle.Render(fmt.Sprintf("=== class %s ===", cc.Class)))
		sb.WriteString("\n")
		for _, mc := range cc.Members {
			sb.WriteString(statusStyle.Render(fmt.Sprintf("    %s", mc.Member)))
			sb.WriteString("\n")
			writeCaseBlock(&sb, mc.Cases)
		}
	}

	return sb.String()
}

func writeCaseBlock(sb *strings.Builder, cs []export.Case) {
	if len(cs) == 0 {
		sb.WriteString(statusStyle.Render("    No cases generated."))
		sb.WriteString("\n\n")
		return
	}

	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		result := "ok"
		expected := strings.Join(c.Outputs, ", ")
		if c.ErrKind != "" {
			result = "error"
			expected = c.ErrKind
		}
		desc := c.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		rows = append(rows, []string{result, desc, expected})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tuiBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tuiHeaderStyle
			}
			if col == 0 && row >= 0 && row < len(rows) {
				if rows[row][0] == "error" {
					return failStyle
				}
				return passStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("RESULT", "DESCRIPTION", "EXPECTED").
		Rows(rows...)

	sb.WriteString(t.String())
	sb.WriteString("\n\n")
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 0
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveBrowse launches the Bubble Tea TUI for browsing
// generated cases.
func runInteractiveBrowse(res synth.Result) error {
	model := newBrowseModel(res)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

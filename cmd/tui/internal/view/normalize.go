package view

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/normalize"
)

type NormalizeModel struct {
	CommonModel
	normalizer *normalize.Normalizer
	scope      string

	done   bool
	result normalize.Result
	err    error
}

func NewNormalizeModel(n *normalize.Normalizer, scope string) NormalizeModel {
	return NormalizeModel{normalizer: n, scope: scope}
}

func (m NormalizeModel) Title() string     { return "Normalize Identifiers" }
func (m NormalizeModel) ShortHelp() string { return "Esc: back to menu" }

func (m NormalizeModel) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.normalizer.Run(ctx, m.scope)

		return normalizeResultMsg{res: res, err: err}
	}
}

func (m NormalizeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case normalizeResultMsg:
		m.done = true
		m.result = msg.res
		m.err = msg.err
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m NormalizeModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch {
	case !m.done:
		return style.Render("Normalizing identifiers...")
	case m.err != nil:
		return style.Render(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)))
	case !m.result.Changed:
		return style.Render("All identifiers are already canonical.")
	}

	olds := make([]string, 0, len(m.result.Renames))
	for old := range m.result.Renames {
		olds = append(olds, old)
	}

	sort.Strings(olds)

	var b strings.Builder
	for _, old := range olds {
		fmt.Fprintf(&b, "%s -> %s\n", old, m.result.Renames[old])
	}

	return style.Render(fmt.Sprintf("Renamed %d identifiers:\n\n%s", len(olds), b.String()))
}

type normalizeResultMsg struct {
	res normalize.Result
	err error
}

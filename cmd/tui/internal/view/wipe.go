package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

type WipeModel struct {
	CommonModel
	repo  *ledger.Repository
	scope string

	form    *huh.Form
	confirm bool
	status  string
}

func NewWipeModel(repo *ledger.Repository, scope string) WipeModel {
	m := WipeModel{repo: repo, scope: scope}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete every local record of %s?", scope)).
				Description("Records not yet pushed are lost. The remote store is not touched.").
				Affirmative("Wipe").
				Negative("Cancel").
				Value(&m.confirm),
		),
	).WithWidth(60).WithShowHelp(false)

	return m
}

func (m WipeModel) Title() string     { return "Wipe Local Data" }
func (m WipeModel) ShortHelp() string { return "Esc: back" }

func (m WipeModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m WipeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case wipeResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Wiped scope %s.", m.scope)
		}

		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.status != "" {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		return m, Back
	}

	return m, m.wipeCmd()
}

func (m WipeModel) View() string {
	if m.status != "" {
		return lipgloss.NewStyle().Padding(1).Render(m.status + "\n\nEsc: back to menu")
	}

	return lipgloss.NewStyle().Padding(1).Render(m.form.View())
}

type wipeResultMsg struct {
	err error
}

func (m WipeModel) wipeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return wipeResultMsg{err: m.repo.ClearScope(ctx, m.scope)}
	}
}

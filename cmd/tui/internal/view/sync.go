package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/syncer"
)

type syncState int

const (
	syncStateRunning syncState = iota
	syncStateResult
)

type SyncModel struct {
	CommonModel
	orchestrator *syncer.Orchestrator

	state   syncState
	spinner spinner.Model
	result  *syncer.Result
	err     error
}

func NewSyncModel(o *syncer.Orchestrator) SyncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SyncModel{
		orchestrator: o,
		spinner:      s,
	}
}

func (m SyncModel) Title() string { return "Sync" }

func (m SyncModel) ShortHelp() string {
	if m.state == syncStateRunning {
		return "Syncing..."
	}

	return "Esc: back to menu | r: sync again"
}

func (m SyncModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runSyncCmd())
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case syncStateRunning:
		if result, ok := msg.(syncResultMsg); ok {
			m.state = syncStateResult
			m.result = result.res
			m.err = result.err

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case syncStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "r":
				m.state = syncStateRunning
				m.result, m.err = nil, nil

				return m, m.Init()
			}
		}
	}

	return m, nil
}

func (m SyncModel) View() string {
	if m.state == syncStateRunning {
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Syncing with the remote store...", m.spinner.View()),
		)
	}

	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	if m.err != nil {
		msg := fmt.Sprintf("Error: %v", m.err)
		if errors.Is(m.err, syncer.ErrCycleInFlight) {
			msg = "A sync is already running."
		}

		return lipgloss.NewStyle().Padding(1).Render(errStyle.Render(msg))
	}

	if m.result.Disabled {
		return lipgloss.NewStyle().Padding(1).Render(
			"Sync is disabled: no remote is configured or you are not signed in.",
		)
	}

	var b strings.Builder

	for _, st := range m.result.Stats {
		fmt.Fprintf(&b, "%-20s pulled %4d  pushed %4d\n", st.Collection, st.Pulled, st.Pushed)
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Sync Complete!")

	for _, e := range m.result.Errors {
		b.WriteString("\n" + errStyle.Render(e.Error()))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", b.String()),
	)
}

type syncResultMsg struct {
	res *syncer.Result
	err error
}

const syncTimeout = 2 * time.Minute

func (m SyncModel) runSyncCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		res, err := m.orchestrator.SyncStored(ctx)

		return syncResultMsg{res: res, err: err}
	}
}

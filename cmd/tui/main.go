package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocketbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pocketbook/internal/app"
	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
)

type model struct {
	deps  *app.Deps
	scope string

	currentView View

	syncView         view.SyncModel
	normalizeView    view.NormalizeModel
	transactionsView view.TransactionsModel
	wipeView         view.WipeModel
}

type View int

const (
	ViewMenu         View = 0
	ViewSync         View = 1
	ViewNormalize    View = 2
	ViewTransactions View = 3
	ViewWipe         View = 4
)

func initialModel() (model, *app.Deps) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	scopes := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL).TokenScope(cfg.Auth.Token)

	scope, _, err := scopes(context.Background())
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		os.Exit(1)
	}

	deps, err := app.Open(cfg, scopes)
	if err != nil {
		slog.Error("failed to open stores", "error", err)
		os.Exit(1)
	}

	return model{
		deps:             deps,
		scope:            scope,
		currentView:      ViewMenu,
		syncView:         view.NewSyncModel(deps.Orchestrator),
		normalizeView:    view.NewNormalizeModel(deps.Normalizer, scope),
		transactionsView: view.NewTransactionsModel(deps.Ledger, scope),
		wipeView:         view.NewWipeModel(deps.Ledger, scope),
	}, deps
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewSync
				m.syncView = view.NewSyncModel(m.deps.Orchestrator)

				return m, m.syncView.Init()
			case "2":
				m.currentView = ViewNormalize
				m.normalizeView = view.NewNormalizeModel(m.deps.Normalizer, m.scope)

				return m, m.normalizeView.Init()
			case "3":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.deps.Ledger, m.scope)

				return m, m.transactionsView.Init()
			case "4":
				m.currentView = ViewWipe
				m.wipeView = view.NewWipeModel(m.deps.Ledger, m.scope)

				return m, m.wipeView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSync:
		var newModel tea.Model
		newModel, cmd = m.syncView.Update(msg)
		m.syncView = newModel.(view.SyncModel)
	case ViewNormalize:
		var newModel tea.Model
		newModel, cmd = m.normalizeView.Update(msg)
		m.normalizeView = newModel.(view.NormalizeModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewWipe:
		var newModel tea.Model
		newModel, cmd = m.wipeView.Update(msg)
		m.wipeView = newModel.(view.WipeModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Pocketbook (" + m.scope + ")\n\n" +
				"1. Sync Now\n" +
				"2. Normalize Identifiers\n" +
				"3. Browse Transactions\n" +
				"4. Wipe Local Data\n\n" +
				"q. Quit",
		)
	case ViewSync:
		return m.syncView.View()
	case ViewNormalize:
		return m.normalizeView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewWipe:
		return m.wipeView.View()
	}

	return "Unknown View"
}

func main() {
	m, deps := initialModel()
	defer deps.Close()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

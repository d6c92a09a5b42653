package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/MrJamesThe3rd/pocketbook/internal/app"
	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
	pocketbookHttp "github.com/MrJamesThe3rd/pocketbook/internal/http"
	ledgerHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/ledger"
	normalizeHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/normalize"
	syncHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/syncer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	deps, err := app.Open(cfg, auth.ContextScope)
	if err != nil {
		slog.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	var (
		syncH      = syncHandler.NewHandler(deps.Orchestrator)
		normalizeH = normalizeHandler.NewHandler(deps.Normalizer)
		ledgerH    = ledgerHandler.NewHandler(deps.Ledger)
	)

	router := pocketbookHttp.New(deps.Issuer, cfg.App.AllowedOrigins, syncH, normalizeH, ledgerH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "port", server.Addr, "sync_enabled", cfg.DB.Enabled)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

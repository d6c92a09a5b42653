package syncer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	"github.com/MrJamesThe3rd/pocketbook/internal/syncer"
)

type Handler struct {
	orchestrator *syncer.Orchestrator
}

func NewHandler(o *syncer.Orchestrator) *Handler {
	return &Handler{orchestrator: o}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.sync)
}

type collectionErrorResponse struct {
	Collection string       `json:"collection"`
	Phase      syncer.Phase `json:"phase"`
	Error      string       `json:"error"`
}

type syncResponse struct {
	Disabled bool                      `json:"disabled"`
	Settings finance.SettingsPatch     `json:"settings"`
	Stats    []syncer.CollectionStats  `json:"stats,omitempty"`
	Errors   []collectionErrorResponse `json:"errors,omitempty"`
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	res, err := h.orchestrator.SyncStored(r.Context())
	if err != nil {
		if errors.Is(err, syncer.ErrCycleInFlight) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		slog.Error("failed to sync", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	resp := syncResponse{
		Disabled: res.Disabled,
		Settings: res.Patch,
		Stats:    res.Stats,
	}

	for _, e := range res.Errors {
		resp.Errors = append(resp.Errors, collectionErrorResponse{
			Collection: e.Collection,
			Phase:      e.Phase,
			Error:      e.Err.Error(),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

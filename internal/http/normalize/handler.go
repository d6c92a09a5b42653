package normalize

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/normalize"
)

type Handler struct {
	normalizer *normalize.Normalizer
}

func NewHandler(n *normalize.Normalizer) *Handler {
	return &Handler{normalizer: n}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.normalize)
}

type normalizeResponse struct {
	Changed bool              `json:"changed"`
	Renames map[string]string `json:"renames"`
}

func (h *Handler) normalize(w http.ResponseWriter, r *http.Request) {
	scope := auth.FromContext(r.Context()).Scope

	res, err := h.normalizer.Run(r.Context(), scope)
	if errors.Is(err, ledger.ErrScopeBusy) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	if err != nil {
		slog.Error("failed to normalize identifiers", "scope", scope, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(normalizeResponse{Changed: res.Changed, Renames: res.Renames}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

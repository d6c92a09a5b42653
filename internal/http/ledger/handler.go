package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// Handler serves local edits. Nothing here talks to the remote; edits reach
// it on the next sync.
type Handler struct {
	repo *ledger.Repository
}

func NewHandler(repo *ledger.Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/settings", h.settings)

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.listTransactions)
		r.Put("/{id}", h.putTransaction)
		r.Delete("/{id}", h.tombstone(ledger.CollectionTransactions))
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Put("/{id}", h.putCategory)
		r.Delete("/{id}", h.tombstone(ledger.CollectionCategories))
	})

	r.Route("/vendor-rules", func(r chi.Router) {
		r.Get("/", h.listVendorRules)
		r.Put("/{id}", h.putVendorRule)
		r.Delete("/{id}", h.tombstone(ledger.CollectionVendorRules))
	})

	r.Route("/exceptions", func(r chi.Router) {
		r.Get("/", h.listExceptions)
		r.Put("/{id}", h.putException)
		r.Delete("/{id}", h.tombstone(ledger.CollectionExceptions))
	})
}

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.Settings(r.Context(), auth.FromContext(r.Context()).Scope)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.repo, func(s ledger.Snapshot) []finance.Transaction { return ledger.Live(s.Transactions) })
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.repo, func(s ledger.Snapshot) []finance.Category { return ledger.Live(s.Categories) })
}

func (h *Handler) listVendorRules(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.repo, func(s ledger.Snapshot) []finance.VendorRule { return ledger.Live(s.VendorRules) })
}

func (h *Handler) listExceptions(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.repo, func(s ledger.Snapshot) []finance.RecurringException { return ledger.Live(s.Exceptions) })
}

func (h *Handler) putTransaction(w http.ResponseWriter, r *http.Request) {
	put(w, r, h.repo.EditTransaction, func(v *finance.Transaction, id string) { v.ID = id })
}

func (h *Handler) putCategory(w http.ResponseWriter, r *http.Request) {
	put(w, r, h.repo.EditCategory, func(v *finance.Category, id string) { v.ID = id })
}

func (h *Handler) putVendorRule(w http.ResponseWriter, r *http.Request) {
	put(w, r, h.repo.EditVendorRule, func(v *finance.VendorRule, id string) { v.ID = id })
}

// putException accepts the id derived from the body's rule and date, or the
// id already stored for that occurrence.
func (h *Handler) putException(w http.ResponseWriter, r *http.Request) {
	edit := func(ctx context.Context, scope string, e finance.RecurringException) (finance.RecurringException, error) {
		if e.ID != finance.ExceptionID(e.RuleID, e.Date) {
			prev, ok, err := h.repo.ExceptionFor(ctx, scope, e.RuleID, e.Date)
			if err != nil {
				return e, err
			}

			if !ok || prev.ID != e.ID {
				return e, errBadRequest
			}
		}

		return h.repo.EditException(ctx, scope, e)
	}

	put(w, r, edit, func(v *finance.RecurringException, id string) { v.ID = id })
}

func (h *Handler) tombstone(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.repo.Tombstone(r.Context(), auth.FromContext(r.Context()).Scope, collection, chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				http.Error(w, "record not found", http.StatusNotFound)
				return
			}

			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

var errBadRequest = errors.New("id does not match the record")

func list[T any](w http.ResponseWriter, r *http.Request, repo *ledger.Repository, pick func(ledger.Snapshot) []T) {
	snap, err := repo.Load(r.Context(), auth.FromContext(r.Context()).Scope)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, pick(snap))
}

func put[T any](
	w http.ResponseWriter,
	r *http.Request,
	edit func(context.Context, string, T) (T, error),
	setID func(*T, string),
) {
	id := chi.URLParam(r, "id")
	if !finance.IsCanonicalID(id) {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	setID(&v, id)

	saved, err := edit(r.Context(), auth.FromContext(r.Context()).Scope, v)
	if err != nil {
		if errors.Is(err, errBadRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

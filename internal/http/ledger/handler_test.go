package ledger_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	ledgerHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/store"
)

func newServer(t *testing.T) (http.Handler, *ledger.Repository, *auth.Issuer) {
	t.Helper()

	db, err := database.OpenLocal(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := ledger.NewRepository(store.New(db)).WithClock(func() time.Time { return time.UnixMilli(10_000) })
	issuer := auth.NewIssuer("secret", time.Hour)

	r := chi.NewRouter()
	r.Use(auth.Middleware(issuer))
	ledgerHandler.NewHandler(repo).Routes(r)

	return r, repo, issuer
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_PutListDelete(t *testing.T) {
	h, repo, issuer := newServer(t)

	token, err := issuer.Issue("9")
	require.NoError(t, err)

	id := finance.NewID()

	rec := do(t, h, http.MethodPut, "/categories/"+id, token, `{"name":"Food","icon":"🍞"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved finance.Category
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, int64(10_000), saved.UpdatedAt)

	rec = do(t, h, http.MethodGet, "/categories", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []finance.Category
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	assert.Equal(t, []finance.Category{saved}, listed)

	rec = do(t, h, http.MethodGet, "/categories", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String(), "the guest scope sees nothing")

	rec = do(t, h, http.MethodDelete, "/categories/"+id, token, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/categories", token, "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	snap, err := repo.Load(t.Context(), "user_9")
	require.NoError(t, err)
	require.Len(t, snap.Categories, 1)
	assert.True(t, snap.Categories[0].IsDeleted())
}

func TestHandler_Errors(t *testing.T) {
	h, _, _ := newServer(t)

	rule := finance.NewID()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "NonCanonicalID", method: http.MethodPut, path: "/transactions/tx-1", body: `{}`, want: http.StatusBadRequest},
		{name: "BadBody", method: http.MethodPut, path: "/transactions/" + finance.NewID(), body: `{`, want: http.StatusBadRequest},
		{name: "DeleteMissing", method: http.MethodDelete, path: "/vendor-rules/" + finance.NewID(), want: http.StatusNotFound},
		{
			name:   "ExceptionIDMismatch",
			method: http.MethodPut,
			path:   "/exceptions/" + finance.NewID(),
			body:   `{"ruleId":"` + rule + `","date":"2024-05-01"}`,
			want:   http.StatusBadRequest,
		},
		{
			name:   "ExceptionDerivedID",
			method: http.MethodPut,
			path:   "/exceptions/" + finance.ExceptionID(rule, "2024-05-01"),
			body:   `{"ruleId":"` + rule + `","date":"2024-05-01","skipped":true}`,
			want:   http.StatusOK,
		},
		{name: "InvalidToken", method: http.MethodGet, path: "/settings", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := ""
			if tt.name == "InvalidToken" {
				token = "broken"
			}

			rec := do(t, h, tt.method, tt.path, token, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_PutMigratedException(t *testing.T) {
	h, repo, _ := newServer(t)

	rule := finance.NewID()
	migrated := finance.RecurringException{
		ID:        finance.ExceptionID("tx-legacy", "2024-05-01"),
		RuleID:    rule,
		Date:      "2024-05-01",
		UpdatedAt: 100,
	}
	require.NoError(t, repo.PutException(t.Context(), auth.GuestScope, migrated))

	rec := do(t, h, http.MethodPut, "/exceptions/"+migrated.ID, "", `{"ruleId":"`+rule+`","date":"2024-05-01","skipped":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap, err := repo.Load(t.Context(), auth.GuestScope)
	require.NoError(t, err)
	require.Len(t, snap.Exceptions, 1)
	assert.Equal(t, migrated.ID, snap.Exceptions[0].ID)
	assert.True(t, snap.Exceptions[0].Skipped)
}

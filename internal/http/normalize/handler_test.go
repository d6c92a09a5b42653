package normalize_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	normalizeHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/normalize"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/normalize"
	"github.com/MrJamesThe3rd/pocketbook/internal/store"
)

func TestHandler_Normalize(t *testing.T) {
	ctx := context.Background()

	db, err := database.OpenLocal(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := ledger.NewRepository(store.New(db))
	require.NoError(t, repo.PutCategory(ctx, auth.GuestScope, finance.Category{ID: "food", Name: "Food"}))

	issuer := auth.NewIssuer("secret", time.Hour)

	r := chi.NewRouter()
	r.Use(auth.Middleware(issuer))
	r.Route("/normalize", normalizeHandler.NewHandler(normalize.New(repo)).Routes)

	post := func() (bool, map[string]string) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/normalize", nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Changed bool              `json:"changed"`
			Renames map[string]string `json:"renames"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		return body.Changed, body.Renames
	}

	changed, renames := post()
	assert.True(t, changed)
	require.Contains(t, renames, "food")
	assert.True(t, finance.IsCanonicalID(renames["food"]))

	changed, renames = post()
	assert.False(t, changed)
	assert.Empty(t, renames)
}

func TestHandler_NormalizeBusyScope(t *testing.T) {
	db, err := database.OpenLocal(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := ledger.NewRepository(store.New(db))

	r := chi.NewRouter()
	r.Use(auth.Middleware(auth.NewIssuer("secret", time.Hour)))
	r.Route("/normalize", normalizeHandler.NewHandler(normalize.New(repo)).Routes)

	release, err := repo.Claim(auth.GuestScope)
	require.NoError(t, err)
	defer release()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/normalize", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

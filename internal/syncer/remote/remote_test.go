package remote_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	"github.com/MrJamesThe3rd/pocketbook/internal/syncer"
	"github.com/MrJamesThe3rd/pocketbook/internal/syncer/remote"
)

// newRemote connects to the database named by POCKETBOOK_TEST_DATABASE_URL.
func newRemote(t *testing.T) *remote.Remote {
	t.Helper()

	url := os.Getenv("POCKETBOOK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("POCKETBOOK_TEST_DATABASE_URL not set")
	}

	require.NoError(t, database.MigrateRemote(url))

	db, err := database.New(url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return remote.New(db, 5*time.Second)
}

func TestRemote_TransactionsRoundTrip(t *testing.T) {
	r := newRemote(t)
	ctx := context.Background()

	scope := "user_" + finance.NewID()
	deleted := int64(300)
	category := finance.NewID()

	rows := []syncer.TransactionRow{
		{ID: finance.NewID(), Vendor: "Bakery", Amount: decimal.RequireFromString("4.20"), Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Category: &category, IsActive: true, UpdatedAt: 100},
		{ID: finance.NewID(), Vendor: "Gym", Amount: decimal.NewFromInt(30), Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), UpdatedAt: 50, DeletedAt: &deleted},
		{ID: finance.NewID(), Vendor: "Old", Amount: decimal.NewFromInt(1), Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), UpdatedAt: 10},
	}

	require.NoError(t, r.UpsertTransactions(ctx, scope, rows))

	got, err := r.TransactionsChangedSince(ctx, scope, 20)
	require.NoError(t, err)
	require.Len(t, got, 2, "rows changed or deleted after the watermark")

	ids := []string{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []string{rows[0].ID, rows[1].ID}, ids)

	other, err := r.TransactionsChangedSince(ctx, "user_"+finance.NewID(), 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRemote_UpsertDoesNotCrossScopes(t *testing.T) {
	r := newRemote(t)
	ctx := context.Background()

	owner := "user_" + finance.NewID()
	intruder := "user_" + finance.NewID()
	row := syncer.CategoryRow{ID: finance.NewID(), Name: "Food", UpdatedAt: 10}

	require.NoError(t, r.UpsertCategories(ctx, owner, []syncer.CategoryRow{row}))

	row.Name = "Hijacked"
	row.UpdatedAt = 20
	require.NoError(t, r.UpsertCategories(ctx, intruder, []syncer.CategoryRow{row}))

	got, err := r.CategoriesChangedSince(ctx, owner, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Food", got[0].Name)
}

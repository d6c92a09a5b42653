package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/store"
)

func newRepo(t *testing.T, now time.Time) *ledger.Repository {
	t.Helper()

	db, err := database.OpenLocal(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return ledger.NewRepository(store.New(db)).WithClock(func() time.Time { return now })
}

func TestTouch(t *testing.T) {
	assert.Equal(t, int64(200), ledger.Touch(100, 200))
	assert.Equal(t, int64(101), ledger.Touch(100, 100))
	assert.Equal(t, int64(101), ledger.Touch(100, 50), "a skewed clock still moves forward")
}

func TestRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, time.UnixMilli(1_000))

	c := finance.Collections{
		Transactions: []finance.Transaction{{
			ID:     finance.NewID(),
			Vendor: "Bakery",
			Amount: decimal.RequireFromString("4.20"),
			Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}},
		Categories:  []finance.Category{{ID: "sys-food", Name: "Food"}},
		VendorRules: []finance.VendorRule{{ID: finance.NewID(), VendorContains: "bake", CategoryID: "sys-food"}},
	}

	require.NoError(t, repo.Save(ctx, "user_a", c))
	require.NoError(t, repo.SaveSettings(ctx, "user_a", finance.Settings{LastPullAt: 5, LastPushAt: 6}))

	snap, err := repo.Load(ctx, "user_a")
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "Bakery", snap.Transactions[0].Vendor)
	assert.True(t, c.Transactions[0].Amount.Equal(snap.Transactions[0].Amount))
	assert.Equal(t, c.Categories, snap.Categories)
	assert.Equal(t, c.VendorRules, snap.VendorRules)
	assert.Empty(t, snap.Exceptions)
	assert.Equal(t, finance.Settings{LastPullAt: 5, LastPushAt: 6}, snap.Settings)

	other, err := repo.Load(ctx, "user_b")
	require.NoError(t, err)
	assert.Empty(t, other.Transactions)
	assert.Equal(t, finance.Settings{}, other.Settings)
}

func TestRepository_EditStampsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, time.UnixMilli(5_000))

	cat, err := repo.EditCategory(ctx, "guest", finance.Category{Name: "Rent"})
	require.NoError(t, err)
	assert.True(t, finance.IsCanonicalID(cat.ID))
	assert.Equal(t, int64(5_000), cat.UpdatedAt)

	// Same clock reading again: the edit must still move UpdatedAt forward.
	cat.Name = "Housing"
	cat, err = repo.EditCategory(ctx, "guest", cat)
	require.NoError(t, err)
	assert.Equal(t, int64(5_001), cat.UpdatedAt)
}

func TestRepository_EditExceptionDerivesID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, time.UnixMilli(5_000))

	rule := finance.NewID()

	exc, err := repo.EditException(ctx, "guest", finance.RecurringException{RuleID: rule, Date: "2024-05-01", Skipped: true})
	require.NoError(t, err)
	assert.Equal(t, finance.ExceptionID(rule, "2024-05-01"), exc.ID)

	_, err = repo.EditException(ctx, "guest", finance.RecurringException{RuleID: rule})
	assert.Error(t, err)
}

func TestRepository_Tombstone(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, time.UnixMilli(9_000))

	tx := finance.Transaction{ID: finance.NewID(), Vendor: "Gym", UpdatedAt: 8_000}
	require.NoError(t, repo.PutTransaction(ctx, "guest", tx))

	require.NoError(t, repo.Tombstone(ctx, "guest", ledger.CollectionTransactions, tx.ID))

	snap, err := repo.Load(ctx, "guest")
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 1, "tombstones are retained")
	assert.Equal(t, int64(9_000), snap.Transactions[0].DeletedAt)
	assert.Equal(t, int64(9_000), snap.Transactions[0].UpdatedAt)
	assert.Empty(t, ledger.Live(snap.Transactions))

	err = repo.Tombstone(ctx, "guest", ledger.CollectionTransactions, finance.NewID())
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestRepository_SaveNewerKeepsLaterEdits(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, time.UnixMilli(5_000))

	stale := finance.Transaction{ID: finance.NewID(), Vendor: "Before", UpdatedAt: 100}
	require.NoError(t, repo.PutTransaction(ctx, "guest", stale))

	edited := stale
	edited.Vendor = "After"
	_, err := repo.EditTransaction(ctx, "guest", edited)
	require.NoError(t, err)

	fresh := finance.Category{ID: finance.NewID(), Name: "Food", UpdatedAt: 200}
	require.NoError(t, repo.SaveNewer(ctx, "guest", finance.Collections{
		Transactions: []finance.Transaction{stale},
		Categories:   []finance.Category{fresh},
	}))

	snap, err := repo.Load(ctx, "guest")
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "After", snap.Transactions[0].Vendor)
	assert.Equal(t, int64(5_000), snap.Transactions[0].UpdatedAt)
	assert.Equal(t, []finance.Category{fresh}, snap.Categories)

	newer := snap.Transactions[0]
	newer.Vendor = "Remote"
	newer.UpdatedAt = 6_000
	require.NoError(t, repo.SaveNewer(ctx, "guest", finance.Collections{Transactions: []finance.Transaction{newer}}))

	snap, err = repo.Load(ctx, "guest")
	require.NoError(t, err)
	assert.Equal(t, "Remote", snap.Transactions[0].Vendor)
}

func TestRepository_EditExceptionReusesStoredID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, time.UnixMilli(5_000))

	rule := finance.NewID()
	migrated := finance.RecurringException{
		ID:        finance.ExceptionID("tx-legacy", "2024-05-01"),
		RuleID:    rule,
		Date:      "2024-05-01",
		UpdatedAt: 100,
	}
	require.NoError(t, repo.PutException(ctx, "guest", migrated))

	exc, err := repo.EditException(ctx, "guest", finance.RecurringException{RuleID: rule, Date: "2024-05-01", Skipped: true})
	require.NoError(t, err)
	assert.Equal(t, migrated.ID, exc.ID)

	snap, err := repo.Load(ctx, "guest")
	require.NoError(t, err)
	require.Len(t, snap.Exceptions, 1)
	assert.True(t, snap.Exceptions[0].Skipped)

	found, ok, err := repo.ExceptionFor(ctx, "guest", rule, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, migrated.ID, found.ID)
}

func TestRepository_Claim(t *testing.T) {
	repo := newRepo(t, time.UnixMilli(1))

	release, err := repo.Claim("user_a")
	require.NoError(t, err)

	_, err = repo.Claim("user_a")
	assert.ErrorIs(t, err, ledger.ErrScopeBusy)

	other, err := repo.Claim("user_b")
	require.NoError(t, err)
	other()

	release()

	again, err := repo.Claim("user_a")
	require.NoError(t, err)
	again()
}

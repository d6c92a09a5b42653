package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := database.OpenLocal(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db)
}

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Set(ctx, "categories", "c1", "user_a", []byte(`{"id":"c1"}`)))

	got, ok, err := s.Get(ctx, "categories", "c1", "user_a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"c1"}`, string(got))

	_, ok, err = s.Get(ctx, "categories", "c1", "user_b")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "categories", "c1", "user_a", []byte(`{"id":"c1","name":"Food"}`)))

	got, _, err = s.Get(ctx, "categories", "c1", "user_a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1","name":"Food"}`, string(got))
}

func TestStore_GetAllIsolatesScopes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	// "user" is a prefix of "user_b"'s scope string; neither may see the other.
	require.NoError(t, s.Set(ctx, "transactions", "t1", "user", []byte(`1`)))
	require.NoError(t, s.Set(ctx, "transactions", "t2", "user_b", []byte(`2`)))
	require.NoError(t, s.Set(ctx, "transactions", "t3", "user_b", []byte(`3`)))
	require.NoError(t, s.Set(ctx, "categories", "c1", "user", []byte(`4`)))

	a, err := s.GetAll(ctx, "transactions", "user")
	require.NoError(t, err)
	require.Len(t, a, 1)
	assert.Equal(t, "t1", a[0].Key)

	b, err := s.GetAll(ctx, "transactions", "user_b")
	require.NoError(t, err)
	require.Len(t, b, 2)
	assert.Equal(t, "t2", b[0].Key)
	assert.Equal(t, "t3", b[1].Key)
}

func TestStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Set(ctx, "transactions", "t1", "guest", []byte(`1`)))
	require.NoError(t, s.Set(ctx, "transactions", "t2", "guest", []byte(`2`)))
	require.NoError(t, s.Set(ctx, "categories", "c1", "guest", []byte(`3`)))
	require.NoError(t, s.Set(ctx, "transactions", "t1", "user_a", []byte(`4`)))

	require.NoError(t, s.Remove(ctx, "transactions", "t1", "guest"))
	require.NoError(t, s.Remove(ctx, "transactions", "missing", "guest"))

	guest, err := s.GetAll(ctx, "transactions", "guest")
	require.NoError(t, err)
	assert.Len(t, guest, 1)

	require.NoError(t, s.ClearScope(ctx, "guest"))

	guest, err = s.GetAll(ctx, "transactions", "guest")
	require.NoError(t, err)
	assert.Empty(t, guest)

	cats, err := s.GetAll(ctx, "categories", "guest")
	require.NoError(t, err)
	assert.Empty(t, cats)

	_, ok, err := s.Get(ctx, "transactions", "t1", "user_a")
	require.NoError(t, err)
	assert.True(t, ok, "other scopes survive ClearScope")

	require.NoError(t, s.ClearAll(ctx))

	_, ok, err = s.Get(ctx, "transactions", "t1", "user_a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_InvalidScope(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, scope := range []string{"", "a|b"} {
		err := s.Set(ctx, "transactions", "t1", scope, []byte(`1`))
		assert.ErrorIs(t, err, store.ErrInvalidScope)

		_, err = s.GetAll(ctx, "transactions", scope)
		assert.ErrorIs(t, err, store.ErrInvalidScope)
	}
}

func TestStore_Unavailable(t *testing.T) {
	ctx := context.Background()

	db, err := database.OpenLocal(":memory:")
	require.NoError(t, err)

	s := store.New(db)
	require.NoError(t, db.Close())

	err = s.Set(ctx, "transactions", "t1", "guest", []byte(`1`))
	assert.ErrorIs(t, err, store.ErrUnavailable)

	_, _, err = s.Get(ctx, "transactions", "t1", "guest")
	assert.ErrorIs(t, err, store.ErrUnavailable)

	_, err = s.GetAll(ctx, "transactions", "guest")
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

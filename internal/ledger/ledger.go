package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	"github.com/MrJamesThe3rd/pocketbook/internal/store"
)

// Collection names inside the scoped store.
const (
	CollectionTransactions = "transactions"
	CollectionCategories   = "categories"
	CollectionVendorRules  = "vendorRules"
	CollectionExceptions   = "recurringExceptions"
	CollectionSettings     = "settings"

	settingsKey = "sync"
)

var ErrNotFound = errors.New("record not found")

// Snapshot is everything the device holds for one scope.
type Snapshot struct {
	finance.Collections
	Settings finance.Settings
}

// Repository reads and writes typed records through the scoped store.
type Repository struct {
	store *store.Store
	now   func() time.Time
	locks *scopeLocks
}

func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s, now: time.Now, locks: newScopeLocks()}
}

// WithClock replaces the clock used to stamp local edits.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

// Store exposes the underlying scoped store.
func (r *Repository) Store() *store.Store {
	return r.store
}

func (r *Repository) Load(ctx context.Context, scope string) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)

	if snap.Transactions, err = list[finance.Transaction](ctx, r.store, CollectionTransactions, scope); err != nil {
		return Snapshot{}, err
	}

	if snap.Categories, err = list[finance.Category](ctx, r.store, CollectionCategories, scope); err != nil {
		return Snapshot{}, err
	}

	if snap.VendorRules, err = list[finance.VendorRule](ctx, r.store, CollectionVendorRules, scope); err != nil {
		return Snapshot{}, err
	}

	if snap.Exceptions, err = list[finance.RecurringException](ctx, r.store, CollectionExceptions, scope); err != nil {
		return Snapshot{}, err
	}

	if snap.Settings, err = r.Settings(ctx, scope); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// Save writes every record of c, one record at a time. A failure part way
// leaves the records written so far in place.
func (r *Repository) Save(ctx context.Context, scope string, c finance.Collections) error {
	if err := putAll(ctx, r.store, CollectionTransactions, scope, c.Transactions); err != nil {
		return err
	}

	if err := putAll(ctx, r.store, CollectionCategories, scope, c.Categories); err != nil {
		return err
	}

	if err := putAll(ctx, r.store, CollectionVendorRules, scope, c.VendorRules); err != nil {
		return err
	}

	return putAll(ctx, r.store, CollectionExceptions, scope, c.Exceptions)
}

// SaveNewer writes the records of c that are at least as recent as their
// stored copy. A record edited after c was read keeps the stored version.
func (r *Repository) SaveNewer(ctx context.Context, scope string, c finance.Collections) error {
	return r.Exclusive(scope, func() error {
		if err := putNewer(ctx, r.store, CollectionTransactions, scope, c.Transactions); err != nil {
			return err
		}

		if err := putNewer(ctx, r.store, CollectionCategories, scope, c.Categories); err != nil {
			return err
		}

		if err := putNewer(ctx, r.store, CollectionVendorRules, scope, c.VendorRules); err != nil {
			return err
		}

		return putNewer(ctx, r.store, CollectionExceptions, scope, c.Exceptions)
	})
}

func (r *Repository) PutTransaction(ctx context.Context, scope string, t finance.Transaction) error {
	return put(ctx, r.store, CollectionTransactions, scope, t)
}

func (r *Repository) PutCategory(ctx context.Context, scope string, c finance.Category) error {
	return put(ctx, r.store, CollectionCategories, scope, c)
}

func (r *Repository) PutVendorRule(ctx context.Context, scope string, v finance.VendorRule) error {
	return put(ctx, r.store, CollectionVendorRules, scope, v)
}

func (r *Repository) PutException(ctx context.Context, scope string, e finance.RecurringException) error {
	return put(ctx, r.store, CollectionExceptions, scope, e)
}

// Remove physically deletes a record. Only id migration uses it; edits tombstone.
func (r *Repository) Remove(ctx context.Context, scope, collection, id string) error {
	return r.store.Remove(ctx, collection, id, scope)
}

func (r *Repository) Settings(ctx context.Context, scope string) (finance.Settings, error) {
	s, _, err := get[finance.Settings](ctx, r.store, CollectionSettings, settingsKey, scope)
	return s, err
}

func (r *Repository) SaveSettings(ctx context.Context, scope string, s finance.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	return r.store.Set(ctx, CollectionSettings, settingsKey, scope, data)
}

// ClearScope wipes every record and the settings of scope.
func (r *Repository) ClearScope(ctx context.Context, scope string) error {
	return r.store.ClearScope(ctx, scope)
}

// ClearAll wipes the device.
func (r *Repository) ClearAll(ctx context.Context) error {
	return r.store.ClearAll(ctx)
}

func list[T any](ctx context.Context, s *store.Store, collection, scope string) ([]T, error) {
	entries, err := s.GetAll(ctx, collection, scope)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(entries))

	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, fmt.Errorf("decoding %s/%s: %w", collection, e.Key, err)
		}

		out = append(out, v)
	}

	return out, nil
}

func get[T any](ctx context.Context, s *store.Store, collection, key, scope string) (T, bool, error) {
	var v T

	data, ok, err := s.Get(ctx, collection, key, scope)
	if err != nil || !ok {
		return v, false, err
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decoding %s/%s: %w", collection, key, err)
	}

	return v, true, nil
}

func put[T finance.Entity](ctx context.Context, s *store.Store, collection, scope string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, v.EntityID(), err)
	}

	return s.Set(ctx, collection, v.EntityID(), scope, data)
}

func putAll[T finance.Entity](ctx context.Context, s *store.Store, collection, scope string, items []T) error {
	for _, v := range items {
		if err := put(ctx, s, collection, scope, v); err != nil {
			return err
		}
	}

	return nil
}

func putNewer[T finance.Entity](ctx context.Context, s *store.Store, collection, scope string, items []T) error {
	for _, v := range items {
		prev, ok, err := get[T](ctx, s, collection, v.EntityID(), scope)
		if err != nil {
			return err
		}

		if ok && prev.LastModified() > v.LastModified() {
			continue
		}

		if err := put(ctx, s, collection, scope, v); err != nil {
			return err
		}
	}

	return nil
}

package ledger

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
)

// Touch returns the UpdatedAt for a record edited at now whose previous
// UpdatedAt was prev. The result is always greater than prev.
func Touch(prev, now int64) int64 {
	if now <= prev {
		return prev + 1
	}

	return now
}

// Live drops tombstoned records.
func Live[T interface{ IsDeleted() bool }](items []T) []T {
	out := make([]T, 0, len(items))

	for _, v := range items {
		if v.IsDeleted() {
			continue
		}

		out = append(out, v)
	}

	return out
}

// EditTransaction stores a local edit of t, assigning an id to new records.
func (r *Repository) EditTransaction(ctx context.Context, scope string, t finance.Transaction) (finance.Transaction, error) {
	if t.ID == "" {
		t.ID = finance.NewID()
	}

	return lockedEdit(ctx, r, CollectionTransactions, scope, t, func(v *finance.Transaction, at int64) { v.UpdatedAt = at })
}

func (r *Repository) EditCategory(ctx context.Context, scope string, c finance.Category) (finance.Category, error) {
	if c.ID == "" {
		c.ID = finance.NewID()
	}

	return lockedEdit(ctx, r, CollectionCategories, scope, c, func(v *finance.Category, at int64) { v.UpdatedAt = at })
}

func (r *Repository) EditVendorRule(ctx context.Context, scope string, v finance.VendorRule) (finance.VendorRule, error) {
	if v.ID == "" {
		v.ID = finance.NewID()
	}

	if v.Source == "" {
		v.Source = finance.RuleSourceUser
	}

	return lockedEdit(ctx, r, CollectionVendorRules, scope, v, func(v *finance.VendorRule, at int64) { v.UpdatedAt = at })
}

// EditException stores a local edit of e. A new exception reuses the id of
// the one already stored for the same rule and date, otherwise its id is
// derived from them.
func (r *Repository) EditException(ctx context.Context, scope string, e finance.RecurringException) (finance.RecurringException, error) {
	if e.RuleID == "" || e.Date == "" {
		return e, fmt.Errorf("exception needs a rule and a date")
	}

	var out finance.RecurringException

	err := r.Exclusive(scope, func() error {
		if e.ID == "" {
			prev, ok, err := exceptionFor(ctx, r, scope, e.RuleID, e.Date)
			if err != nil {
				return err
			}

			e.ID = finance.ExceptionID(e.RuleID, e.Date)
			if ok {
				e.ID = prev.ID
			}
		}

		var err error
		out, err = edit(ctx, r, CollectionExceptions, scope, e, func(v *finance.RecurringException, at int64) { v.UpdatedAt = at })

		return err
	})

	return out, err
}

// ExceptionFor returns the stored exception overriding the occurrence of rule
// on date. Its id may have been derived from a rule id that was later
// migrated.
func (r *Repository) ExceptionFor(ctx context.Context, scope, ruleID, date string) (finance.RecurringException, bool, error) {
	return exceptionFor(ctx, r, scope, ruleID, date)
}

func exceptionFor(ctx context.Context, r *Repository, scope, ruleID, date string) (finance.RecurringException, bool, error) {
	all, err := list[finance.RecurringException](ctx, r.store, CollectionExceptions, scope)
	if err != nil {
		return finance.RecurringException{}, false, err
	}

	for _, v := range all {
		if v.RuleID == ruleID && v.Date == date {
			return v, true, nil
		}
	}

	return finance.RecurringException{}, false, nil
}

// Tombstone marks the record id of collection deleted so the deletion
// propagates on the next push.
func (r *Repository) Tombstone(ctx context.Context, scope, collection, id string) error {
	switch collection {
	case CollectionTransactions:
		return tombstone(ctx, r, collection, scope, id, func(v *finance.Transaction, at int64) { v.UpdatedAt, v.DeletedAt = at, at })
	case CollectionCategories:
		return tombstone(ctx, r, collection, scope, id, func(v *finance.Category, at int64) { v.UpdatedAt, v.DeletedAt = at, at })
	case CollectionVendorRules:
		return tombstone(ctx, r, collection, scope, id, func(v *finance.VendorRule, at int64) { v.UpdatedAt, v.DeletedAt = at, at })
	case CollectionExceptions:
		return tombstone(ctx, r, collection, scope, id, func(v *finance.RecurringException, at int64) { v.UpdatedAt, v.DeletedAt = at, at })
	}

	return fmt.Errorf("unknown collection %q", collection)
}

func lockedEdit[T finance.Entity](ctx context.Context, r *Repository, collection, scope string, v T, stamp func(*T, int64)) (T, error) {
	var out T

	err := r.Exclusive(scope, func() error {
		var err error
		out, err = edit(ctx, r, collection, scope, v, stamp)

		return err
	})

	return out, err
}

func edit[T finance.Entity](ctx context.Context, r *Repository, collection, scope string, v T, stamp func(*T, int64)) (T, error) {
	prev, _, err := get[T](ctx, r.store, collection, v.EntityID(), scope)
	if err != nil {
		return v, err
	}

	stamp(&v, Touch(max(prev.LastModified(), v.LastModified()), r.now().UnixMilli()))

	if err := put(ctx, r.store, collection, scope, v); err != nil {
		return v, err
	}

	return v, nil
}

func tombstone[T finance.Entity](ctx context.Context, r *Repository, collection, scope, id string, mark func(*T, int64)) error {
	return r.Exclusive(scope, func() error {
		v, ok, err := get[T](ctx, r.store, collection, id, scope)
		if err != nil {
			return err
		}

		if !ok {
			return ErrNotFound
		}

		mark(&v, Touch(v.LastModified(), r.now().UnixMilli()))

		return put(ctx, r.store, collection, scope, v)
	})
}

// Package normalize migrates legacy identifiers to canonical ones and rewrites
// every reference to them in the same pass.
package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// Result is the outcome of one normalization pass.
type Result struct {
	finance.Collections
	Changed bool
	// Renames maps every legacy id seen in the pass to its canonical id.
	Renames map[string]string
}

// renames is a single map shared by every entity type so two records holding
// the same legacy id always end up with the same new id.
type renames map[string]string

func (r renames) of(old string) string {
	if id, ok := r[old]; ok {
		return id
	}

	id := finance.NewID()
	r[old] = id

	return id
}

// ref returns the rewritten reference, if any.
func (r renames) ref(id string) (string, bool) {
	if id == "" || finance.IsCanonicalID(id) {
		return id, false
	}

	next, ok := r[id]

	return next, ok
}

func needsID(id string) bool {
	return !finance.IsSystemID(id) && !finance.IsCanonicalID(id)
}

// Normalize rewrites non-canonical ids in c. Input slices are not modified.
// Every rewritten record has its UpdatedAt moved past now so the change is
// pushed on the next sync.
func Normalize(c finance.Collections, now int64) Result {
	m := renames{}
	changed := false

	cats := make([]finance.Category, len(c.Categories))
	for i, v := range c.Categories {
		if needsID(v.ID) {
			v.ID = m.of(v.ID)
			v.UpdatedAt = ledger.Touch(v.UpdatedAt, now)
			changed = true
		}

		cats[i] = v
	}

	txs := make([]finance.Transaction, len(c.Transactions))
	for i, v := range c.Transactions {
		dirty := false

		if needsID(v.ID) {
			v.ID = m.of(v.ID)
			dirty = true
		}

		if id, ok := m.ref(v.Category); ok {
			v.Category = id
			dirty = true
		}

		if dirty {
			v.UpdatedAt = ledger.Touch(v.UpdatedAt, now)
			changed = true
		}

		txs[i] = v
	}

	rules := make([]finance.VendorRule, len(c.VendorRules))
	for i, v := range c.VendorRules {
		dirty := false

		if needsID(v.ID) {
			v.ID = m.of(v.ID)
			dirty = true
		}

		if id, ok := m.ref(v.CategoryID); ok {
			v.CategoryID = id
			dirty = true
		}

		if dirty {
			v.UpdatedAt = ledger.Touch(v.UpdatedAt, now)
			changed = true
		}

		rules[i] = v
	}

	excs := make([]finance.RecurringException, len(c.Exceptions))
	for i, v := range c.Exceptions {
		if id, ok := m.ref(v.RuleID); ok {
			v.RuleID = id
			v.UpdatedAt = ledger.Touch(v.UpdatedAt, now)
			changed = true
		}

		excs[i] = v
	}

	return Result{
		Collections: finance.Collections{
			Transactions: txs,
			Categories:   cats,
			VendorRules:  rules,
			Exceptions:   excs,
		},
		Changed: changed,
		Renames: m,
	}
}

// Normalizer runs Normalize over what the ledger holds for a scope.
type Normalizer struct {
	repo *ledger.Repository
	now  func() time.Time
}

func New(repo *ledger.Repository) *Normalizer {
	return &Normalizer{repo: repo, now: time.Now}
}

// WithClock replaces the clock used to stamp rewritten records.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Run normalizes scope and persists the records that changed. A renamed record
// is written under its new key before the legacy key is removed, so a failure
// part way leaves a duplicate rather than a lost record.
//
// Run fails with ledger.ErrScopeBusy while a sync cycle holds the scope. Local
// edits made meanwhile wait for it to finish.
func (n *Normalizer) Run(ctx context.Context, scope string) (Result, error) {
	release, err := n.repo.Claim(scope)
	if err != nil {
		return Result{}, err
	}
	defer release()

	var res Result

	err = n.repo.Exclusive(scope, func() error {
		snap, err := n.repo.Load(ctx, scope)
		if err != nil {
			return fmt.Errorf("loading scope: %w", err)
		}

		res = Normalize(snap.Collections, n.now().UnixMilli())
		if !res.Changed {
			return nil
		}

		if err := persist(ctx, n.repo, scope, ledger.CollectionCategories, snap.Categories, res.Categories, n.repo.PutCategory); err != nil {
			return err
		}

		if err := persist(ctx, n.repo, scope, ledger.CollectionTransactions, snap.Transactions, res.Transactions, n.repo.PutTransaction); err != nil {
			return err
		}

		if err := persist(ctx, n.repo, scope, ledger.CollectionVendorRules, snap.VendorRules, res.VendorRules, n.repo.PutVendorRule); err != nil {
			return err
		}

		return persist(ctx, n.repo, scope, ledger.CollectionExceptions, snap.Exceptions, res.Exceptions, n.repo.PutException)
	})
	if err != nil {
		return res, err
	}

	if res.Changed {
		slog.Info("normalized identifiers", "scope", scope, "renamed", len(res.Renames))
	}

	return res, nil
}

// persist writes the records of after that differ from before. Normalize keeps
// order and length, so records are compared by index.
func persist[T finance.Entity](
	ctx context.Context,
	repo *ledger.Repository,
	scope, collection string,
	before, after []T,
	put func(context.Context, string, T) error,
) error {
	for i, v := range after {
		old := before[i]
		if v.LastModified() == old.LastModified() && v.EntityID() == old.EntityID() {
			continue
		}

		if err := put(ctx, scope, v); err != nil {
			return fmt.Errorf("saving %s/%s: %w", collection, v.EntityID(), err)
		}

		if v.EntityID() == old.EntityID() {
			continue
		}

		if err := repo.Remove(ctx, scope, collection, old.EntityID()); err != nil {
			return fmt.Errorf("removing %s/%s: %w", collection, old.EntityID(), err)
		}
	}

	return nil
}

// Package syncer reconciles the local ledger of a scope with the remote store.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// State is the phase a scope's cycle is in.
type State string

const (
	StateIdle       State = "idle"
	StatePulling    State = "pulling"
	StateMerging    State = "merging"
	StatePushing    State = "pushing"
	StatePersisting State = "persisting"
)

// ScopeFunc resolves the tenant a cycle runs for. authenticated is false for
// guests, for whom sync is disabled.
type ScopeFunc func(ctx context.Context) (scope string, authenticated bool, err error)

// ApplyFunc hands the post-cycle collections and the settings patch to the
// caller's live state.
type ApplyFunc func(c finance.Collections, patch finance.SettingsPatch) error

// Result is the authoritative snapshot after a cycle.
type Result struct {
	Collections finance.Collections   `json:"collections"`
	Patch       finance.SettingsPatch `json:"patch"`
	Errors      []*CollectionError    `json:"-"`
	Stats       []CollectionStats     `json:"stats,omitempty"`

	// Disabled is set when no remote is configured or the caller is a guest.
	Disabled bool `json:"disabled"`
}

type Orchestrator struct {
	repo   *ledger.Repository
	remote Remote
	scopes ScopeFunc
	now    func() time.Time

	mu       sync.Mutex
	inFlight map[string]State
}

type Option func(*Orchestrator)

// WithClock replaces the clock the sync timestamp is read from.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New builds an orchestrator. A nil remote disables sync.
func New(repo *ledger.Repository, remote Remote, scopes ScopeFunc, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		repo:     repo,
		remote:   remote,
		scopes:   scopes,
		now:      time.Now,
		inFlight: make(map[string]State),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// State reports the phase of the cycle running for scope.
func (o *Orchestrator) State(scope string) State {
	o.mu.Lock()
	defer o.mu.Unlock()

	if s, ok := o.inFlight[scope]; ok {
		return s
	}

	return StateIdle
}

// Sync runs one cycle over local and settings, persisting the merged records
// under the resolved scope and passing the result to apply.
//
// Per-collection failures are recorded in the patch and do not fail the call.
// A *FatalError means the cycle was aborted and the result carries local as
// given.
func (o *Orchestrator) Sync(ctx context.Context, local finance.Collections, settings finance.Settings, apply ApplyFunc) (*Result, error) {
	if o.remote == nil {
		return &Result{Collections: local, Disabled: true}, nil
	}

	scope, authenticated, err := o.scopes(ctx)
	if err != nil {
		return fatal(local, apply, fmt.Errorf("resolving scope: %w", err))
	}

	if !authenticated {
		return &Result{Collections: local, Disabled: true}, nil
	}

	end, err := o.begin(scope)
	if err != nil {
		return nil, err
	}
	defer end()

	return o.cycle(ctx, scope, local, settings, apply)
}

// SyncStored runs a cycle over what the ledger holds for the resolved scope
// and saves the settings patch back to it.
func (o *Orchestrator) SyncStored(ctx context.Context) (*Result, error) {
	if o.remote == nil {
		return &Result{Disabled: true}, nil
	}

	scope, authenticated, err := o.scopes(ctx)
	if err != nil {
		return fatal(finance.Collections{}, nil, fmt.Errorf("resolving scope: %w", err))
	}

	if !authenticated {
		return &Result{Disabled: true}, nil
	}

	end, err := o.begin(scope)
	if err != nil {
		return nil, err
	}
	defer end()

	snap, err := o.repo.Load(ctx, scope)
	if err != nil {
		return fatal(finance.Collections{}, nil, fmt.Errorf("loading scope: %w", err))
	}

	apply := func(_ finance.Collections, patch finance.SettingsPatch) error {
		return o.repo.SaveSettings(context.WithoutCancel(ctx), scope, patch.Apply(snap.Settings))
	}

	return o.cycle(ctx, scope, snap.Collections, snap.Settings, apply)
}

func (o *Orchestrator) cycle(
	ctx context.Context,
	scope string,
	local finance.Collections,
	settings finance.Settings,
	apply ApplyFunc,
) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = fatal(local, apply, fmt.Errorf("panic: %v", r))
		}
	}()

	pullAt, pushAt := settings.LastPullAt, settings.LastPushAt
	syncAt := o.now().UnixMilli()

	txs := &collection[finance.Transaction, TransactionRow]{
		name:         ledger.CollectionTransactions,
		working:      local.Transactions,
		changedSince: o.remote.TransactionsChangedSince,
		upsert:       o.remote.UpsertTransactions,
		toLocal:      TransactionFromRow,
		toRow:        TransactionToRow,
	}
	cats := &collection[finance.Category, CategoryRow]{
		name:         ledger.CollectionCategories,
		working:      local.Categories,
		changedSince: o.remote.CategoriesChangedSince,
		upsert:       o.remote.UpsertCategories,
		toLocal:      CategoryFromRow,
		toRow:        CategoryToRow,
	}
	rules := &collection[finance.VendorRule, VendorRuleRow]{
		name:         ledger.CollectionVendorRules,
		working:      local.VendorRules,
		changedSince: o.remote.VendorRulesChangedSince,
		upsert:       o.remote.UpsertVendorRules,
		toLocal:      VendorRuleFromRow,
		toRow:        VendorRuleToRow,
	}
	excs := &collection[finance.RecurringException, ExceptionRow]{
		name:         ledger.CollectionExceptions,
		working:      local.Exceptions,
		changedSince: o.remote.ExceptionsChangedSince,
		upsert:       o.remote.UpsertExceptions,
		toLocal:      ExceptionFromRow,
		toRow:        ExceptionToRow,
	}

	lanes := []lane{txs, cats, rules, excs}

	o.setState(scope, StatePulling)

	pullErrs, err := run(lanes, func(l lane) error { return l.pull(ctx, scope, pullAt) })
	if err != nil {
		return fatal(local, apply, err)
	}

	o.setState(scope, StateMerging)

	for _, l := range lanes {
		l.merge()
	}

	o.setState(scope, StatePushing)

	pushErrs, err := run(lanes, func(l lane) error { return l.push(ctx, scope, pushAt) })
	if err != nil {
		return fatal(local, apply, err)
	}

	o.setState(scope, StatePersisting)

	merged := finance.Collections{
		Transactions: txs.working,
		Categories:   cats.working,
		VendorRules:  rules.working,
		Exceptions:   excs.working,
	}

	// Remote state has already moved; the local copy is written even if the
	// caller has gone away. Records edited locally while the cycle ran are
	// newer than the working copy and are kept.
	if err := o.repo.SaveNewer(context.WithoutCancel(ctx), scope, merged); err != nil {
		return fatal(local, apply, fmt.Errorf("persisting: %w", err))
	}

	var errs []*CollectionError

	for i, l := range lanes {
		if pullErrs[i] != nil {
			errs = append(errs, &CollectionError{Collection: l.collection(), Phase: PhasePull, Err: pullErrs[i]})
		}
	}

	for i, l := range lanes {
		if pushErrs[i] != nil {
			errs = append(errs, &CollectionError{Collection: l.collection(), Phase: PhasePush, Err: pushErrs[i]})
		}
	}

	for _, e := range errs {
		slog.Warn("collection sync failed", "scope", scope, "collection", e.Collection, "phase", e.Phase, "error", e.Err)
	}

	syncErr := joinMessages(errs)
	res = &Result{
		Collections: merged,
		Patch: finance.SettingsPatch{
			LastPullAt:    &syncAt,
			LastPushAt:    &syncAt,
			LastSyncError: &syncErr,
		},
		Errors: errs,
	}

	for _, l := range lanes {
		res.Stats = append(res.Stats, l.stats())
	}

	slog.Info("sync cycle finished", "scope", scope, "sync_at", syncAt, "failed_collections", len(errs))

	if apply != nil {
		if err := apply(res.Collections, res.Patch); err != nil {
			return res, fmt.Errorf("applying sync result: %w", err)
		}
	}

	return res, nil
}

// run calls fn for every lane concurrently. The per-lane errors are returned
// in lane order; the group error is only set when a lane panicked.
func run(lanes []lane, fn func(lane) error) ([]error, error) {
	errs := make([]error, len(lanes))

	var g errgroup.Group

	for i, l := range lanes {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic in %s: %v", l.collection(), r)
				}
			}()

			errs[i] = fn(l)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return errs, nil
}

func fatal(local finance.Collections, apply ApplyFunc, err error) (*Result, error) {
	fe := &FatalError{Err: err}
	msg := fe.Error()

	slog.Error("sync cycle aborted", "error", err)

	res := &Result{
		Collections: local,
		Patch:       finance.SettingsPatch{LastSyncError: &msg},
	}

	if apply != nil {
		if aerr := apply(local, res.Patch); aerr != nil {
			slog.Error("failed to record sync error", "error", aerr)
		}
	}

	return res, fe
}

// begin claims scope in the ledger so no other cycle or id migration runs
// over it, and returns the func that gives it back.
func (o *Orchestrator) begin(scope string) (func(), error) {
	release, err := o.repo.Claim(scope)
	if err != nil {
		return nil, ErrCycleInFlight
	}

	o.setState(scope, StateIdle)

	return func() {
		o.mu.Lock()
		delete(o.inFlight, scope)
		o.mu.Unlock()

		release()
	}, nil
}

func (o *Orchestrator) setState(scope string, s State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.inFlight[scope] = s
}

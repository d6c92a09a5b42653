// Package remote is the Postgres side of the sync. Every table carries a
// user_id column holding the scope the row belongs to.
package remote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/pocketbook/internal/syncer"
)

const DefaultTimeout = 15 * time.Second

type Remote struct {
	db      *sql.DB
	timeout time.Duration
}

var _ syncer.Remote = (*Remote)(nil)

// New returns a Remote whose calls are each bounded by timeout. A zero timeout
// uses DefaultTimeout.
func New(db *sql.DB, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Remote{db: db, timeout: timeout}
}

// scanner is satisfied by *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const changedSinceFilter = `WHERE user_id = $1 AND (updated_at > $2 OR deleted_at > $2) ORDER BY updated_at, id`

func (r *Remote) TransactionsChangedSince(ctx context.Context, scope string, since int64) ([]syncer.TransactionRow, error) {
	query := `
		SELECT id, vendor, amount, date, category, recurrence, recurrence_interval, is_active, ended_at, updated_at, deleted_at
		FROM transactions ` + changedSinceFilter

	return changedSince(ctx, r, "transactions", query, scope, since, func(s scanner) (syncer.TransactionRow, error) {
		var row syncer.TransactionRow

		err := s.Scan(
			&row.ID, &row.Vendor, &row.Amount, &row.Date, &row.Category, &row.Recurrence,
			&row.RecurrenceInterval, &row.IsActive, &row.EndedAt, &row.UpdatedAt, &row.DeletedAt,
		)

		return row, err
	})
}

func (r *Remote) UpsertTransactions(ctx context.Context, scope string, rows []syncer.TransactionRow) error {
	query := `
		INSERT INTO transactions (id, user_id, vendor, amount, date, category, recurrence, recurrence_interval, is_active, ended_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			vendor = EXCLUDED.vendor,
			amount = EXCLUDED.amount,
			date = EXCLUDED.date,
			category = EXCLUDED.category,
			recurrence = EXCLUDED.recurrence,
			recurrence_interval = EXCLUDED.recurrence_interval,
			is_active = EXCLUDED.is_active,
			ended_at = EXCLUDED.ended_at,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
		WHERE transactions.user_id = EXCLUDED.user_id
	`

	return upsert(ctx, r, "transactions", query, rows, func(row syncer.TransactionRow) []any {
		return []any{
			row.ID, scope, row.Vendor, row.Amount, row.Date, row.Category, row.Recurrence,
			row.RecurrenceInterval, row.IsActive, row.EndedAt, row.UpdatedAt, row.DeletedAt,
		}
	})
}

func (r *Remote) CategoriesChangedSince(ctx context.Context, scope string, since int64) ([]syncer.CategoryRow, error) {
	query := `SELECT id, name, icon, color, "group", updated_at, deleted_at FROM categories ` + changedSinceFilter

	return changedSince(ctx, r, "categories", query, scope, since, func(s scanner) (syncer.CategoryRow, error) {
		var row syncer.CategoryRow

		err := s.Scan(&row.ID, &row.Name, &row.Icon, &row.Color, &row.Group, &row.UpdatedAt, &row.DeletedAt)

		return row, err
	})
}

func (r *Remote) UpsertCategories(ctx context.Context, scope string, rows []syncer.CategoryRow) error {
	query := `
		INSERT INTO categories (id, user_id, name, icon, color, "group", updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			icon = EXCLUDED.icon,
			color = EXCLUDED.color,
			"group" = EXCLUDED."group",
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
		WHERE categories.user_id = EXCLUDED.user_id
	`

	return upsert(ctx, r, "categories", query, rows, func(row syncer.CategoryRow) []any {
		return []any{row.ID, scope, row.Name, row.Icon, row.Color, row.Group, row.UpdatedAt, row.DeletedAt}
	})
}

func (r *Remote) VendorRulesChangedSince(ctx context.Context, scope string, since int64) ([]syncer.VendorRuleRow, error) {
	query := `SELECT id, vendor_contains, category_id, source, updated_at, deleted_at FROM vendor_rules ` + changedSinceFilter

	return changedSince(ctx, r, "vendor rules", query, scope, since, func(s scanner) (syncer.VendorRuleRow, error) {
		var row syncer.VendorRuleRow

		err := s.Scan(&row.ID, &row.VendorContains, &row.CategoryID, &row.Source, &row.UpdatedAt, &row.DeletedAt)

		return row, err
	})
}

func (r *Remote) UpsertVendorRules(ctx context.Context, scope string, rows []syncer.VendorRuleRow) error {
	query := `
		INSERT INTO vendor_rules (id, user_id, vendor_contains, category_id, source, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			vendor_contains = EXCLUDED.vendor_contains,
			category_id = EXCLUDED.category_id,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
		WHERE vendor_rules.user_id = EXCLUDED.user_id
	`

	return upsert(ctx, r, "vendor rules", query, rows, func(row syncer.VendorRuleRow) []any {
		return []any{row.ID, scope, row.VendorContains, row.CategoryID, row.Source, row.UpdatedAt, row.DeletedAt}
	})
}

func (r *Remote) ExceptionsChangedSince(ctx context.Context, scope string, since int64) ([]syncer.ExceptionRow, error) {
	query := `SELECT id, rule_id, date, skipped, note, updated_at, deleted_at FROM recurring_exceptions ` + changedSinceFilter

	return changedSince(ctx, r, "recurring exceptions", query, scope, since, func(s scanner) (syncer.ExceptionRow, error) {
		var row syncer.ExceptionRow

		err := s.Scan(&row.ID, &row.RuleID, &row.Date, &row.Skipped, &row.Note, &row.UpdatedAt, &row.DeletedAt)

		return row, err
	})
}

func (r *Remote) UpsertExceptions(ctx context.Context, scope string, rows []syncer.ExceptionRow) error {
	query := `
		INSERT INTO recurring_exceptions (id, user_id, rule_id, date, skipped, note, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			rule_id = EXCLUDED.rule_id,
			date = EXCLUDED.date,
			skipped = EXCLUDED.skipped,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
		WHERE recurring_exceptions.user_id = EXCLUDED.user_id
	`

	return upsert(ctx, r, "recurring exceptions", query, rows, func(row syncer.ExceptionRow) []any {
		return []any{row.ID, scope, row.RuleID, row.Date, row.Skipped, row.Note, row.UpdatedAt, row.DeletedAt}
	})
}

func changedSince[R any](
	ctx context.Context,
	r *Remote,
	what, query, scope string,
	since int64,
	scan func(scanner) (R, error),
) ([]R, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, scope, since)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", what, err)
	}
	defer rows.Close()

	var out []R

	for rows.Next() {
		row, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", what, err)
	}

	return out, nil
}

// upsert writes rows in one transaction. A row whose id is owned by another
// scope is left untouched by the ON CONFLICT guard.
func upsert[R any](ctx context.Context, r *Remote, what, query string, rows []R, args func(R) []any) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning %s upsert: %w", what, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing %s upsert: %w", what, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, args(row)...); err != nil {
			return fmt.Errorf("upserting %s: %w", what, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s upsert: %w", what, err)
	}

	return nil
}

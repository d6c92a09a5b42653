package syncer

import "context"

//go:generate mockgen -source=remote.go -destination=remote_mock.go -package=syncer

// Remote is the server side of the sync. ChangedSince methods return rows of
// scope whose updated_at or deleted_at is greater than since. Upsert methods
// write rows keyed by id.
type Remote interface {
	TransactionsChangedSince(ctx context.Context, scope string, since int64) ([]TransactionRow, error)
	UpsertTransactions(ctx context.Context, scope string, rows []TransactionRow) error

	CategoriesChangedSince(ctx context.Context, scope string, since int64) ([]CategoryRow, error)
	UpsertCategories(ctx context.Context, scope string, rows []CategoryRow) error

	VendorRulesChangedSince(ctx context.Context, scope string, since int64) ([]VendorRuleRow, error)
	UpsertVendorRules(ctx context.Context, scope string, rows []VendorRuleRow) error

	ExceptionsChangedSince(ctx context.Context, scope string, since int64) ([]ExceptionRow, error)
	UpsertExceptions(ctx context.Context, scope string, rows []ExceptionRow) error
}

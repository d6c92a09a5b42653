package syncer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
)

// Rows mirror the remote tables. Nullable columns are pointers.

type TransactionRow struct {
	ID                 string
	Vendor             string
	Amount             decimal.Decimal
	Date               time.Time
	Category           *string
	Recurrence         *string
	RecurrenceInterval int
	IsActive           bool
	EndedAt            *time.Time
	UpdatedAt          int64
	DeletedAt          *int64
}

type CategoryRow struct {
	ID        string
	Name      string
	Icon      *string
	Color     *string
	Group     *string
	UpdatedAt int64
	DeletedAt *int64
}

type VendorRuleRow struct {
	ID             string
	VendorContains string
	CategoryID     string
	Source         *string
	UpdatedAt      int64
	DeletedAt      *int64
}

type ExceptionRow struct {
	ID        string
	RuleID    string
	Date      string
	Skipped   bool
	Note      *string
	UpdatedAt int64
	DeletedAt *int64
}

func TransactionFromRow(r TransactionRow) finance.Transaction {
	return finance.Transaction{
		ID:                 r.ID,
		Vendor:             r.Vendor,
		Amount:             r.Amount,
		Date:               r.Date,
		Category:           value(r.Category),
		Recurrence:         finance.Recurrence(value(r.Recurrence)),
		RecurrenceInterval: r.RecurrenceInterval,
		IsActive:           r.IsActive,
		EndedAt:            r.EndedAt,
		UpdatedAt:          r.UpdatedAt,
		DeletedAt:          value(r.DeletedAt),
	}
}

func TransactionToRow(t finance.Transaction) TransactionRow {
	return TransactionRow{
		ID:                 t.ID,
		Vendor:             t.Vendor,
		Amount:             t.Amount,
		Date:               t.Date,
		Category:           nullable(t.Category),
		Recurrence:         nullable(string(t.Recurrence)),
		RecurrenceInterval: t.RecurrenceInterval,
		IsActive:           t.IsActive,
		EndedAt:            t.EndedAt,
		UpdatedAt:          t.UpdatedAt,
		DeletedAt:          nullable(t.DeletedAt),
	}
}

func CategoryFromRow(r CategoryRow) finance.Category {
	return finance.Category{
		ID:        r.ID,
		Name:      r.Name,
		Icon:      value(r.Icon),
		Color:     value(r.Color),
		Group:     value(r.Group),
		UpdatedAt: r.UpdatedAt,
		DeletedAt: value(r.DeletedAt),
	}
}

func CategoryToRow(c finance.Category) CategoryRow {
	return CategoryRow{
		ID:        c.ID,
		Name:      c.Name,
		Icon:      nullable(c.Icon),
		Color:     nullable(c.Color),
		Group:     nullable(c.Group),
		UpdatedAt: c.UpdatedAt,
		DeletedAt: nullable(c.DeletedAt),
	}
}

func VendorRuleFromRow(r VendorRuleRow) finance.VendorRule {
	return finance.VendorRule{
		ID:             r.ID,
		VendorContains: r.VendorContains,
		CategoryID:     r.CategoryID,
		Source:         finance.RuleSource(value(r.Source)),
		UpdatedAt:      r.UpdatedAt,
		DeletedAt:      value(r.DeletedAt),
	}
}

// VendorRuleToRow folds the legacy vendor field into vendor_contains.
func VendorRuleToRow(v finance.VendorRule) VendorRuleRow {
	return VendorRuleRow{
		ID:             v.ID,
		VendorContains: v.Pattern(),
		CategoryID:     v.CategoryID,
		Source:         nullable(string(v.Source)),
		UpdatedAt:      v.UpdatedAt,
		DeletedAt:      nullable(v.DeletedAt),
	}
}

func ExceptionFromRow(r ExceptionRow) finance.RecurringException {
	return finance.RecurringException{
		ID:        r.ID,
		RuleID:    r.RuleID,
		Date:      r.Date,
		Skipped:   r.Skipped,
		Note:      value(r.Note),
		UpdatedAt: r.UpdatedAt,
		DeletedAt: value(r.DeletedAt),
	}
}

func ExceptionToRow(e finance.RecurringException) ExceptionRow {
	return ExceptionRow{
		ID:        e.ID,
		RuleID:    e.RuleID,
		Date:      e.Date,
		Skipped:   e.Skipped,
		Note:      nullable(e.Note),
		UpdatedAt: e.UpdatedAt,
		DeletedAt: nullable(e.DeletedAt),
	}
}

func nullable[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}

	return &v
}

func value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}

package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity is the contract every synchronized record satisfies.
type Entity interface {
	EntityID() string
	// LastModified returns UpdatedAt in Unix milliseconds, 0 when absent.
	LastModified() int64
}

// Recurrence describes how often a transaction repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// RuleSource records whether a vendor rule was written by the user or learned.
type RuleSource string

const (
	RuleSourceUser    RuleSource = "user"
	RuleSourceLearned RuleSource = "learned"
)

// Transaction is a single income or expense. A transaction with a recurrence
// doubles as the rule that recurring exceptions point at.
type Transaction struct {
	ID                 string          `json:"id"`
	Vendor             string          `json:"vendor"`
	Amount             decimal.Decimal `json:"amount"`
	Date               time.Time       `json:"date"`
	Category           string          `json:"category,omitempty"`
	Recurrence         Recurrence      `json:"recurrence,omitempty"`
	RecurrenceInterval int             `json:"recurrenceInterval,omitempty"`
	IsActive           bool            `json:"isActive"`
	EndedAt            *time.Time      `json:"endedAt,omitempty"`
	UpdatedAt          int64           `json:"updatedAt,omitempty"`
	DeletedAt          int64           `json:"deletedAt,omitempty"`
}

func (t Transaction) EntityID() string    { return t.ID }
func (t Transaction) LastModified() int64 { return t.UpdatedAt }
func (t Transaction) IsDeleted() bool     { return t.DeletedAt != 0 }

// Category groups transactions for reporting.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty"`
	Group     string `json:"group,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
	DeletedAt int64  `json:"deletedAt,omitempty"`
}

func (c Category) EntityID() string    { return c.ID }
func (c Category) LastModified() int64 { return c.UpdatedAt }
func (c Category) IsDeleted() bool     { return c.DeletedAt != 0 }

// VendorRule maps vendors whose name contains a pattern to a category.
type VendorRule struct {
	ID             string `json:"id"`
	VendorContains string `json:"vendorContains,omitempty"`
	// Vendor is the field name older clients wrote the pattern under.
	Vendor     string     `json:"vendor,omitempty"`
	CategoryID string     `json:"categoryId"`
	Source     RuleSource `json:"source,omitempty"`
	UpdatedAt  int64      `json:"updatedAt,omitempty"`
	DeletedAt  int64      `json:"deletedAt,omitempty"`
}

func (r VendorRule) EntityID() string    { return r.ID }
func (r VendorRule) LastModified() int64 { return r.UpdatedAt }
func (r VendorRule) IsDeleted() bool     { return r.DeletedAt != 0 }

// Pattern returns the vendor substring the rule matches on.
func (r VendorRule) Pattern() string {
	if r.VendorContains != "" {
		return r.VendorContains
	}

	return r.Vendor
}

// RecurringException overrides a single occurrence of a recurring transaction.
type RecurringException struct {
	ID        string `json:"id"`
	RuleID    string `json:"ruleId"`
	Date      string `json:"date"` // YYYY-MM-DD
	Skipped   bool   `json:"skipped"`
	Note      string `json:"note,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
	DeletedAt int64  `json:"deletedAt,omitempty"`
}

func (e RecurringException) EntityID() string    { return e.ID }
func (e RecurringException) LastModified() int64 { return e.UpdatedAt }
func (e RecurringException) IsDeleted() bool     { return e.DeletedAt != 0 }

// Collections holds the four synchronized collections of one scope.
type Collections struct {
	Transactions []Transaction        `json:"transactions"`
	Categories   []Category           `json:"categories"`
	VendorRules  []VendorRule         `json:"vendorRules"`
	Exceptions   []RecurringException `json:"exceptions"`
}

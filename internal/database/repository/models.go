package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a users row. ExternalID is the chat/CLI identity the
// requester acts under; ID is the internal key the other tables reference.
type User struct {
	ID          int64
	ExternalID  int64
	DisplayName *string
	Language    *string
	CreatedAt   time.Time
}

// Expense represents a committed expenses row. Dates are stored as
// YYYY-MM-DD text. SyncedToMirror and MirrorRow drive the reconciliation
// engine.
type Expense struct {
	ID             int64
	UserID         int64
	Amount         decimal.Decimal
	Date           string
	Category       string
	Subcategory    string
	Description    string
	OriginalText   string
	MonthName      string
	SyncedToMirror bool
	MirrorRow      *int64
	CreatedAt      time.Time
}

// Budget represents a budgets row. A nil Category is the overall budget
// across all categories.
type Budget struct {
	ID           int64
	UserID       int64
	Category     *string
	MonthlyLimit decimal.Decimal
	CreatedAt    time.Time
}

// RecurringRule represents a recurring_expenses row.
type RecurringRule struct {
	ID          int64
	UserID      int64
	Amount      decimal.Decimal
	Category    string
	Subcategory string
	Description string
	Frequency   string // daily | weekly | monthly
	DayOfMonth  *int
	NextDue     string // YYYY-MM-DD
	Active      bool
}

// DueRule is a recurring rule joined with the owner's external identity,
// used by the materialization sweep to notify the owner.
type DueRule struct {
	RecurringRule
	ExternalID int64
}

// Income represents an income row.
type Income struct {
	ID          int64
	UserID      int64
	Amount      decimal.Decimal
	Source      string
	Date        string
	Description *string
	CreatedAt   time.Time
}

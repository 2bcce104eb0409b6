package expense

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single expense as interpreted from user text. Candidate
// records live in a pending batch and may have their category pair revised;
// once written to a ledger the record is immutable.
type Record struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Description string          `json:"description"`
}

// Validate checks the record invariants: positive amount and a parseable
// calendar date. Taxonomy membership is checked separately by the caller,
// which owns the category table.
func (r Record) Validate() error {
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", r.Amount)
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	return nil
}

// DateValue parses the record date. Call only after Validate.
func (r Record) DateValue() time.Time {
	t, _ := time.Parse("2006-01-02", r.Date)
	return t
}

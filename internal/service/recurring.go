package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwrobel/budzetnik/internal/database/repository"
	"github.com/jwrobel/budzetnik/internal/expense"
	"github.com/jwrobel/budzetnik/internal/format"
	"github.com/jwrobel/budzetnik/internal/i18n"
)

// Notifier delivers an out-of-band message to a requester. The serve loop
// wires this to its output surface; nil means materialization is silent.
type Notifier func(externalID int64, text string)

// Recurrer materializes due recurring rules into the primary ledger.
type Recurrer struct {
	Rules    *repository.RecurringRepo
	Expenses *repository.ExpenseRepo
	Notify   Notifier
	Log      zerolog.Logger
}

// NextDue computes a rule's next fire date from today. Monthly rules stay
// in the current month while the anchor day is still ahead; once today has
// reached the anchor they advance a month. The constructed date clamps the
// day to 28 so a rule anchored on the 29th, 30th or 31st fires every month,
// February included, at the cost of drifting off the anchor day. The
// comparison uses the unclamped anchor.
func NextDue(frequency string, dayOfMonth *int, today time.Time) time.Time {
	switch frequency {
	case "daily":
		return today.AddDate(0, 0, 1)
	case "weekly":
		return today.AddDate(0, 0, 7)
	case "monthly":
		anchor := today.Day()
		if dayOfMonth != nil {
			anchor = *dayOfMonth
		}
		day := anchor
		if day > 28 {
			day = 28
		}
		next := time.Date(today.Year(), today.Month(), day, 0, 0, 0, 0, today.Location())
		if today.Day() >= anchor {
			next = next.AddDate(0, 1, 0)
		}
		return next
	default:
		return today.AddDate(0, 0, 30)
	}
}

// ProcessDue materializes every rule due on or before today. Each rule is
// handled independently; a failing rule is logged and left due so the next
// sweep retries it. Returns how many expenses were created.
func (r *Recurrer) ProcessDue(ctx context.Context, today time.Time) (int, error) {
	if r.Rules == nil || r.Expenses == nil {
		return 0, nil
	}
	day := today.Format("2006-01-02")
	due, err := r.Rules.Due(ctx, day)
	if err != nil {
		return 0, err
	}
	var created int
	for _, rule := range due {
		rec := expense.Record{
			Amount:      rule.Amount,
			Date:        day,
			Category:    rule.Category,
			Subcategory: rule.Subcategory,
			Description: rule.Description,
		}
		_, err := r.Expenses.Insert(ctx, repository.Expense{
			UserID:       rule.UserID,
			Amount:       rec.Amount,
			Date:         rec.Date,
			Category:     rec.Category,
			Subcategory:  rec.Subcategory,
			Description:  rec.Description,
			OriginalText: "recurring: " + rule.Description,
			MonthName:    format.MonthName(today.Month()),
		})
		if err != nil {
			r.Log.Error().Err(err).Int64("rule", rule.ID).Msg("materialize recurring expense")
			continue
		}
		next := NextDue(rule.Frequency, rule.DayOfMonth, today)
		if err := r.Rules.UpdateNextDue(ctx, rule.ID, next.Format("2006-01-02")); err != nil {
			// the expense exists but the rule still looks due; the next sweep
			// would double-fire, so this is worth a loud log line
			r.Log.Error().Err(err).Int64("rule", rule.ID).Msg("advance next_due")
			continue
		}
		created++
		if r.Notify != nil {
			r.Notify(rule.ExternalID,
				i18n.T("recurring_created", rule.Description, format.Amount(rule.Amount)))
		}
	}
	return created, nil
}

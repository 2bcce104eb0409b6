package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// BudgetRepo handles monthly budgets. The (user, category) pair is unique;
// a nil category is the overall budget. Comparisons use IS so the NULL
// category matches itself.
type BudgetRepo struct {
	db *sql.DB
}

func NewBudgetRepo(db *sql.DB) *BudgetRepo { return &BudgetRepo{db: db} }

// Upsert sets or replaces the limit for a (user, category) pair.
func (r *BudgetRepo) Upsert(ctx context.Context, userID int64, category *string, limit decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET monthly_limit = ? WHERE user_id = ? AND category IS ?`,
		limit, userID, category)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n > 0 {
		return nil
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO budgets(user_id, category, monthly_limit) VALUES(?, ?, ?)`,
		userID, category, limit)
	return err
}

// List returns budgets with the overall budget first.
func (r *BudgetRepo) List(ctx context.Context, userID int64) ([]Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, monthly_limit, created_at FROM budgets WHERE user_id = ? ORDER BY category IS NOT NULL, category`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Budget
	for rows.Next() {
		var b Budget
		var cat sql.NullString
		if err := rows.Scan(&b.ID, &b.UserID, &cat, &b.MonthlyLimit, &b.CreatedAt); err != nil {
			return nil, err
		}
		if cat.Valid {
			b.Category = &cat.String
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BudgetRepo) Delete(ctx context.Context, userID int64, category *string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE user_id = ? AND category IS ?`, userID, category)
	return err
}

package repository

import (
	"context"
	"database/sql"
)

// RecurringRepo handles recurring expense rules.
type RecurringRepo struct {
	db *sql.DB
}

func NewRecurringRepo(db *sql.DB) *RecurringRepo { return &RecurringRepo{db: db} }

func (r *RecurringRepo) Add(ctx context.Context, rule RecurringRule) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO recurring_expenses(
	 user_id, amount, category, subcategory, description, frequency, day_of_month, next_due, is_active)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, 1);
	`,
		rule.UserID, rule.Amount, rule.Category, rule.Subcategory, rule.Description,
		rule.Frequency, rule.DayOfMonth, rule.NextDue)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *RecurringRepo) ListActive(ctx context.Context, userID int64) ([]RecurringRule, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, user_id, amount, category, subcategory, description, frequency, day_of_month, next_due, is_active
	FROM recurring_expenses WHERE user_id = ? AND is_active = 1 ORDER BY next_due`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RecurringRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// Deactivate marks a rule inactive. Rules are never deleted by firing; this
// is the only way one stops.
func (r *RecurringRepo) Deactivate(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE recurring_expenses SET is_active = 0 WHERE id = ?`, id)
	return err
}

// Due returns every active rule with next_due on or before today, joined
// with the owner's external identity for notification.
func (r *RecurringRepo) Due(ctx context.Context, today string) ([]DueRule, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT r.id, r.user_id, r.amount, r.category, r.subcategory, r.description,
	 r.frequency, r.day_of_month, r.next_due, r.is_active, u.external_id
	FROM recurring_expenses r
	JOIN users u ON r.user_id = u.id
	WHERE r.is_active = 1 AND r.next_due <= ?
	ORDER BY r.next_due`, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DueRule
	for rows.Next() {
		var d DueRule
		var dom sql.NullInt64
		if err := rows.Scan(&d.ID, &d.UserID, &d.Amount, &d.Category, &d.Subcategory,
			&d.Description, &d.Frequency, &dom, &d.NextDue, &d.Active, &d.ExternalID); err != nil {
			return nil, err
		}
		if dom.Valid {
			v := int(dom.Int64)
			d.DayOfMonth = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *RecurringRepo) UpdateNextDue(ctx context.Context, id int64, nextDue string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE recurring_expenses SET next_due = ? WHERE id = ?`, nextDue, id)
	return err
}

func scanRule(row scanner) (RecurringRule, error) {
	var rule RecurringRule
	var dom sql.NullInt64
	if err := row.Scan(&rule.ID, &rule.UserID, &rule.Amount, &rule.Category, &rule.Subcategory,
		&rule.Description, &rule.Frequency, &dom, &rule.NextDue, &rule.Active); err != nil {
		return RecurringRule{}, err
	}
	if dom.Valid {
		v := int(dom.Int64)
		rule.DayOfMonth = &v
	}
	return rule, nil
}

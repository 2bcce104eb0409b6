package repository

import (
	"context"
	"database/sql"
)

// IncomeRepo handles income entries.
type IncomeRepo struct {
	db *sql.DB
}

func NewIncomeRepo(db *sql.DB) *IncomeRepo { return &IncomeRepo{db: db} }

func (r *IncomeRepo) Insert(ctx context.Context, in Income) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO income(user_id, amount, source, date, description) VALUES(?, ?, ?, ?, ?)`,
		in.UserID, in.Amount, in.Source, in.Date, in.Description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ByDateRange returns income entries with start inclusive, end exclusive.
func (r *IncomeRepo) ByDateRange(ctx context.Context, userID int64, start, end string) ([]Income, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, user_id, amount, source, date, description, created_at
	FROM income WHERE user_id = ? AND date >= ? AND date < ?
	ORDER BY date, created_at`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Income
	for rows.Next() {
		var in Income
		var desc sql.NullString
		if err := rows.Scan(&in.ID, &in.UserID, &in.Amount, &in.Source, &in.Date, &desc, &in.CreatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			in.Description = &desc.String
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

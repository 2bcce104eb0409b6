package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"
)

// ExpenseRepo handles committed expenses.
type ExpenseRepo struct {
	db *sql.DB
}

func NewExpenseRepo(db *sql.DB) *ExpenseRepo { return &ExpenseRepo{db: db} }

const expenseColumns = `id, user_id, amount, date, category, subcategory, description, original_text, month_name, synced_to_mirror, mirror_row, created_at`

// Insert writes one expense and returns its row id. New rows start
// unsynced; the reconciliation engine or the commit path flips the flag.
func (r *ExpenseRepo) Insert(ctx context.Context, e Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO expenses(
	 user_id, amount, date, category, subcategory, description, original_text, month_name, synced_to_mirror, mirror_row)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		e.UserID, e.Amount, e.Date, e.Category, e.Subcategory, e.Description,
		e.OriginalText, e.MonthName, e.SyncedToMirror, e.MirrorRow)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteByIDs removes rows entirely; undo is the only caller.
func (r *ExpenseRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id IN (`+placeholders+`)`, args...)
	return err
}

func (r *ExpenseRepo) ByMonth(ctx context.Context, userID int64, monthName string) ([]Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? AND month_name = ? ORDER BY date, created_at`,
		userID, monthName)
}

func (r *ExpenseRepo) ByDateRange(ctx context.Context, userID int64, start, end string) ([]Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date, created_at`,
		userID, start, end)
}

// Search matches the pattern against description, category, subcategory and
// the original raw text, case-insensitively.
func (r *ExpenseRepo) Search(ctx context.Context, userID int64, query string) ([]Expense, error) {
	pattern := "%" + query + "%"
	return r.query(ctx, `
	SELECT `+expenseColumns+` FROM expenses
	WHERE user_id = ? AND (
	 description LIKE ? COLLATE NOCASE
	 OR category LIKE ? COLLATE NOCASE
	 OR subcategory LIKE ? COLLATE NOCASE
	 OR original_text LIKE ? COLLATE NOCASE)
	ORDER BY date DESC, created_at DESC`,
		userID, pattern, pattern, pattern, pattern)
}

func (r *ExpenseRepo) Recent(ctx context.Context, userID int64, limit int) ([]Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? ORDER BY date DESC, created_at DESC LIMIT ?`,
		userID, limit)
}

// Unsynced returns every expense not yet reflected in the mirror, oldest
// first so mirror order follows commit order.
func (r *ExpenseRepo) Unsynced(ctx context.Context) ([]Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE synced_to_mirror = 0 ORDER BY created_at`)
}

func (r *ExpenseRepo) CountUnsynced(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE synced_to_mirror = 0`).Scan(&n)
	return n, err
}

func (r *ExpenseRepo) MarkSynced(ctx context.Context, id, mirrorRow int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE expenses SET synced_to_mirror = 1, mirror_row = ? WHERE id = ?`, mirrorRow, id)
	return err
}

// SumForMonth totals spending for a month; a nil category totals across all
// categories (overall budget usage). Amounts are summed in Go: SUM() over
// the TEXT column would coerce to REAL and lose exactness.
func (r *ExpenseRepo) SumForMonth(ctx context.Context, userID int64, monthName string, category *string) (decimal.Decimal, error) {
	var rows *sql.Rows
	var err error
	if category == nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT amount FROM expenses WHERE user_id = ? AND month_name = ?`,
			userID, monthName)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT amount FROM expenses WHERE user_id = ? AND month_name = ? AND category = ?`,
			userID, monthName, *category)
	}
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()
	total := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	return total, rows.Err()
}

func (r *ExpenseRepo) Get(ctx context.Context, id int64) (*Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepo) query(ctx context.Context, q string, args ...interface{}) ([]Expense, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row scanner) (Expense, error) {
	var e Expense
	var mirrorRow sql.NullInt64
	if err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Date, &e.Category, &e.Subcategory,
		&e.Description, &e.OriginalText, &e.MonthName, &e.SyncedToMirror, &mirrorRow, &e.CreatedAt); err != nil {
		return Expense{}, err
	}
	if mirrorRow.Valid {
		e.MirrorRow = &mirrorRow.Int64
	}
	return e, nil
}

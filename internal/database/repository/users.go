package repository

import (
	"context"
	"database/sql"
)

// UserRepo handles users.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetOrCreate returns the internal user id for an external identity,
// creating the row on first contact.
func (r *UserRepo) GetOrCreate(ctx context.Context, externalID int64, displayName string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM users WHERE external_id = ?`, externalID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	var name *string
	if displayName != "" {
		name = &displayName
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users(external_id, display_name) VALUES(?, ?)`, externalID, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *UserRepo) Language(ctx context.Context, externalID int64) (string, error) {
	var lang sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT language FROM users WHERE external_id = ?`, externalID).Scan(&lang)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return lang.String, nil
}

func (r *UserRepo) SetLanguage(ctx context.Context, externalID int64, language string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET language = ? WHERE external_id = ?`, language, externalID)
	return err
}

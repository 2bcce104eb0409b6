// Package state is the durable store for pending confirmation batches and
// per-requester undo slots. It is backed by its own sqlite file so pending
// confirmations survive a process restart; an in-memory map here would drop
// every open confirmation on deploy.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jwrobel/budzetnik/internal/expense"
)

// PendingBatch is an unconfirmed, editable group of candidate records tied
// to one user message.
type PendingBatch struct {
	ID           string
	RequesterID  int64
	Records      []expense.Record
	OriginalText string
	CreatedAt    time.Time
}

// UndoEntry is the single-slot record of a requester's most recent commit.
// PrimaryIDs is empty when the commit was mirror-only; MirrorRows is empty
// when the mirror write failed or was not configured.
type UndoEntry struct {
	RequesterID int64
	PrimaryIDs  []int64
	MirrorRows  []int64
	Records     []expense.Record
}

// Store holds pending batches and undo entries.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS pending_batches (
 id TEXT PRIMARY KEY,
 requester_id INTEGER NOT NULL,
 records TEXT NOT NULL,
 original_text TEXT NOT NULL,
 created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS undo_entries (
 requester_id INTEGER PRIMARY KEY,
 primary_ids TEXT NOT NULL,
 mirror_rows TEXT NOT NULL,
 records TEXT NOT NULL,
 created_at TIMESTAMP NOT NULL
);
`

// Open opens (creating if needed) the state file.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("state schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Put stores a pending batch.
func (s *Store) Put(ctx context.Context, b PendingBatch) error {
	records, err := json.Marshal(b.Records)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT OR REPLACE INTO pending_batches(id, requester_id, records, original_text, created_at)
	VALUES(?, ?, ?, ?, ?)`,
		b.ID, b.RequesterID, string(records), b.OriginalText, b.CreatedAt.UTC())
	return err
}

// Get returns a pending batch, or nil if absent.
func (s *Store) Get(ctx context.Context, id string) (*PendingBatch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, requester_id, records, original_text, created_at FROM pending_batches WHERE id = ?`, id)
	b, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Pop atomically fetches and removes a batch. Under concurrent confirm and
// cancel for the same id exactly one caller gets the batch; the other sees
// nil. The select and delete share one transaction; sqlite serializes
// writers, so there is no window for two winners.
func (s *Store) Pop(ctx context.Context, id string) (*PendingBatch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, requester_id, records, original_text, created_at FROM pending_batches WHERE id = ?`, id)
	b, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, tx.Commit()
	}
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_batches WHERE id = ?`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListPending returns a requester's open batches, oldest first.
func (s *Store) ListPending(ctx context.Context, requesterID int64) ([]PendingBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, requester_id, records, original_text, created_at FROM pending_batches WHERE requester_id = ? ORDER BY created_at`,
		requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PendingBatch
	for rows.Next() {
		var b PendingBatch
		var records string
		if err := rows.Scan(&b.ID, &b.RequesterID, &records, &b.OriginalText, &b.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(records), &b.Records); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Remove deletes a batch if present.
func (s *Store) Remove(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pending_batches WHERE id = ?`, id)
	return err
}

// Sweep removes every batch older than ttl and returns how many went.
func (s *Store) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_batches WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// SaveUndo overwrites the requester's undo slot. Every successful commit
// lands here, so only the most recent commit is ever reversible.
func (s *Store) SaveUndo(ctx context.Context, e UndoEntry) error {
	primary, err := json.Marshal(e.PrimaryIDs)
	if err != nil {
		return err
	}
	mirror, err := json.Marshal(e.MirrorRows)
	if err != nil {
		return err
	}
	records, err := json.Marshal(e.Records)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT OR REPLACE INTO undo_entries(requester_id, primary_ids, mirror_rows, records, created_at)
	VALUES(?, ?, ?, ?, ?)`,
		e.RequesterID, string(primary), string(mirror), string(records), time.Now().UTC())
	return err
}

// GetUndo returns the requester's undo slot, or nil if empty.
func (s *Store) GetUndo(ctx context.Context, requesterID int64) (*UndoEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT requester_id, primary_ids, mirror_rows, records FROM undo_entries WHERE requester_id = ?`, requesterID)
	var e UndoEntry
	var primary, mirror, records string
	err := row.Scan(&e.RequesterID, &primary, &mirror, &records)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(primary), &e.PrimaryIDs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(mirror), &e.MirrorRows); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(records), &e.Records); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteUndo clears the slot after a successful undo.
func (s *Store) DeleteUndo(ctx context.Context, requesterID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM undo_entries WHERE requester_id = ?`, requesterID)
	return err
}

func scanBatch(row *sql.Row) (PendingBatch, error) {
	var b PendingBatch
	var records string
	if err := row.Scan(&b.ID, &b.RequesterID, &records, &b.OriginalText, &b.CreatedAt); err != nil {
		return PendingBatch{}, err
	}
	if err := json.Unmarshal([]byte(records), &b.Records); err != nil {
		return PendingBatch{}, err
	}
	return b, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package state persists which reports have already been digested.
//
// The store is a small SQLite database; it doubles as the run history
// surfaced by the history subcommand.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/threat-digest/pkg/types"
)

const dbFile = "digest.db"

// Store manages the processed-report SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at stateDir/digest.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StateConfig) (*Store, error) {
	if cfg.StateDir == "" {
		cfg.StateDir = "state"
	}
	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(cfg.StateDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS digests (
		url TEXT PRIMARY KEY,
		week INTEGER NOT NULL,
		year INTEGER NOT NULL,
		subject TEXT,
		sent_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Seen reports whether a report URL was already digested.
func (s *Store) Seen(ctx context.Context, url string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM digests WHERE url = ?`, url).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying digest state: %w", err)
	}
	return true, nil
}

// Record stores a processed digest. Recording the same URL twice is an
// error; callers check Seen first.
func (s *Store) Record(ctx context.Context, d types.Digest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO digests (url, week, year, subject, sent_at) VALUES (?, ?, ?, ?, ?)`,
		d.URL, d.Week, d.Year, d.Subject, d.SentAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording digest: %w", err)
	}
	return nil
}

// History returns up to limit digests, newest first. A non-positive
// limit means all.
func (s *Store) History(ctx context.Context, limit int) ([]types.Digest, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, week, year, subject, sent_at FROM digests ORDER BY sent_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying digest history: %w", err)
	}
	defer rows.Close()

	var digests []types.Digest
	for rows.Next() {
		var d types.Digest
		var sentAt string
		if err := rows.Scan(&d.URL, &d.Week, &d.Year, &d.Subject, &sentAt); err != nil {
			return nil, fmt.Errorf("scanning digest row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, sentAt); parseErr == nil {
			d.SentAt = t
		}
		digests = append(digests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating digest rows: %w", err)
	}
	return digests, nil
}

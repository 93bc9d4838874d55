package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	portfolio "github.com/etnz/folio"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS portfolios (
	user_id    TEXT PRIMARY KEY,
	snapshot   TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLite stores one snapshot row per user.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path. ":memory:" opens a
// private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Load(ctx context.Context, user string) (portfolio.Portfolio, error) {
	if err := checkUser(user); err != nil {
		return portfolio.Portfolio{}, err
	}
	var snapshot string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM portfolios WHERE user_id = ?`, user).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return portfolio.Portfolio{}, nil
	}
	if err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("failed to load %s: %w", user, err)
	}
	return portfolio.DecodePortfolio(bytes.NewBufferString(snapshot))
}

func (s *SQLite) Save(ctx context.Context, user string, p portfolio.Portfolio) error {
	if err := checkUser(user); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := portfolio.EncodePortfolio(&buf, p); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portfolios (user_id, snapshot, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		user, buf.String(), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", user, err)
	}
	return nil
}

func (s *SQLite) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM portfolios ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()
	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

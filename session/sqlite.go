package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const sqliteTable = "dirshare_sessions"

// SQLiteStore persists sessions in a SQLite database so logins survive a
// server restart.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewSQLiteStore(db *sql.DB, ttl time.Duration) *SQLiteStore {
	return &SQLiteStore{db: db, ttl: ttl}
}

// Migrate creates the session table and its expiry index.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			id TEXT NOT NULL PRIMARY KEY,
			logged_in INTEGER NOT NULL,
			images_enabled INTEGER NOT NULL,
			updated_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		)
	`, sqliteTable)
	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	indexSQL := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS "idx_%s_expires_at" ON %q (expires_at)
	`, sqliteTable, sqliteTable)
	if _, err := s.db.ExecContext(ctx, indexSQL); err != nil {
		return fmt.Errorf("create index expires_at: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (State, error) {
	query := fmt.Sprintf(
		`SELECT logged_in, images_enabled, expires_at FROM %q WHERE id = ?`, sqliteTable)

	var st State
	var expiresAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&st.LoggedIn, &st.ImagesEnabled, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, ErrNoSession
		}
		return State{}, fmt.Errorf("get session: %w", err)
	}

	exp, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil {
		return State{}, fmt.Errorf("get session: parse expires_at: %w", err)
	}
	if time.Now().After(exp) {
		return State{}, ErrNoSession
	}
	return st, nil
}

func (s *SQLiteStore) Put(ctx context.Context, id string, st State) error {
	now := time.Now().UTC()
	query := fmt.Sprintf(`
		INSERT INTO %q (id, logged_in, images_enabled, updated_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			logged_in = excluded.logged_in,
			images_enabled = excluded.images_enabled,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at
	`, sqliteTable)

	_, err := s.db.ExecContext(ctx, query,
		id, st.LoggedIn, st.ImagesEnabled,
		now.Format(time.RFC3339Nano),
		now.Add(s.ttl).Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %q WHERE id = ?`, sqliteTable)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Cleanup(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %q WHERE expires_at < ?`, sqliteTable)
	res, err := s.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresTable = "dirshare_sessions"

// PostgresStore persists sessions in Postgres, for deployments where
// several instances behind one proxy must agree on login state.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			id TEXT NOT NULL PRIMARY KEY,
			logged_in BOOLEAN NOT NULL,
			images_enabled BOOLEAN NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)
	`, postgresTable)
	if _, err := s.pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	indexSQL := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS "idx_%s_expires_at" ON %q (expires_at)
	`, postgresTable, postgresTable)
	if _, err := s.pool.Exec(ctx, indexSQL); err != nil {
		return fmt.Errorf("create index expires_at: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (State, error) {
	query := fmt.Sprintf(
		`SELECT logged_in, images_enabled FROM %q WHERE id = $1 AND expires_at > now()`,
		postgresTable)

	var st State
	err := s.pool.QueryRow(ctx, query, id).Scan(&st.LoggedIn, &st.ImagesEnabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return State{}, ErrNoSession
		}
		return State{}, fmt.Errorf("get session: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) Put(ctx context.Context, id string, st State) error {
	query := fmt.Sprintf(`
		INSERT INTO %q (id, logged_in, images_enabled, updated_at, expires_at)
		VALUES ($1, $2, $3, now(), now() + $4)
		ON CONFLICT (id) DO UPDATE SET
			logged_in = EXCLUDED.logged_in,
			images_enabled = EXCLUDED.images_enabled,
			updated_at = EXCLUDED.updated_at,
			expires_at = EXCLUDED.expires_at
	`, postgresTable)

	if _, err := s.pool.Exec(ctx, query, id, st.LoggedIn, st.ImagesEnabled, s.ttl); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %q WHERE id = $1`, postgresTable)
	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Cleanup(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %q WHERE expires_at < now()`, postgresTable)
	tag, err := s.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	_ "modernc.org/sqlite" // SQLite driver
)

// Config selects and configures a session backend.
type Config struct {
	// Backend is "memory", "sqlite" or "postgres".
	Backend string
	// DSN is the connection string for the sqlite and postgres backends.
	DSN string
	// TTL is how long a session lives after its last write.
	TTL time.Duration
}

// Connect opens the configured backend, runs migrations where needed and
// returns a ready Store. Callers own closing the store.
func Connect(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(cfg.TTL), nil
	case "sqlite":
		return connectSQLite(ctx, cfg)
	case "postgres":
		return connectPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.Backend)
	}
}

func connectSQLite(ctx context.Context, cfg Config) (Store, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := NewSQLiteStore(db, cfg.TTL)
	if err = store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return store, nil
}

func connectPostgres(ctx context.Context, cfg Config) (Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := NewPostgresStore(pool, cfg.TTL)
	if err = store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return store, nil
}

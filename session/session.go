// Package session holds the per-client server-side state the access gate
// and listing generator read: a login flag and an image-display
// preference, keyed by an opaque cookie-delivered id.
//
// Three Store backends are provided: in-memory (default), SQLite, and
// Postgres. Concurrent requests carrying the same session cookie may race
// on writes; the last write wins, which is acceptable for two boolean
// flags.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned by Store.Get when the id is unknown or the
// session has expired.
var ErrNoSession = errors.New("no session")

// State is the whole of a session. The zero value is a logged-out
// session with image previews off, which is also the state assumed for
// clients without a session cookie.
type State struct {
	LoggedIn      bool
	ImagesEnabled bool
}

// Store persists session state. Implementations are safe for concurrent
// use.
type Store interface {
	// Get returns the state for id, or ErrNoSession.
	Get(ctx context.Context, id string) (State, error)
	// Put creates or replaces the state for id and refreshes its expiry.
	Put(ctx context.Context, id string, s State) error
	// Delete removes the session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// Cleanup removes expired sessions and reports how many were removed.
	Cleanup(ctx context.Context) (int64, error)
	// Close releases backend resources.
	Close() error
}

// RunCleanup deletes expired sessions on the given interval until ctx is
// cancelled. Intended to run as a background goroutine next to the HTTP
// server.
func RunCleanup(ctx context.Context, store Store, interval time.Duration, onPass func(removed int64, err error)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.Cleanup(ctx)
			if onPass != nil {
				onPass(n, err)
			}
		}
	}
}

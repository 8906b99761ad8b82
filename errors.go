package dirshare

import "errors"

var (
	// ErrNotFound is returned when a resolved path does not exist on disk.
	ErrNotFound = errors.New("not found")
	// ErrInvalidDestination is returned when an upload target is not an
	// existing directory.
	ErrInvalidDestination = errors.New("invalid upload destination")
	// ErrUnauthorized is returned when credentials do not match.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDuplicateLabel is returned when two routes are registered under
	// the same label.
	ErrDuplicateLabel = errors.New("duplicate route label")
	// ErrMalformedRange is returned for Range headers outside the
	// single-range "bytes=start-end" subset. Callers degrade to a full
	// 200 response instead of surfacing it.
	ErrMalformedRange = errors.New("malformed range")
)

// PathError wraps a sentinel with the absolute path it was computed for,
// so HTTP handlers can name the path in their response body.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *PathError) Unwrap() error { return e.Err }


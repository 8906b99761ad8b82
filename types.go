package dirshare

// Route maps a logical label to a served root directory. Routes are built
// once at startup and never mutated afterwards.
type Route struct {
	Label string
	Root  string
}

// ResolvedTarget is the per-request result of sandboxing a sub-path
// against a route root.
type ResolvedTarget struct {
	AbsolutePath string
	IsDirectory  bool
	Size         int64
}

// AuthScheme selects how the access gate challenges unauthenticated
// requests.
type AuthScheme string

const (
	// SchemeForm redirects to the login page and tracks state in the
	// session store.
	SchemeForm AuthScheme = "form"
	// SchemeBasic answers 401 with a WWW-Authenticate challenge.
	SchemeBasic AuthScheme = "basic"
)

func (s AuthScheme) IsValid() bool {
	switch s {
	case SchemeForm, SchemeBasic:
		return true
	default:
		return false
	}
}

// AuthConfig is the single static credential pair for a server instance.
// A zero Username disables authentication entirely.
type AuthConfig struct {
	Username string
	Password string
	Scheme   AuthScheme
	// AllowLoopback skips authentication for requests originating from
	// 127.0.0.1, ::1 or the literal hostname localhost. Useful behind a
	// reverse proxy terminating on localhost; dangerous when a spoofable
	// address can appear local. Deliberately configurable, default on.
	AllowLoopback bool
}

// Enabled reports whether the access gate should be installed at all.
func (a AuthConfig) Enabled() bool {
	return a.Username != ""
}

// RangeSpec is an inclusive byte window parsed from a Range header.
type RangeSpec struct {
	Start uint64
	End   uint64
}

// Length returns the number of bytes the range covers.
func (r RangeSpec) Length() int64 {
	return int64(r.End-r.Start) + 1
}

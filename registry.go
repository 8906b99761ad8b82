package dirshare

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Route prefixes are fixed; only the label part varies per route.
const (
	ListingPrefix   = "/directory"
	UploadPrefix    = "/upload"
	ThumbnailPrefix = "/pdf-thumbnail"
	WebDAVPrefix    = "/dav"
)

// RegistryBuilder accumulates routes before the server starts. Add calls
// may be chained; Build produces the immutable snapshot request handlers
// consume.
type RegistryBuilder struct {
	routes []Route
	seen   map[string]bool
	err    error
}

func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{seen: make(map[string]bool)}
}

// Add registers a label and its root directory. The path is expanded
// (~, relative segments) and made absolute. Duplicate labels and missing
// directories are configuration errors surfaced by Build, not at request
// time.
func (b *RegistryBuilder) Add(label, root string) *RegistryBuilder {
	if b.err != nil {
		return b
	}
	label = strings.Trim(label, "/")
	if label == "" {
		b.err = fmt.Errorf("route for %q: empty label", root)
		return b
	}
	if strings.ContainsRune(label, '/') {
		b.err = fmt.Errorf("route label %q: labels cannot contain '/'", label)
		return b
	}
	if b.seen[label] {
		b.err = fmt.Errorf("route label %q: %w", label, ErrDuplicateLabel)
		return b
	}
	abs, err := ExpandPath(root)
	if err != nil {
		b.err = fmt.Errorf("route %q: %w", label, err)
		return b
	}
	st, err := os.Stat(abs)
	if err != nil {
		b.err = fmt.Errorf("route %q: %w", label, err)
		return b
	}
	if !st.IsDir() {
		b.err = fmt.Errorf("route %q: %s is not a directory", label, abs)
		return b
	}
	b.seen[label] = true
	b.routes = append(b.routes, Route{Label: label, Root: abs})
	return b
}

func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.routes) == 0 {
		return nil, fmt.Errorf("no routes configured")
	}
	byLabel := make(map[string]Route, len(b.routes))
	for _, r := range b.routes {
		byLabel[r.Label] = r
	}
	return &Registry{routes: append([]Route(nil), b.routes...), byLabel: byLabel}, nil
}

// Registry is the read-only ordered set of configured routes. All request
// handlers consult it concurrently; nothing mutates it after Build.
type Registry struct {
	routes  []Route
	byLabel map[string]Route
}

// Routes returns the routes in registration order.
func (r *Registry) Routes() []Route {
	return r.routes
}

// Lookup resolves a label to its route.
func (r *Registry) Lookup(label string) (Route, bool) {
	rt, ok := r.byLabel[label]
	return rt, ok
}

// ListingRoute returns the browse prefix for a label, e.g.
// "/directory/home".
func (r *Registry) ListingRoute(label string) string {
	return ListingPrefix + "/" + label
}

// UploadRoute returns the upload prefix for a label.
func (r *Registry) UploadRoute(label string) string {
	return UploadPrefix + "/" + label
}

// ThumbnailRoute returns the PDF thumbnail endpoint for a label.
func (r *Registry) ThumbnailRoute(label string) string {
	return ThumbnailPrefix + "/" + label
}

// ExpandPath expands a leading "~" to the user home directory and returns
// an absolute path.
func ExpandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", p, err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	return abs, nil
}

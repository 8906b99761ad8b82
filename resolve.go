package dirshare

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DecodeURL percent-decodes a request sub-path while preserving literal
// '+' characters. Browsers send '+' verbatim in file names, so the plus is
// escaped to %2B before the generic decode and comes back out as itself.
func DecodeURL(raw string) (string, error) {
	escaped := strings.ReplaceAll(raw, "+", "%2B")
	decoded, err := url.QueryUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", raw, err)
	}
	return decoded, nil
}

// SanitizeRel strips every occurrence of the two-character sequence ".."
// from a decoded sub-path. This is a blunt traversal guard: no component
// can ascend, at the cost of silently altering file names that
// legitimately contain "..". That trade-off is part of the contract; do
// not replace it with canonicalize-and-prefix-check, which behaves
// differently for such names.
func SanitizeRel(rel string) string {
	return strings.ReplaceAll(rel, "..", "")
}

// Resolve sandboxes a raw, percent-encoded sub-path against a route root
// and stats the result. The returned path is always a descendant of root.
// A missing path yields ErrNotFound wrapping the computed path so callers
// can name it in the 404 body.
func Resolve(root, rawSubPath string) (ResolvedTarget, error) {
	decoded, err := DecodeURL(rawSubPath)
	if err != nil {
		return ResolvedTarget{}, err
	}
	return ResolveDecoded(root, decoded)
}

// ResolveDecoded is Resolve for sub-paths that were already decoded, such
// as query parameter values.
func ResolveDecoded(root, decoded string) (ResolvedTarget, error) {
	rel := SanitizeRel(decoded)
	abs := filepath.Join(root, filepath.FromSlash(rel))

	st, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return ResolvedTarget{}, &PathError{Path: abs, Err: ErrNotFound}
		}
		return ResolvedTarget{}, fmt.Errorf("stat %s: %w", abs, err)
	}

	t := ResolvedTarget{AbsolutePath: abs, IsDirectory: st.IsDir()}
	if !t.IsDirectory {
		t.Size = st.Size()
	}
	return t, nil
}

// RelativeTo returns the slash-separated path of abs relative to root, or
// "" when abs is root itself. The empty result is how callers detect
// "already at root" when deciding whether to render a parent link.
func RelativeTo(root, abs string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

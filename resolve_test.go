package dirshare_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirshare"
)

func TestDecodeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "notes.txt", "notes.txt"},
		{"percent encoded space", "my%20file.txt", "my file.txt"},
		{"literal plus preserved", "c++ notes.txt", "c++ notes.txt"},
		{"encoded plus", "a%2Bb.txt", "a+b.txt"},
		{"nested path", "docs/sub%20dir/file", "docs/sub dir/file"},
		{"unicode", "caf%C3%A9.md", "café.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dirshare.DecodeURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeURL_Invalid(t *testing.T) {
	_, err := dirshare.DecodeURL("bad%zzescape")
	assert.Error(t, err)
}

func TestSanitizeRel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a/b/c", "a/b/c"},
		{"../etc/passwd", "/etc/passwd"},
		{"a/../../b", "a///b"},
		{"....//etc", "//etc"},
		{"file..txt", "filetxt"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dirshare.SanitizeRel(tt.in), "input %q", tt.in)
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "readme.md"), []byte("hello"), 0o644))

	t.Run("file", func(t *testing.T) {
		got, err := dirshare.Resolve(root, "docs/readme.md")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "docs", "readme.md"), got.AbsolutePath)
		assert.False(t, got.IsDirectory)
		assert.EqualValues(t, 5, got.Size)
	})

	t.Run("directory", func(t *testing.T) {
		got, err := dirshare.Resolve(root, "docs")
		require.NoError(t, err)
		assert.True(t, got.IsDirectory)
	})

	t.Run("root itself", func(t *testing.T) {
		got, err := dirshare.Resolve(root, "")
		require.NoError(t, err)
		assert.Equal(t, root, got.AbsolutePath)
		assert.True(t, got.IsDirectory)
	})

	t.Run("missing names the computed path", func(t *testing.T) {
		_, err := dirshare.Resolve(root, "nope.bin")
		require.ErrorIs(t, err, dirshare.ErrNotFound)
		assert.Contains(t, err.Error(), filepath.Join(root, "nope.bin"))
	})

	t.Run("traversal stays inside root", func(t *testing.T) {
		_, err := dirshare.Resolve(root, "../../etc/passwd")
		// The sanitized path lands under root, where it does not exist.
		require.ErrorIs(t, err, dirshare.ErrNotFound)
		assert.Contains(t, err.Error(), root)
	})
}

// Randomized traversal strings never resolve outside the configured root.
func TestResolve_TraversalProperty(t *testing.T) {
	root := t.TempDir()
	rng := rand.New(rand.NewSource(42))
	pieces := []string{"..", "../", "..\\", "%2e%2e", "a", "b/", ".", "/", "..%2f", "....//"}

	for i := 0; i < 500; i++ {
		var sb strings.Builder
		n := 1 + rng.Intn(8)
		for j := 0; j < n; j++ {
			sb.WriteString(pieces[rng.Intn(len(pieces))])
		}
		in := sb.String()

		got, err := dirshare.Resolve(root, in)
		if err != nil {
			continue
		}
		rel, relErr := filepath.Rel(root, got.AbsolutePath)
		require.NoError(t, relErr, "input %q", in)
		assert.False(t, strings.HasPrefix(rel, ".."), "input %q escaped to %s", in, got.AbsolutePath)
	}
}

func TestRelativeTo(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "share")
	assert.Equal(t, "", dirshare.RelativeTo(root, root))
	assert.Equal(t, "docs", dirshare.RelativeTo(root, filepath.Join(root, "docs")))
	assert.Equal(t, "docs/sub", dirshare.RelativeTo(root, filepath.Join(root, "docs", "sub")))
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirshare/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dirshare.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 9080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9080", cfg.Server.Addr())
	assert.False(t, cfg.Server.TLSEnabled())
	assert.Equal(t, "form", cfg.Auth.Scheme)
	assert.True(t, cfg.Auth.AllowLoopback)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.False(t, cfg.Uploads.Enabled)
	assert.False(t, cfg.Listing.ShowPaths)
	assert.Equal(t, "info", cfg.Log.Level)

	ttl, err := cfg.Session.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8888

[auth]
username = "admin"
password = "hunter2"
scheme = "basic"
allow_loopback = false

[session]
backend = "sqlite"
dsn = "sessions.db"
ttl = "1h"

[uploads]
enabled = true

[listing]
show_paths = true

[[routes]]
label = "home"
path = "/srv/home"

[[routes]]
label = "docs"
path = "/srv/docs"
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.Port)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, "basic", cfg.Auth.Scheme)
	assert.False(t, cfg.Auth.AllowLoopback)
	assert.Equal(t, "sqlite", cfg.Session.Backend)
	assert.True(t, cfg.Uploads.Enabled)
	assert.True(t, cfg.Listing.ShowPaths)
	require.Len(t, cfg.Routes, 2)
	assert.Equal(t, "home", cfg.Routes[0].Label)
	assert.Equal(t, "/srv/docs", cfg.Routes[1].Path)
}

func TestLoad_InvalidScheme(t *testing.T) {
	path := writeConfig(t, `
[auth]
username = "admin"
password = "pw"
scheme = "digest"
`)
	_, err := config.Load(path, nil)
	assert.Error(t, err)
}

func TestLoad_PasswordWithoutUsername(t *testing.T) {
	path := writeConfig(t, `
[auth]
password = "pw"
`)
	_, err := config.Load(path, nil)
	assert.Error(t, err)
}

func TestLoad_BadTTL(t *testing.T) {
	path := writeConfig(t, `
[session]
ttl = "soon"
`)
	_, err := config.Load(path, nil)
	assert.Error(t, err)
}

func TestLoad_SQLiteNeedsDSN(t *testing.T) {
	path := writeConfig(t, `
[session]
backend = "sqlite"
`)
	_, err := config.Load(path, nil)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.Error(t, err)
}

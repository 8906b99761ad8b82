package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"dirshare"
	dshttp "dirshare/http"
	"dirshare/session"
)

func newGatedServer(t *testing.T, auth dirshare.AuthConfig) *testServer {
	t.Helper()

	root := t.TempDir()
	reg, err := dirshare.NewRegistryBuilder().Add("docs", root).Build()
	require.NoError(t, err)

	cfg := &dshttp.HandlerConfig{Registry: reg, Auth: auth}
	sessions := session.NewManager(session.NewMemoryStore(time.Hour), false)
	h := dshttp.NewHandler(cfg, sessions, nil)
	return &testServer{router: h.Router(), root: root}
}

func formAuth() dirshare.AuthConfig {
	return dirshare.AuthConfig{
		Username: "admin",
		Password: "hunter2",
		Scheme:   dirshare.SchemeForm,
	}
}

func postLogin(srv *testServer, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

func TestGate_RedirectsAnonymous(t *testing.T) {
	srv := newGatedServer(t, formAuth())

	for _, path := range []string{"/", "/directory/docs/", "/toggle-image"} {
		rec := srv.get(path)
		require.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, dshttp.LoginPagePath, rec.Header().Get("Location"), path)
	}
}

func TestGate_WhitelistsAssets(t *testing.T) {
	srv := newGatedServer(t, formAuth())

	rec := srv.get("/assets/login.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)

	rec = srv.get("/assets/style.css")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_LoginFlow(t *testing.T) {
	srv := newGatedServer(t, formAuth())

	t.Run("wrong credentials return to login page", func(t *testing.T) {
		rec := postLogin(srv, "admin", "wrong")
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, dshttp.LoginPagePath, rec.Header().Get("Location"))
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("valid credentials open the gate", func(t *testing.T) {
		rec := postLogin(srv, "admin", "hunter2")
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)

		in := srv.get("/directory/docs/", func(r *http.Request) {
			for _, c := range cookies {
				r.AddCookie(c)
			}
		})
		assert.Equal(t, http.StatusOK, in.Code)

		// Logout closes it again.
		out := srv.get("/logout", func(r *http.Request) {
			for _, c := range cookies {
				r.AddCookie(c)
			}
		})
		require.Equal(t, http.StatusFound, out.Code)
		assert.Equal(t, dshttp.LoginPagePath, out.Header().Get("Location"))

		again := srv.get("/directory/docs/", func(r *http.Request) {
			for _, c := range cookies {
				r.AddCookie(c)
			}
		})
		assert.Equal(t, http.StatusFound, again.Code)
	})
}

func TestGate_LoopbackBypass(t *testing.T) {
	auth := formAuth()
	auth.AllowLoopback = true
	srv := newGatedServer(t, auth)

	for _, remote := range []string{"127.0.0.1:54321", "[::1]:54321"} {
		rec := srv.get("/directory/docs/", func(r *http.Request) {
			r.RemoteAddr = remote
		})
		assert.Equal(t, http.StatusOK, rec.Code, remote)
	}

	// httptest's default remote is 192.0.2.1, which stays gated.
	rec := srv.get("/directory/docs/")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestGate_LoopbackDisabled(t *testing.T) {
	srv := newGatedServer(t, formAuth())

	rec := srv.get("/directory/docs/", func(r *http.Request) {
		r.RemoteAddr = "127.0.0.1:54321"
	})
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestGate_BasicScheme(t *testing.T) {
	auth := formAuth()
	auth.Scheme = dirshare.SchemeBasic
	srv := newGatedServer(t, auth)

	t.Run("challenge without credentials", func(t *testing.T) {
		rec := srv.get("/directory/docs/")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
	})

	t.Run("rejects bad credentials", func(t *testing.T) {
		rec := srv.get("/directory/docs/", func(r *http.Request) {
			r.SetBasicAuth("admin", "wrong")
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts good credentials", func(t *testing.T) {
		rec := srv.get("/directory/docs/", func(r *http.Request) {
			r.SetBasicAuth("admin", "hunter2")
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGate_BcryptPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	auth := formAuth()
	auth.Password = string(hash)
	srv := newGatedServer(t, auth)

	rec := postLogin(srv, "admin", "hunter2")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = postLogin(srv, "admin", "wrong")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, dshttp.LoginPagePath, rec.Header().Get("Location"))
}

func TestGate_DisabledWithoutUsername(t *testing.T) {
	srv := newGatedServer(t, dirshare.AuthConfig{})

	rec := srv.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVerifyCredentials(t *testing.T) {
	cfg := formAuth()

	assert.True(t, dirshare.VerifyCredentials(cfg, "admin", "hunter2"))
	assert.False(t, dirshare.VerifyCredentials(cfg, "admin", "Hunter2"))
	assert.False(t, dirshare.VerifyCredentials(cfg, "root", "hunter2"))
	assert.False(t, dirshare.VerifyCredentials(dirshare.AuthConfig{}, "", ""))
}

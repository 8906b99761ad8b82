package http

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"dirshare"
	"dirshare/session"
)

// LoginPagePath is where unauthenticated browsers are sent under the
// form scheme. It is served from the embedded assets.
const LoginPagePath = "/assets/login.html"

// accessGate enforces the configured authentication scheme. The
// whitelist is evaluated before the login-state check: the login
// endpoint and static assets stay reachable, and loopback clients skip
// the gate entirely when allow_loopback is on.
func (h *Handler) accessGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.gateWhitelisted(r) {
			next.ServeHTTP(w, r)
			return
		}

		switch h.config.Auth.Scheme {
		case dirshare.SchemeBasic:
			user, pass, ok := r.BasicAuth()
			if !ok || !dirshare.VerifyCredentials(h.config.Auth, user, pass) {
				w.Header().Set("WWW-Authenticate", `Basic realm="dirshare"`)
				WritePlain(w, http.StatusUnauthorized, "Error: authentication required.")
				return
			}
		default:
			if !h.sessions.Load(r).LoggedIn {
				http.Redirect(w, r, LoginPagePath, http.StatusFound)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) gateWhitelisted(r *http.Request) bool {
	if r.URL.Path == "/login" || strings.HasPrefix(r.URL.Path, "/assets/") {
		return true
	}
	return h.config.Auth.AllowLoopback && isLoopback(r.RemoteAddr)
}

// isLoopback reports whether the remote address is the local machine.
// Clients on the host itself already have filesystem access, so the
// login gate would only get in their way. Disable with
// auth.allow_loopback = false when the server sits behind a local
// reverse proxy.
func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// handleLogin accepts the login form. A good credential pair marks the
// session logged in and lands on the index; anything else returns to the
// login page.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, LoginPagePath, http.StatusFound)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if !dirshare.VerifyCredentials(h.config.Auth, username, password) {
		slog.Info("login rejected", "username", username, "remote", r.RemoteAddr)
		http.Redirect(w, r, LoginPagePath, http.StatusFound)
		return
	}

	err := h.sessions.Update(w, r, func(st *session.State) {
		st.LoggedIn = true
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout drops the logged-in flag and returns to the login page.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := h.sessions.Update(w, r, func(st *session.State) {
		st.LoggedIn = false
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	http.Redirect(w, r, LoginPagePath, http.StatusFound)
}

package session

import (
	"net/http"

	"github.com/google/uuid"
)

// CookieName carries the opaque session id.
const CookieName = "dirshare_session"

// Manager ties a Store to the session cookie. Sessions are created lazily
// on first write: plain reads for clients without a cookie cost nothing.
type Manager struct {
	store  Store
	secure bool
}

func NewManager(store Store, secureCookies bool) *Manager {
	return &Manager{store: store, secure: secureCookies}
}

// Load returns the state for the request's session cookie. Requests
// without a cookie, or with an expired/unknown id, get the zero state.
func (m *Manager) Load(r *http.Request) State {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return State{}
	}
	st, err := m.store.Get(r.Context(), c.Value)
	if err != nil {
		// Unknown, expired, or backend trouble all degrade to the zero
		// state; the gate will redirect to login.
		return State{}
	}
	return st
}

// Save persists the state under the request's session id, minting an id
// and setting the cookie when the client has none yet.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, st State) error {
	id := ""
	if c, err := r.Cookie(CookieName); err == nil {
		id = c.Value
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return m.store.Put(r.Context(), id, st)
}

// Update loads the current state, applies fn and saves the result.
func (m *Manager) Update(w http.ResponseWriter, r *http.Request, fn func(*State)) error {
	st := m.Load(r)
	fn(&st)
	return m.Save(w, r, st)
}

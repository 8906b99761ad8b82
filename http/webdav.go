package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/webdav"

	"dirshare"
)

func init() {
	// chi rejects methods outside its default set before routing.
	chi.RegisterMethod("PROPFIND")
}

// webdavHandler mounts a read-only WebDAV view of one share, so file
// managers can browse it as a network drive.
func (h *Handler) webdavHandler(rt dirshare.Route) http.Handler {
	dav := &webdav.Handler{
		Prefix:     dirshare.WebDAVPrefix + "/" + rt.Label,
		FileSystem: webdav.Dir(rt.Root),
		LockSystem: webdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			if err != nil {
				slog.Debug("webdav", "method", r.Method, "path", r.URL.Path, "error", err)
			}
		},
	}
	return readOnly(dav)
}

// readOnly restricts a WebDAV handler to its browsing methods. Writes
// go through the upload route, never through DAV.
func readOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, "PROPFIND":
			next.ServeHTTP(w, r)
		default:
			WritePlain(w, http.StatusForbidden, "Error: read-only WebDAV share.")
		}
	})
}

package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"dirshare"
	"dirshare/session"
	"dirshare/thumb"
)

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type UploadConfig struct {
	Enabled bool
	// MaxMemory bounds the in-memory portion of multipart parsing;
	// larger parts spill to temporary files.
	MaxMemory int64
}

type ListingConfig struct {
	// ShowPaths prints each share's directory on the index page.
	ShowPaths bool
	// Force renders a generated listing even when the directory has its
	// own index.html.
	Force bool
}

type HandlerConfig struct {
	Registry *dirshare.Registry
	Auth     dirshare.AuthConfig
	Uploads  UploadConfig
	Listing  ListingConfig
	WebDAV   bool
	CORS     CORSConfig
}

// Handler provides the HTTP handlers for all dirshare routes.
type Handler struct {
	config   HandlerConfig
	sessions *session.Manager
	thumbs   *thumb.Cache
}

// NewHandler creates a Handler. A nil thumbs cache disables the
// pdf-thumbnail route.
func NewHandler(config *HandlerConfig, sessions *session.Manager, thumbs *thumb.Cache) *Handler {
	return &Handler{
		config:   *config,
		sessions: sessions,
		thumbs:   thumbs,
	}
}

// Router returns the configured chi router. Upload and thumbnail routes
// are registered only when their features are on, so disabled features
// 404 instead of erroring.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	if h.config.Auth.Enabled() {
		r.Use(h.accessGate)
		r.Post("/login", h.handleLogin)
		r.Get("/logout", h.handleLogout)
	}

	r.Get("/", h.handleIndex)
	r.Get("/assets/*", h.handleAsset)
	r.Get("/toggle-image", h.handleToggleImage)

	r.Get(dirshare.ListingPrefix+"/{label}", h.redirectToSlash)
	r.Get(dirshare.ListingPrefix+"/{label}/*", h.handleBrowse)

	if h.config.Uploads.Enabled {
		r.Post(dirshare.UploadPrefix+"/{label}/*", h.handleUpload)
	}

	if h.thumbs != nil {
		r.Get(dirshare.ThumbnailPrefix+"/{label}", h.handleThumbnail)
	}

	if h.config.WebDAV {
		for _, rt := range h.config.Registry.Routes() {
			dav := h.webdavHandler(rt)
			r.Handle(dirshare.WebDAVPrefix+"/"+rt.Label, dav)
			r.Handle(dirshare.WebDAVPrefix+"/"+rt.Label+"/*", dav)
		}
	}

	return r
}

// redirectToSlash sends "/directory/{label}" to "/directory/{label}/" so
// relative links inside listings resolve against the directory.
func (h *Handler) redirectToSlash(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, r.URL.EscapedPath()+"/", http.StatusFound)
}

// routeFor resolves the {label} URL parameter against the registry.
func (h *Handler) routeFor(r *http.Request) (dirshare.Route, bool) {
	label := chi.URLParam(r, "label")
	if dec, err := url.PathUnescape(label); err == nil {
		label = dec
	}
	return h.config.Registry.Lookup(label)
}

// rawSubPath returns the still percent-encoded sub-path after the given
// route prefix. Decoding is left to the resolver, which preserves
// literal '+' characters.
func rawSubPath(r *http.Request, prefix string) string {
	esc := r.URL.EscapedPath()
	return strings.TrimPrefix(esc, escapePath(prefix)+"/")
}

// escapePath percent-encodes a slash-separated path for use in hrefs.
func escapePath(p string) string {
	u := url.URL{Path: p}
	return u.EscapedPath()
}

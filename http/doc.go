// Package http provides the HTTP surface for dirshare directory sharing.
//
// The router exposes one listing, upload, and thumbnail route per
// configured share, plus the index page, the session-backed login gate,
// the image preview toggle, and an optional read-only WebDAV mount.
//
// # Routes
//
//   - GET  /                          route overview
//   - GET  /directory/{label}/*       listings and file delivery
//   - POST /upload/{label}/*          multipart upload (when enabled)
//   - GET  /pdf-thumbnail/{label}     cached document thumbnails (when enabled)
//   - GET  /toggle-image              flip inline image previews for the session
//   - POST /login, GET /logout        form authentication
//   - GET  /assets/*                  embedded static assets
//   - /dav/{label}/*                  read-only WebDAV (when enabled)
//
// File delivery honors single-part byte ranges for audio/video content and
// for any request carrying a Range header; malformed ranges degrade to a
// full 200 response.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    Registry: registry,
//	    Auth:     authCfg,
//	    Uploads:  http.UploadConfig{Enabled: true},
//	}, sessions, thumbs)
//	srv := &nethttp.Server{Addr: ":9080", Handler: handler.Router()}
package http

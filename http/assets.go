package http

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed assets
var assetFS embed.FS

// handleAsset serves the embedded static files under /assets/.
func (h *Handler) handleAsset(w http.ResponseWriter, r *http.Request) {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		HandleError(w, err)
		return
	}
	http.StripPrefix("/assets/", http.FileServerFS(sub)).ServeHTTP(w, r)
}

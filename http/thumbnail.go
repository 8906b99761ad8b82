package http

import (
	"errors"
	"net/http"

	"dirshare"
	"dirshare/thumb"
)

// handleThumbnail serves a cached thumbnail for the document named by
// the pdf query parameter, generating it on first access.
func (h *Handler) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	rt, ok := h.routeFor(r)
	if !ok {
		WritePlain(w, http.StatusNotFound, "Error: unknown share.")
		return
	}

	rel := r.URL.Query().Get("pdf")
	if rel == "" {
		WritePlain(w, http.StatusNotFound, "Error: missing pdf parameter.")
		return
	}

	target, err := dirshare.ResolveDecoded(rt.Root, rel)
	if err != nil {
		HandleError(w, err)
		return
	}
	if target.IsDirectory {
		WriteNotFound(w, target.AbsolutePath)
		return
	}

	cached, err := h.thumbs.Thumbnail(target.AbsolutePath)
	if err != nil {
		if errors.Is(err, thumb.ErrUnsupported) {
			WritePlain(w, http.StatusNotFound, "Error: no thumbnail for this file type.")
			return
		}
		HandleError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, cached)
}

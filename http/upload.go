package http

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"dirshare"
)

// handleUpload accepts a multipart form of "files" parts and writes them
// into the resolved destination directory, then redirects back to the
// listing. File names are flattened to their base name so a part cannot
// smuggle in path separators.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	rt, ok := h.routeFor(r)
	if !ok {
		WritePlain(w, http.StatusNotFound, "Error: unknown share.")
		return
	}

	raw := rawSubPath(r, dirshare.UploadPrefix+"/"+rt.Label)
	target, err := dirshare.Resolve(rt.Root, raw)
	if err != nil {
		HandleError(w, err)
		return
	}
	if !target.IsDirectory {
		HandleError(w, &dirshare.PathError{Path: target.AbsolutePath, Err: dirshare.ErrInvalidDestination})
		return
	}

	if err := r.ParseMultipartForm(h.config.Uploads.MaxMemory); err != nil {
		WritePlain(w, http.StatusBadRequest, "Error: malformed upload.")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	saved := 0
	for _, fh := range r.MultipartForm.File["files"] {
		if err := saveUpload(target.AbsolutePath, fh); err != nil {
			HandleError(w, err)
			return
		}
		saved++
	}

	slog.Info("upload complete",
		"share", rt.Label,
		"dir", target.AbsolutePath,
		"files", saved,
		"remote", r.RemoteAddr,
	)

	rel := dirshare.RelativeTo(rt.Root, target.AbsolutePath)
	http.Redirect(w, r, escapePath(dirshare.ListingPrefix+"/"+rt.Label+"/"+rel), http.StatusFound)
}

func saveUpload(dir string, fh *multipart.FileHeader) error {
	name := filepath.Base(filepath.Clean(fh.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("upload part has no usable file name: %q", fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload part %s: %w", name, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	buf := make([]byte, 64<<10)
	if _, err := io.CopyBuffer(dst, src, buf); err != nil {
		_ = dst.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

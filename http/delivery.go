package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"dirshare"
)

// serveFile streams a resolved file to the client. Audio and video
// files, and any request carrying a Range header, go through the ranged
// path; everything else is a plain 200 with Content-Length.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, target dirshare.ResolvedTarget) {
	name := filepath.Base(target.AbsolutePath)
	w.Header().Set("Content-Type", dirshare.ContentTypeFor(name))

	if dirshare.IsMediaAV(name) || r.Header.Get("Range") != "" {
		h.serveRanged(w, r, target)
		return
	}

	f, err := openTarget(target)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Length", strconv.FormatInt(target.Size, 10))
	if _, err := io.Copy(w, f); err != nil {
		slog.Debug("delivery aborted", "path", target.AbsolutePath, "error", err)
	}
}

// serveRanged answers a single byte range with 206 Partial Content.
// Absent or malformed Range headers degrade to a full 200 response, so
// media players that probe with odd ranges still get the file.
func (h *Handler) serveRanged(w http.ResponseWriter, r *http.Request, target dirshare.ResolvedTarget) {
	w.Header().Set("Accept-Ranges", "bytes")

	f, err := openTarget(target)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer func() { _ = f.Close() }()

	spec, err := dirshare.ParseRange(r.Header.Get("Range"), target.Size)
	if err != nil {
		if !errors.Is(err, dirshare.ErrMalformedRange) {
			HandleError(w, err)
			return
		}
		w.Header().Set("Content-Length", strconv.FormatInt(target.Size, 10))
		if _, err := io.Copy(w, f); err != nil {
			slog.Debug("delivery aborted", "path", target.AbsolutePath, "error", err)
		}
		return
	}

	if _, err := f.Seek(int64(spec.Start), io.SeekStart); err != nil {
		HandleError(w, err)
		return
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", spec.Start, spec.End, target.Size))
	w.Header().Set("Content-Length", strconv.FormatInt(spec.Length(), 10))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := io.CopyN(w, f, spec.Length()); err != nil {
		slog.Debug("ranged delivery aborted", "path", target.AbsolutePath, "error", err)
	}
}

func openTarget(target dirshare.ResolvedTarget) (*os.File, error) {
	f, err := os.Open(target.AbsolutePath)
	if err != nil {
		// The file can disappear between resolve and open.
		if os.IsNotExist(err) {
			return nil, &dirshare.PathError{Path: target.AbsolutePath, Err: dirshare.ErrNotFound}
		}
		return nil, err
	}
	return f, nil
}

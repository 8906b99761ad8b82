package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"dirshare"
)

// WritePlain writes a plain-text response. Responses are read by people
// in a browser, so errors stay human-readable rather than JSON.
func WritePlain(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if _, err := fmt.Fprintln(w, message); err != nil {
		slog.Debug("failed to write response body", "error", err)
	}
}

// WriteHTML writes a rendered page.
func WriteHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := fmt.Fprint(w, body); err != nil {
		slog.Debug("failed to write response body", "error", err)
	}
}

// WriteNotFound writes the 404 body naming the path that was looked up,
// so the requester can see what their URL resolved to on disk.
func WriteNotFound(w http.ResponseWriter, path string) {
	WritePlain(w, http.StatusNotFound, fmt.Sprintf("Error: file %s not found.", path))
}

// HandleError maps domain errors to status codes. Unrecognized errors are
// logged and reported as a 500 without leaking detail.
func HandleError(w http.ResponseWriter, err error) {
	var notFound *dirshare.PathError
	var badEscape url.EscapeError
	switch {
	case errors.As(err, &notFound) && errors.Is(err, dirshare.ErrNotFound):
		WriteNotFound(w, notFound.Path)
	case errors.As(err, &badEscape):
		WritePlain(w, http.StatusNotFound, "Error: malformed path.")
	case errors.Is(err, dirshare.ErrNotFound):
		WritePlain(w, http.StatusNotFound, "Error: file not found.")
	case errors.Is(err, dirshare.ErrInvalidDestination):
		WritePlain(w, http.StatusNotFound, "Error: upload destination is not a directory.")
	case errors.Is(err, dirshare.ErrUnauthorized):
		WritePlain(w, http.StatusForbidden, "Error: forbidden.")
	default:
		slog.Error("request failed", "error", err)
		WritePlain(w, http.StatusInternalServerError, "Error: internal server error.")
	}
}
